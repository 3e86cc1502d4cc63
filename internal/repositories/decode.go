package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// pageWire is the paginated list envelope some endpoints return.
type pageWire[T any] struct {
	Content       []T `json:"content"`
	TotalElements int `json:"totalElements"`
}

// decodeObject parses raw into out and validates it against its struct tags.
func decodeObject(raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

// decodeList accepts either a bare JSON array or a {content: [...]} page and
// validates every element. The second return value is the total element
// count the backend reported, or the list length for bare arrays.
func decodeList[T any](raw []byte) ([]T, int, error) {
	trimmed := bytes.TrimSpace(raw)
	var items []T
	total := 0
	switch {
	case len(trimmed) == 0:
		return nil, 0, fmt.Errorf("%w: empty body where a list was expected", ErrDecode)
	case trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		total = len(items)
	case trimmed[0] == '{':
		var page pageWire[T]
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		items = page.Content
		total = page.TotalElements
		if total < len(items) {
			total = len(items)
		}
	default:
		return nil, 0, fmt.Errorf("%w: unexpected list body", ErrDecode)
	}
	for i := range items {
		if err := validate.Struct(&items[i]); err != nil {
			return nil, 0, fmt.Errorf("%w: item %d: %v", ErrDecode, i, err)
		}
	}
	return items, total, nil
}

func fetchObject[T any](ctx context.Context, r Requester, req Request) (*T, error) {
	raw, err := r.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	var out T
	if err := decodeObject(raw, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", req.Route, err)
	}
	return &out, nil
}

func fetchList[T any](ctx context.Context, r Requester, req Request) ([]T, int, error) {
	raw, err := r.Do(ctx, req)
	if err != nil {
		return nil, 0, err
	}
	items, total, err := decodeList[T](raw)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", req.Route, err)
	}
	return items, total, nil
}

// dong is an amount in Vietnamese đồng. The backend may send it as 100000 or
// 100000.0; anything with a fractional part is rejected, as is null.
// Amounts that business logic depends on are declared as *dong with a
// required tag so an absent field fails validation instead of reading as 0.
type dong int64

func (d *dong) UnmarshalJSON(b []byte) error {
	text := strings.Trim(string(b), `"`)
	if text == "null" || text == "" {
		return fmt.Errorf("amount is %s", strings.TrimSpace(string(b)))
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return fmt.Errorf("amount %q is not a number", text)
	}
	if !amount.IsInteger() {
		return fmt.Errorf("amount %q has a fractional part", text)
	}
	if amount.GreaterThan(maxDong) || amount.LessThan(minDong) {
		return fmt.Errorf("amount %q is out of range", text)
	}
	*d = dong(amount.IntPart())
	return nil
}

func (d *dong) amount() int64 {
	if d == nil {
		return 0
	}
	return int64(*d)
}

var (
	maxDong = decimal.NewFromInt(math.MaxInt64)
	minDong = decimal.NewFromInt(math.MinInt64)
)

var backendTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// parseBackendTime reads the backend's timestamps. Values without a zone are
// local restaurant time.
func parseBackendTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range backendTimeLayouts {
		if layout == time.RFC3339Nano {
			if t, err := time.Parse(layout, value); err == nil {
				return t.In(loc), nil
			}
			continue
		}
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised timestamp %q", ErrDecode, value)
}

// formatBackendTime renders a local timestamp the way the backend expects it.
func formatBackendTime(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("2006-01-02T15:04:05")
}
