package repositories

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"restaurant_gateway/internal/models"
)

// TableRepository covers the dining tables staff manage on the floor.
type TableRepository interface {
	List(ctx context.Context) ([]models.DiningTable, error)
	UpdateStatus(ctx context.Context, tableID int64, status models.TableStatus) error
}

type tableRepository struct {
	api Requester
}

// NewTableRepository creates a new instance of TableRepository.
func NewTableRepository(api Requester) TableRepository {
	return &tableRepository{api: api}
}

type tableWire struct {
	ID          int64  `json:"id" validate:"required"`
	TableNumber int    `json:"tableNumber" validate:"required"`
	Capacity    int    `json:"capacity" validate:"gte=0"`
	Status      string `json:"status" validate:"required"`
}

func (r *tableRepository) List(ctx context.Context) ([]models.DiningTable, error) {
	items, _, err := fetchList[tableWire](ctx, r.api, Request{
		Method: http.MethodGet,
		Route:  "/api/tables",
		Path:   "/api/tables",
	})
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	out := make([]models.DiningTable, 0, len(items))
	for _, w := range items {
		if !models.IsValidTableStatus(w.Status) {
			return nil, fmt.Errorf("%w: table %d has unknown status %q", ErrDecode, w.ID, w.Status)
		}
		out = append(out, models.DiningTable{
			ID:          w.ID,
			TableNumber: w.TableNumber,
			Capacity:    w.Capacity,
			Status:      models.TableStatus(w.Status),
		})
	}
	return out, nil
}

func (r *tableRepository) UpdateStatus(ctx context.Context, tableID int64, status models.TableStatus) error {
	_, err := r.api.Do(ctx, Request{
		Method: http.MethodPatch,
		Route:  "/api/tables/{id}/status",
		Path:   "/api/tables/" + strconv.FormatInt(tableID, 10) + "/status",
		Query:  url.Values{"status": {string(status)}},
	})
	if err != nil {
		return fmt.Errorf("updating status of table %d: %w", tableID, err)
	}
	return nil
}
