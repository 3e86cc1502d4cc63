package repositories

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"restaurant_gateway/internal/models"
)

// BookingRepository defines the booking operations of the restaurant backend.
type BookingRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.Booking, error)
	List(ctx context.Context, filters models.BookingFilters) ([]models.Booking, int, error)
	ListByPhone(ctx context.Context, phone string) ([]models.Booking, error)
	Create(ctx context.Context, userID int64, req models.CreateBookingPayload, at time.Time) (*models.Booking, error)
	Update(ctx context.Context, bookingID int64, tableID int64, at time.Time, guests int) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID int64) error
	Complete(ctx context.Context, bookingID int64) error
	Delete(ctx context.Context, bookingID int64) error
}

type bookingRepository struct {
	api Requester
	loc *time.Location
}

// NewBookingRepository creates a new instance of BookingRepository.
func NewBookingRepository(api Requester, loc *time.Location) BookingRepository {
	return &bookingRepository{api: api, loc: loc}
}

type bookingUserWire struct {
	ID int64 `json:"id"`
}

type bookingTableWire struct {
	ID          int64 `json:"id" validate:"required"`
	TableNumber int   `json:"tableNumber"`
}

type bookingWire struct {
	ID           int64             `json:"id" validate:"required"`
	User         *bookingUserWire  `json:"user"`
	UserID       *int64            `json:"userId"`
	Table        *bookingTableWire `json:"table"`
	TableID      *int64            `json:"tableId"`
	TableNumber  *int              `json:"tableNumber"`
	CustomerName string            `json:"customerName"`
	Phone        string            `json:"phone"`
	BookingTime  string            `json:"bookingTime" validate:"required"`
	NumGuests    int               `json:"numGuests" validate:"gte=0"`
	Status       string            `json:"status" validate:"required"`
	Note         *string           `json:"note"`
}

func (w bookingWire) toModel(loc *time.Location) (models.Booking, error) {
	status, ok := models.ParseBookingStatus(w.Status)
	if !ok {
		return models.Booking{}, fmt.Errorf("%w: booking %d has unknown status %q", ErrDecode, w.ID, w.Status)
	}
	at, err := parseBackendTime(w.BookingTime, loc)
	if err != nil {
		return models.Booking{}, fmt.Errorf("booking %d: %w", w.ID, err)
	}

	b := models.Booking{
		ID:           w.ID,
		CustomerName: w.CustomerName,
		Phone:        w.Phone,
		BookingTime:  at,
		NumGuests:    w.NumGuests,
		Status:       status,
		Note:         w.Note,
	}
	switch {
	case w.Table != nil:
		b.TableID = w.Table.ID
		b.TableNumber = w.Table.TableNumber
	case w.TableID != nil:
		b.TableID = *w.TableID
		if w.TableNumber != nil {
			b.TableNumber = *w.TableNumber
		}
	default:
		return models.Booking{}, fmt.Errorf("%w: booking %d has no table", ErrDecode, w.ID)
	}
	switch {
	case w.User != nil:
		id := w.User.ID
		b.UserID = &id
	case w.UserID != nil:
		id := *w.UserID
		b.UserID = &id
	}
	return b, nil
}

func (r *bookingRepository) convert(items []bookingWire) ([]models.Booking, error) {
	out := make([]models.Booking, 0, len(items))
	for _, w := range items {
		b, err := w.toModel(r.loc)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	items, _, err := fetchList[bookingWire](ctx, r.api, Request{
		Method: http.MethodGet,
		Route:  "/api/bookings/user/{userId}",
		Path:   "/api/bookings/user/" + strconv.FormatInt(userID, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("listing bookings for user %d: %w", userID, err)
	}
	return r.convert(items)
}

func (r *bookingRepository) List(ctx context.Context, filters models.BookingFilters) ([]models.Booking, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(filters.Page))
	q.Set("size", strconv.Itoa(filters.PageSize))
	items, total, err := fetchList[bookingWire](ctx, r.api, Request{
		Method: http.MethodGet,
		Route:  "/api/bookings",
		Path:   "/api/bookings",
		Query:  q,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("listing bookings: %w", err)
	}
	bookings, err := r.convert(items)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *bookingRepository) ListByPhone(ctx context.Context, phone string) ([]models.Booking, error) {
	items, _, err := fetchList[bookingWire](ctx, r.api, Request{
		Method: http.MethodGet,
		Route:  "/api/bookings/phone/{phone}",
		Path:   "/api/bookings/phone/" + phone,
	})
	if err != nil {
		return nil, fmt.Errorf("searching bookings by phone: %w", err)
	}
	return r.convert(items)
}

type createBookingWire struct {
	UserID       int64   `json:"userId,omitempty"`
	TableID      int64   `json:"tableId"`
	BookingTime  string  `json:"bookingTime"`
	NumGuests    int     `json:"numGuests"`
	CustomerName string  `json:"customerName,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	Note         *string `json:"note,omitempty"`
}

func (r *bookingRepository) Create(ctx context.Context, userID int64, req models.CreateBookingPayload, at time.Time) (*models.Booking, error) {
	w, err := fetchObject[bookingWire](ctx, r.api, Request{
		Method: http.MethodPost,
		Route:  "/api/bookings",
		Path:   "/api/bookings",
		Body: createBookingWire{
			UserID:       userID,
			TableID:      req.TableID,
			BookingTime:  formatBackendTime(at, r.loc),
			NumGuests:    req.NumGuests,
			CustomerName: req.CustomerName,
			Phone:        req.Phone,
			Note:         req.Note,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}
	b, err := w.toModel(r.loc)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Update(ctx context.Context, bookingID int64, tableID int64, at time.Time, guests int) (*models.Booking, error) {
	w, err := fetchObject[bookingWire](ctx, r.api, Request{
		Method: http.MethodPut,
		Route:  "/api/bookings/{id}",
		Path:   "/api/bookings/" + strconv.FormatInt(bookingID, 10),
		Body: createBookingWire{
			TableID:     tableID,
			BookingTime: formatBackendTime(at, r.loc),
			NumGuests:   guests,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("updating booking %d: %w", bookingID, err)
	}
	b, err := w.toModel(r.loc)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Cancel(ctx context.Context, bookingID int64) error {
	_, err := r.api.Do(ctx, Request{
		Method: http.MethodPut,
		Route:  "/api/bookings/{id}/cancel",
		Path:   "/api/bookings/" + strconv.FormatInt(bookingID, 10) + "/cancel",
	})
	if err != nil {
		return fmt.Errorf("cancelling booking %d: %w", bookingID, err)
	}
	return nil
}

func (r *bookingRepository) Complete(ctx context.Context, bookingID int64) error {
	_, err := r.api.Do(ctx, Request{
		Method: http.MethodPut,
		Route:  "/api/bookings/{id}/complete",
		Path:   "/api/bookings/" + strconv.FormatInt(bookingID, 10) + "/complete",
	})
	if err != nil {
		return fmt.Errorf("completing booking %d: %w", bookingID, err)
	}
	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, bookingID int64) error {
	_, err := r.api.Do(ctx, Request{
		Method: http.MethodDelete,
		Route:  "/api/bookings/{id}",
		Path:   "/api/bookings/" + strconv.FormatInt(bookingID, 10),
	})
	if err != nil {
		return fmt.Errorf("deleting booking %d: %w", bookingID, err)
	}
	return nil
}
