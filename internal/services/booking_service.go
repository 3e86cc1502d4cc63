package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/repositories"
	"restaurant_gateway/pkg/utils"
)

// --- Custom Service Errors for Booking ---
var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrInvalidBookingTime = errors.New("invalid booking time (bad format or in the past)")
	ErrBookingValidation  = errors.New("booking data validation error")
)

// BookingService covers booking reconciliation for checkout plus the
// customer and admin booking screens.
type BookingService interface {
	ResolveActiveBooking(ctx context.Context, userID int64, asOf time.Time) *models.ActiveBooking
	ReleaseForOrder(ctx context.Context, order *models.Order) (bool, error)

	CreateBooking(ctx context.Context, userID int64, req models.CreateBookingPayload) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID int64) ([]models.Booking, error)

	GetBookings(ctx context.Context, filters models.BookingFilters) ([]models.Booking, int, error)
	SearchByPhone(ctx context.Context, phone string) ([]models.Booking, error)
	UpdateBooking(ctx context.Context, bookingID int64, req models.UpdateBookingPayload) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID int64) error
	CompleteBooking(ctx context.Context, bookingID int64) error
	DeleteBooking(ctx context.Context, bookingID int64) error
}

type bookingService struct {
	bookingRepo repositories.BookingRepository
	loc         *time.Location
	now         func() time.Time
}

// NewBookingService creates a new instance of BookingService. loc is the
// restaurant's time zone.
func NewBookingService(br repositories.BookingRepository, loc *time.Location) BookingService {
	if loc == nil {
		loc = time.UTC
	}
	return &bookingService{bookingRepo: br, loc: loc, now: time.Now}
}

// StartOfDay is midnight of t's calendar day in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// ResolveActiveBooking returns the first booking, in the order the backend
// lists them, that is Pending or Confirmed and starts today or later. A
// failed fetch resolves to nil so checkout falls through to the booking
// prompt.
func (s *bookingService) ResolveActiveBooking(ctx context.Context, userID int64, asOf time.Time) *models.ActiveBooking {
	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		utils.LogWarn(err, "ResolveActiveBooking: fetching bookings failed, treating as no active booking",
			map[string]interface{}{"user_id": userID})
		return nil
	}
	cutoff := StartOfDay(asOf, s.loc)
	for _, b := range bookings {
		if !b.Status.IsActive() || b.BookingTime.Before(cutoff) {
			continue
		}
		return models.ActiveBookingFrom(b)
	}
	return nil
}

// ReleaseForOrder deletes the active booking that held the order's table.
// It reports whether a booking was released; no matching booking is not an
// error.
func (s *bookingService) ReleaseForOrder(ctx context.Context, order *models.Order) (bool, error) {
	if order.OrderType != models.OrderTypeDineIn || order.TableID == nil {
		return false, nil
	}
	bookings, err := s.bookingRepo.ListByUser(ctx, order.UserID)
	if err != nil {
		return false, fmt.Errorf("looking up booking for order %d: %w", order.ID, err)
	}
	cutoff := StartOfDay(order.CreatedAt, s.loc)
	if order.CreatedAt.IsZero() {
		cutoff = StartOfDay(s.now(), s.loc)
	}
	for _, b := range bookings {
		if b.TableID != *order.TableID || !b.Status.IsActive() || b.BookingTime.Before(cutoff) {
			continue
		}
		if err := s.bookingRepo.Delete(ctx, b.ID); err != nil {
			return false, fmt.Errorf("releasing booking %d for order %d: %w", b.ID, order.ID, err)
		}
		utils.LogInfo("Released table booking after order cancellation",
			map[string]interface{}{"order_id": order.ID, "booking_id": b.ID, "table_id": b.TableID})
		return true, nil
	}
	return false, nil
}

// parseBookingSlot combines a YYYY-MM-DD date and HH:MM slot in the
// restaurant's time zone.
func (s *bookingService) parseBookingSlot(date, slot string) (time.Time, error) {
	at, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(date)+" "+strings.TrimSpace(slot), s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: use YYYY-MM-DD and HH:MM", ErrInvalidBookingTime)
	}
	return at, nil
}

func (s *bookingService) CreateBooking(ctx context.Context, userID int64, req models.CreateBookingPayload) (*models.Booking, error) {
	if utils.IsEmpty(req.CustomerName) || utils.IsEmpty(req.Phone) {
		return nil, fmt.Errorf("%w: customer name and phone are required", ErrBookingValidation)
	}
	if req.TableID <= 0 {
		return nil, fmt.Errorf("%w: a table must be selected", ErrBookingValidation)
	}
	if req.NumGuests <= 0 {
		req.NumGuests = 1
	}
	at, err := s.parseBookingSlot(req.Date, req.TimeSlot)
	if err != nil {
		return nil, err
	}
	// Allow a small buffer for clock drift between browser and server.
	if at.Before(s.now().Add(-5 * time.Minute)) {
		return nil, fmt.Errorf("%w: booking time cannot be in the past", ErrInvalidBookingTime)
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Phone = strings.TrimSpace(req.Phone)
	if req.Note != nil {
		req.Note = utils.NewNullString(*req.Note)
	}

	booking, err := s.bookingRepo.Create(ctx, userID, req, at)
	if err != nil {
		return nil, mapBookingRepoError(err)
	}
	return booking, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID int64) ([]models.Booking, error) {
	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, mapBookingRepoError(err)
	}
	return bookings, nil
}

func (s *bookingService) GetBookings(ctx context.Context, filters models.BookingFilters) ([]models.Booking, int, error) {
	if filters.PageSize <= 0 {
		filters.PageSize = 10
	}
	if filters.Page < 0 {
		filters.Page = 0
	}
	bookings, total, err := s.bookingRepo.List(ctx, filters)
	if err != nil {
		return nil, 0, mapBookingRepoError(err)
	}
	return bookings, total, nil
}

func (s *bookingService) SearchByPhone(ctx context.Context, phone string) ([]models.Booking, error) {
	if utils.IsEmpty(phone) {
		return nil, fmt.Errorf("%w: phone is required", ErrBookingValidation)
	}
	bookings, err := s.bookingRepo.ListByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		return nil, mapBookingRepoError(err)
	}
	return bookings, nil
}

func (s *bookingService) UpdateBooking(ctx context.Context, bookingID int64, req models.UpdateBookingPayload) (*models.Booking, error) {
	at, err := parseDateTime(req.BookingTime, s.loc)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookingRepo.Update(ctx, bookingID, req.TableID, at, req.NumGuests)
	if err != nil {
		return nil, mapBookingRepoError(err)
	}
	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID int64) error {
	return mapBookingRepoError(s.bookingRepo.Cancel(ctx, bookingID))
}

func (s *bookingService) CompleteBooking(ctx context.Context, bookingID int64) error {
	return mapBookingRepoError(s.bookingRepo.Complete(ctx, bookingID))
}

func (s *bookingService) DeleteBooking(ctx context.Context, bookingID int64) error {
	return mapBookingRepoError(s.bookingRepo.Delete(ctx, bookingID))
}

// parseDateTime accepts RFC3339 or a zone-less local timestamp.
func parseDateTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", value, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", value, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: use RFC3339 or YYYY-MM-DDTHH:MM:SS", ErrInvalidBookingTime)
}

func mapBookingRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrBookingNotFound, err)
	}
	return err
}
