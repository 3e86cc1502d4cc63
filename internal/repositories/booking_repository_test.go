package repositories

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_gateway/internal/models"
)

var testLoc = time.FixedZone("ICT", 7*3600)

func TestBookingRepositoryListByUserNestedAndFlat(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/bookings/user/5", http.StatusOK, `[
		{"id":10,"user":{"id":5},"table":{"id":3,"tableNumber":7},"bookingTime":"2025-06-01T19:00:00","numGuests":2,"status":"CONFIRMED"},
		{"id":11,"userId":5,"tableId":4,"tableNumber":8,"bookingTime":"2025-06-02T12:00:00","status":"Pending"}
	]`)

	repo := NewBookingRepository(client, testLoc)
	bookings, err := repo.ListByUser(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	assert.Equal(t, int64(3), bookings[0].TableID)
	assert.Equal(t, 7, bookings[0].TableNumber)
	assert.Equal(t, models.BookingStatusConfirmed, bookings[0].Status)
	require.NotNil(t, bookings[0].UserID)
	assert.Equal(t, int64(5), *bookings[0].UserID)
	assert.Equal(t, time.Date(2025, 6, 1, 19, 0, 0, 0, testLoc), bookings[0].BookingTime)

	assert.Equal(t, int64(4), bookings[1].TableID)
	assert.Equal(t, models.BookingStatusPending, bookings[1].Status)
}

func TestBookingRepositoryRejectsMissingBookingTime(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/bookings/user/5", http.StatusOK, `[{"id":10,"tableId":3,"status":"Pending"}]`)

	_, err := NewBookingRepository(client, testLoc).ListByUser(context.Background(), 5)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestBookingRepositoryRejectsUnknownStatus(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/bookings/user/5", http.StatusOK, `[{"id":10,"tableId":3,"bookingTime":"2025-06-01T19:00:00","status":"Lost"}]`)

	_, err := NewBookingRepository(client, testLoc).ListByUser(context.Background(), 5)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestBookingRepositoryListPaged(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/bookings", http.StatusOK, `{"content":[{"id":1,"tableId":2,"bookingTime":"2025-06-01T19:00:00","status":"Completed"}],"totalElements":31}`)

	bookings, total, err := NewBookingRepository(client, testLoc).List(context.Background(), models.BookingFilters{Page: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, 31, total)
	assert.Equal(t, "page=2&size=10", fb.lastCall().Query)
}

func TestBookingRepositoryCreateSendsLocalTime(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on(http.MethodPost, "/api/bookings", http.StatusCreated, `{"id":99,"userId":5,"tableId":3,"bookingTime":"2025-06-01T19:00:00","numGuests":4,"status":"Pending"}`)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b, err := NewBookingRepository(client, testLoc).Create(context.Background(), 5, models.CreateBookingPayload{
		TableID:      3,
		CustomerName: "Lan",
		Phone:        "0901234567",
		NumGuests:    4,
	}, at)
	require.NoError(t, err)
	assert.Equal(t, int64(99), b.ID)

	body := fb.lastCall().Body
	assert.Equal(t, "2025-06-01T19:00:00", body["bookingTime"])
	assert.Equal(t, float64(5), body["userId"])
	assert.Equal(t, "Lan", body["customerName"])
}

func TestBookingRepositoryLifecycleCalls(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on(http.MethodPut, "/api/bookings/9/cancel", http.StatusOK, `{}`)
	fb.on(http.MethodPut, "/api/bookings/9/complete", http.StatusOK, `{}`)
	fb.on(http.MethodDelete, "/api/bookings/9", http.StatusNoContent, ``)

	repo := NewBookingRepository(client, testLoc)
	ctx := context.Background()
	require.NoError(t, repo.Cancel(ctx, 9))
	require.NoError(t, repo.Complete(ctx, 9))
	require.NoError(t, repo.Delete(ctx, 9))
	assert.Len(t, fb.calls, 3)

	err := repo.Delete(ctx, 10)
	assert.ErrorIs(t, err, ErrNotFound)
}
