package session

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/pkg/metrics"
)

func testBooking() *models.ActiveBooking {
	return &models.ActiveBooking{
		BookingID:  9,
		TableID:    3,
		TableLabel: "Bàn 7",
		StartTime:  time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC),
		Status:     models.BookingStatusConfirmed,
	}
}

func TestTryBeginIsSingleFlightPerFlow(t *testing.T) {
	s := newSession("s", time.Now())

	require.True(t, s.TryBegin(FlowCheckout))
	assert.False(t, s.TryBegin(FlowCheckout))
	assert.True(t, s.TryBegin(FlowPayment), "other flows are independent")

	s.End(FlowCheckout)
	assert.True(t, s.TryBegin(FlowCheckout))
}

func TestTakeawayForceClearsBooking(t *testing.T) {
	s := newSession("s", time.Now())
	s.SetActiveBooking(5, testBooking())
	require.NotNil(t, s.ActiveBooking(5))

	s.SetOrderType(models.OrderTypeTakeaway)
	assert.Nil(t, s.ActiveBooking(5))
	assert.Equal(t, models.OrderTypeTakeaway, s.OrderType())
}

func TestBookingIsScopedToUser(t *testing.T) {
	s := newSession("s", time.Now())
	s.ObserveUser(5)
	s.SetActiveBooking(5, testBooking())

	assert.Nil(t, s.ActiveBooking(6))

	changed := s.ObserveUser(6)
	assert.True(t, changed)
	assert.Nil(t, s.ActiveBooking(5), "identity change drops the previous user's booking")
	assert.False(t, s.ObserveUser(6))
}

func TestUpdateEditingWithoutOpenOrder(t *testing.T) {
	s := newSession("s", time.Now())
	_, err := s.UpdateEditing(func(*models.EditableOrder) error { return nil })
	assert.ErrorIs(t, err, ErrNoEditableOrder)
}

func TestEditingReturnsCopies(t *testing.T) {
	s := newSession("s", time.Now())
	s.SetEditing(&models.EditableOrder{
		OrderID: 42,
		Lines:   []models.EditableOrderLine{{LineID: 1, MenuItemID: 11, UnitPrice: 1000, Quantity: 1}},
	})

	cp := s.Editing()
	cp.Lines[0].Quantity = 99

	assert.Equal(t, 1, s.Editing().Lines[0].Quantity)
}

func TestSnapshotRoundTripSkipsInFlight(t *testing.T) {
	s := newSession("abc", time.Now())
	s.ObserveUser(5)
	require.NoError(t, s.Cart.Add(models.CartLine{ItemID: 1, Name: "Lẩu", UnitPrice: 100000}, 2))
	s.SetActiveBooking(5, testBooking())
	s.SetPaymentIntent(&models.PaymentIntent{OrderID: 42, Amount: 200000})
	require.True(t, s.TryBegin(FlowCheckout))

	restored := fromSnapshot("abc", s.Snapshot(), time.Now())
	assert.Equal(t, int64(200000), restored.Cart.TotalPrice())
	assert.Equal(t, int64(5), restored.UserID())
	assert.NotNil(t, restored.ActiveBooking(5))
	assert.Equal(t, int64(42), restored.PaymentIntent().OrderID)
	assert.True(t, restored.TryBegin(FlowCheckout))
}

func TestManagerLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewManager(nil, time.Hour, metrics.New(reg))
	ctx := context.Background()

	s := m.Create()
	got, err := m.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, m.Len())

	_, err = m.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, m.Destroy(ctx, s.ID))
	_, err = m.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	again, created := m.GetOrCreate(ctx, s.ID)
	assert.True(t, created)
	assert.NotEqual(t, s.ID, again.ID)
	assert.Equal(t, float64(1), gaugeValue(t, reg, "gateway_sessions_active"))
}

func TestManagerExpiresIdleSessions(t *testing.T) {
	m := NewManager(nil, time.Minute, nil)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	idle := m.Create()
	clock = clock.Add(30 * time.Second)
	fresh := m.Create()

	clock = clock.Add(45 * time.Second)
	assert.Equal(t, 1, m.Sweep())

	_, err := m.Get(context.Background(), idle.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(context.Background(), fresh.ID)
	assert.NoError(t, err)
}

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("gauge %s not registered", name)
	return 0
}
