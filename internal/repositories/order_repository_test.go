package repositories

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_gateway/internal/models"
)

const pendingOrderJSON = `{
	"id":42,"userId":5,"userFullName":"Lan","tableId":3,"tableName":"Bàn 7",
	"totalAmount":250000.0,"status":"Pending","orderType":"DINEIN",
	"createdAt":"2025-06-01T19:05:00",
	"orderItems":[
		{"id":1,"menuItemId":11,"menuItemName":"Gỏi cá","quantity":2,"priceAtOrder":75000,"subtotal":150000},
		{"id":2,"menuItemId":12,"menuItemName":"Lẩu cá","quantity":1,"priceAtOrder":100000,"subtotal":100000}
	]
}`

func TestOrderRepositoryGetByID(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/orders/42", http.StatusOK, pendingOrderJSON)

	o, err := NewOrderRepository(client, testLoc).GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(250000), o.TotalAmount)
	assert.Equal(t, models.OrderTypeDineIn, o.OrderType)
	assert.Equal(t, models.OrderStatusPending, o.Status)
	require.Len(t, o.Items, 2)
	assert.Equal(t, int64(75000), o.Items[0].PriceAtOrder)
	assert.Equal(t, 19, o.CreatedAt.Hour())
}

func TestOrderRepositoryRejectsInvalidLines(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/orders/42", http.StatusOK,
		`{"id":42,"totalAmount":1,"status":"Pending","orderType":"Takeaway","orderItems":[{"id":1,"menuItemId":11,"quantity":0,"priceAtOrder":1,"subtotal":0}]}`)

	_, err := NewOrderRepository(client, testLoc).GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestOrderRepositoryRequiresAmountsAndOwner(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing priceAtOrder", `{"id":42,"userId":5,"totalAmount":150000,"status":"Pending","orderType":"Takeaway",
			"orderItems":[{"id":1,"menuItemId":11,"quantity":2,"subtotal":150000}]}`},
		{"null priceAtOrder", `{"id":42,"userId":5,"totalAmount":150000,"status":"Pending","orderType":"Takeaway",
			"orderItems":[{"id":1,"menuItemId":11,"quantity":2,"priceAtOrder":null,"subtotal":150000}]}`},
		{"missing subtotal", `{"id":42,"userId":5,"totalAmount":150000,"status":"Pending","orderType":"Takeaway",
			"orderItems":[{"id":1,"menuItemId":11,"quantity":2,"priceAtOrder":75000}]}`},
		{"missing totalAmount", `{"id":42,"userId":5,"status":"Pending","orderType":"Takeaway",
			"orderItems":[{"id":1,"menuItemId":11,"quantity":2,"priceAtOrder":75000,"subtotal":150000}]}`},
		{"null totalAmount", `{"id":42,"userId":5,"totalAmount":null,"status":"Pending","orderType":"Takeaway",
			"orderItems":[{"id":1,"menuItemId":11,"quantity":2,"priceAtOrder":75000,"subtotal":150000}]}`},
		{"missing userId", `{"id":42,"totalAmount":150000,"status":"Pending","orderType":"Takeaway",
			"orderItems":[{"id":1,"menuItemId":11,"quantity":2,"priceAtOrder":75000,"subtotal":150000}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, client := newFakeBackend(t)
			fb.on(http.MethodGet, "/api/orders/42", http.StatusOK, tt.body)

			o, err := NewOrderRepository(client, testLoc).GetByID(context.Background(), 42)
			assert.ErrorIs(t, err, ErrDecode)
			assert.Nil(t, o)
		})
	}
}

func TestOrderRepositoryAcceptsZeroPrice(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/orders/42", http.StatusOK, `{"id":42,"userId":5,"totalAmount":0,"status":"Pending","orderType":"Takeaway",
		"orderItems":[{"id":1,"menuItemId":11,"quantity":1,"priceAtOrder":0,"subtotal":0}]}`)

	o, err := NewOrderRepository(client, testLoc).GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, int64(0), o.Items[0].PriceAtOrder)
}

func TestOrderRepositoryCreateDineInCarriesTable(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on(http.MethodPost, "/api/orders", http.StatusCreated, pendingOrderJSON)

	table := int64(3)
	_, err := NewOrderRepository(client, testLoc).Create(context.Background(), models.OrderDraft{
		UserID:    5,
		OrderType: models.OrderTypeDineIn,
		TableID:   &table,
		Lines:     []models.OrderDraftLine{{MenuItemID: 11, Quantity: 2}},
	})
	require.NoError(t, err)

	body := fb.lastCall().Body
	assert.Equal(t, "Dinein", body["orderType"])
	assert.Equal(t, float64(3), body["tableId"])
	items := body["orderItems"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, map[string]any{"menuItemId": float64(11), "quantity": float64(2)}, items[0])
}

func TestOrderRepositoryTakeawayDropsTable(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on(http.MethodPut, "/api/orders/42", http.StatusOK, pendingOrderJSON)

	table := int64(3)
	_, err := NewOrderRepository(client, testLoc).Update(context.Background(), 42, models.OrderDraft{
		OrderType: models.OrderTypeTakeaway,
		TableID:   &table,
		Lines:     []models.OrderDraftLine{{MenuItemID: 11, Quantity: 1}},
	})
	require.NoError(t, err)
	_, hasTable := fb.lastCall().Body["tableId"]
	assert.False(t, hasTable)
}

func TestOrderRepositorySearchAndStatus(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/orders/search/phone", http.StatusOK, `[`+pendingOrderJSON+`]`)
	fb.on(http.MethodPatch, "/api/orders/42/status", http.StatusOK, `{}`)
	fb.on(http.MethodPatch, "/api/orders/42/cancel", http.StatusConflict, `{"message":"Order cannot be cancelled"}`)

	repo := NewOrderRepository(client, testLoc)
	ctx := context.Background()

	orders, err := repo.SearchByPhone(ctx, "0901234567")
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, "phone=0901234567", fb.lastCall().Query)

	require.NoError(t, repo.UpdateStatus(ctx, 42, models.OrderStatusReady))
	assert.Equal(t, "status=Ready", fb.lastCall().Query)

	err = repo.Cancel(ctx, 42)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestOrderRepositoryMonthlyStats(t *testing.T) {
	fb, client := newFakeBackend(t)
	fb.on(http.MethodGet, "/api/orders/stats/monthly", http.StatusOK,
		`{"year":2025,"month":6,"totalOrders":3,"totalRevenue":450000,"averageOrderValue":150000,"ordersByStatus":{"Completed":3}}`)

	stats, err := NewOrderRepository(client, testLoc).MonthlyStats(context.Background(), 2025, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(450000), stats.TotalRevenue)
	assert.Equal(t, 3, stats.OrdersByStatus["Completed"])
	assert.Equal(t, "month=6&year=2025", fb.lastCall().Query)
}
