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

// OrderRepository defines the order operations of the restaurant backend.
type OrderRepository interface {
	GetByID(ctx context.Context, orderID int64) (*models.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Order, error)
	ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	SearchByEmail(ctx context.Context, email string) ([]models.Order, error)
	SearchByPhone(ctx context.Context, phone string) ([]models.Order, error)
	ListByTable(ctx context.Context, tableID int64) ([]models.Order, error)
	Create(ctx context.Context, draft models.OrderDraft) (*models.Order, error)
	Update(ctx context.Context, orderID int64, draft models.OrderDraft) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID int64, status models.OrderStatus) error
	Cancel(ctx context.Context, orderID int64) error
	MonthlyStats(ctx context.Context, year, month int) (*models.MonthlyStats, error)
}

type orderRepository struct {
	api Requester
	loc *time.Location
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(api Requester, loc *time.Location) OrderRepository {
	return &orderRepository{api: api, loc: loc}
}

type orderItemWire struct {
	ID           int64  `json:"id" validate:"required"`
	MenuItemID   int64  `json:"menuItemId" validate:"required"`
	MenuItemName string `json:"menuItemName"`
	Quantity     int    `json:"quantity" validate:"gte=1"`
	PriceAtOrder *dong  `json:"priceAtOrder" validate:"required,gte=0"`
	Subtotal     *dong  `json:"subtotal" validate:"required,gte=0"`
}

type orderWire struct {
	ID            int64           `json:"id" validate:"required"`
	UserID        int64           `json:"userId" validate:"required"`
	UserFullName  string          `json:"userFullName"`
	TableID       *int64          `json:"tableId"`
	TableName     *string         `json:"tableName"`
	TotalAmount   *dong           `json:"totalAmount" validate:"required,gte=0"`
	Status        string          `json:"status" validate:"required"`
	OrderType     string          `json:"orderType" validate:"required"`
	CreatedAt     string          `json:"createdAt"`
	OrderItems    []orderItemWire `json:"orderItems" validate:"dive"`
	PaymentStatus *string         `json:"paymentStatus"`
}

func (w orderWire) toModel(loc *time.Location) (models.Order, error) {
	if !models.IsValidOrderStatus(w.Status) {
		return models.Order{}, fmt.Errorf("%w: order %d has unknown status %q", ErrDecode, w.ID, w.Status)
	}
	orderType, ok := models.ParseOrderType(w.OrderType)
	if !ok {
		return models.Order{}, fmt.Errorf("%w: order %d has unknown type %q", ErrDecode, w.ID, w.OrderType)
	}
	o := models.Order{
		ID:            w.ID,
		UserID:        w.UserID,
		UserFullName:  w.UserFullName,
		TableID:       w.TableID,
		TableName:     w.TableName,
		TotalAmount:   w.TotalAmount.amount(),
		Status:        models.OrderStatus(w.Status),
		OrderType:     orderType,
		Items:         make([]models.OrderItem, 0, len(w.OrderItems)),
		PaymentStatus: w.PaymentStatus,
	}
	if w.CreatedAt != "" {
		at, err := parseBackendTime(w.CreatedAt, loc)
		if err != nil {
			return models.Order{}, fmt.Errorf("order %d: %w", w.ID, err)
		}
		o.CreatedAt = at
	}
	for _, it := range w.OrderItems {
		o.Items = append(o.Items, models.OrderItem{
			ID:           it.ID,
			MenuItemID:   it.MenuItemID,
			MenuItemName: it.MenuItemName,
			Quantity:     it.Quantity,
			PriceAtOrder: it.PriceAtOrder.amount(),
			Subtotal:     it.Subtotal.amount(),
		})
	}
	return o, nil
}

type orderLineWire struct {
	MenuItemID int64 `json:"menuItemId"`
	Quantity   int   `json:"quantity"`
}

type orderDraftWire struct {
	UserID     int64           `json:"userId,omitempty"`
	TableID    *int64          `json:"tableId,omitempty"`
	OrderType  string          `json:"orderType"`
	OrderItems []orderLineWire `json:"orderItems"`
}

func draftWire(d models.OrderDraft) orderDraftWire {
	w := orderDraftWire{
		UserID:     d.UserID,
		OrderType:  string(d.OrderType),
		OrderItems: make([]orderLineWire, 0, len(d.Lines)),
	}
	if d.OrderType == models.OrderTypeDineIn {
		w.TableID = d.TableID
	}
	for _, l := range d.Lines {
		w.OrderItems = append(w.OrderItems, orderLineWire{MenuItemID: l.MenuItemID, Quantity: l.Quantity})
	}
	return w
}

func (r *orderRepository) one(ctx context.Context, req Request) (*models.Order, error) {
	w, err := fetchObject[orderWire](ctx, r.api, req)
	if err != nil {
		return nil, err
	}
	o, err := w.toModel(r.loc)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) many(ctx context.Context, req Request) ([]models.Order, error) {
	items, _, err := fetchList[orderWire](ctx, r.api, req)
	if err != nil {
		return nil, err
	}
	out := make([]models.Order, 0, len(items))
	for _, w := range items {
		o, err := w.toModel(r.loc)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID int64) (*models.Order, error) {
	o, err := r.one(ctx, Request{
		Method: http.MethodGet,
		Route:  "/api/orders/{id}",
		Path:   "/api/orders/" + strconv.FormatInt(orderID, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", orderID, err)
	}
	return o, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	orders, err := r.many(ctx, Request{
		Method: http.MethodGet,
		Route:  "/api/orders/user/{userId}",
		Path:   "/api/orders/user/" + strconv.FormatInt(userID, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("listing orders for user %d: %w", userID, err)
	}
	return orders, nil
}

func (r *orderRepository) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	orders, err := r.many(ctx, Request{
		Method: http.MethodGet,
		Route:  "/api/orders/status/{status}",
		Path:   "/api/orders/status/" + string(status),
	})
	if err != nil {
		return nil, fmt.Errorf("listing %s orders: %w", status, err)
	}
	return orders, nil
}

func (r *orderRepository) SearchByEmail(ctx context.Context, email string) ([]models.Order, error) {
	orders, err := r.many(ctx, Request{
		Method: http.MethodGet,
		Route:  "/api/orders/search/email",
		Path:   "/api/orders/search/email",
		Query:  url.Values{"email": {email}},
	})
	if err != nil {
		return nil, fmt.Errorf("searching orders by email: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) SearchByPhone(ctx context.Context, phone string) ([]models.Order, error) {
	orders, err := r.many(ctx, Request{
		Method: http.MethodGet,
		Route:  "/api/orders/search/phone",
		Path:   "/api/orders/search/phone",
		Query:  url.Values{"phone": {phone}},
	})
	if err != nil {
		return nil, fmt.Errorf("searching orders by phone: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) ListByTable(ctx context.Context, tableID int64) ([]models.Order, error) {
	orders, err := r.many(ctx, Request{
		Method: http.MethodGet,
		Route:  "/api/orders/table/{tableId}",
		Path:   "/api/orders/table/" + strconv.FormatInt(tableID, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("listing orders for table %d: %w", tableID, err)
	}
	return orders, nil
}

func (r *orderRepository) Create(ctx context.Context, draft models.OrderDraft) (*models.Order, error) {
	o, err := r.one(ctx, Request{
		Method: http.MethodPost,
		Route:  "/api/orders",
		Path:   "/api/orders",
		Body:   draftWire(draft),
	})
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}
	return o, nil
}

func (r *orderRepository) Update(ctx context.Context, orderID int64, draft models.OrderDraft) (*models.Order, error) {
	o, err := r.one(ctx, Request{
		Method: http.MethodPut,
		Route:  "/api/orders/{id}",
		Path:   "/api/orders/" + strconv.FormatInt(orderID, 10),
		Body:   draftWire(draft),
	})
	if err != nil {
		return nil, fmt.Errorf("updating order %d: %w", orderID, err)
	}
	return o, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	_, err := r.api.Do(ctx, Request{
		Method: http.MethodPatch,
		Route:  "/api/orders/{id}/status",
		Path:   "/api/orders/" + strconv.FormatInt(orderID, 10) + "/status",
		Query:  url.Values{"status": {string(status)}},
	})
	if err != nil {
		return fmt.Errorf("updating status of order %d: %w", orderID, err)
	}
	return nil
}

func (r *orderRepository) Cancel(ctx context.Context, orderID int64) error {
	_, err := r.api.Do(ctx, Request{
		Method: http.MethodPatch,
		Route:  "/api/orders/{id}/cancel",
		Path:   "/api/orders/" + strconv.FormatInt(orderID, 10) + "/cancel",
	})
	if err != nil {
		return fmt.Errorf("cancelling order %d: %w", orderID, err)
	}
	return nil
}

type monthlyStatsWire struct {
	Year              int            `json:"year" validate:"required"`
	Month             int            `json:"month" validate:"gte=1,lte=12"`
	TotalOrders       int            `json:"totalOrders" validate:"gte=0"`
	TotalRevenue      dong           `json:"totalRevenue"`
	AverageOrderValue dong           `json:"averageOrderValue"`
	OrdersByStatus    map[string]int `json:"ordersByStatus"`
}

func (r *orderRepository) MonthlyStats(ctx context.Context, year, month int) (*models.MonthlyStats, error) {
	w, err := fetchObject[monthlyStatsWire](ctx, r.api, Request{
		Method: http.MethodGet,
		Route:  "/api/orders/stats/monthly",
		Path:   "/api/orders/stats/monthly",
		Query:  url.Values{"year": {strconv.Itoa(year)}, "month": {strconv.Itoa(month)}},
	})
	if err != nil {
		return nil, fmt.Errorf("loading monthly stats: %w", err)
	}
	stats := &models.MonthlyStats{
		Year:              w.Year,
		Month:             w.Month,
		TotalOrders:       w.TotalOrders,
		TotalRevenue:      int64(w.TotalRevenue),
		AverageOrderValue: int64(w.AverageOrderValue),
		OrdersByStatus:    w.OrdersByStatus,
	}
	if stats.OrdersByStatus == nil {
		stats.OrdersByStatus = map[string]int{}
	}
	return stats, nil
}
