package models

import (
	"errors"
	"strings"
	"time"
)

// OrderType is how an order is served.
type OrderType string

const (
	OrderTypeDineIn   OrderType = "Dinein"
	OrderTypeTakeaway OrderType = "Takeaway"
)

// ParseOrderType accepts the spellings the backend and older clients use
// ("Dinein", "DineIn", "dine-in", "takeaway").
func ParseOrderType(value string) (OrderType, bool) {
	normalized := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(value))
	switch normalized {
	case "dinein":
		return OrderTypeDineIn, true
	case "takeaway":
		return OrderTypeTakeaway, true
	default:
		return "", false
	}
}

// OrderStatus constants
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPreparing OrderStatus = "Preparing"
	OrderStatusReady     OrderStatus = "Ready"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// IsValidOrderStatus checks if the provided status string is a valid OrderStatus.
func IsValidOrderStatus(status string) bool {
	switch OrderStatus(status) {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// OrderItem is a line of a submitted order.
type OrderItem struct {
	ID           int64  `json:"id"`
	MenuItemID   int64  `json:"menu_item_id"`
	MenuItemName string `json:"menu_item_name"`
	Quantity     int    `json:"quantity"`
	PriceAtOrder int64  `json:"price_at_order"`
	Subtotal     int64  `json:"subtotal"`
}

// Order is an order as the backend reports it. Amounts are in đồng.
type Order struct {
	ID            int64       `json:"id"`
	UserID        int64       `json:"user_id"`
	UserFullName  string      `json:"user_full_name,omitempty"`
	TableID       *int64      `json:"table_id,omitempty"`
	TableName     *string     `json:"table_name,omitempty"`
	TotalAmount   int64       `json:"total_amount"`
	Status        OrderStatus `json:"status"`
	OrderType     OrderType   `json:"order_type"`
	CreatedAt     time.Time   `json:"created_at"`
	Items         []OrderItem `json:"items"`
	PaymentStatus *string     `json:"payment_status,omitempty"`
}

// OrderDraftLine is one menuItemId+quantity pair sent to the backend.
type OrderDraftLine struct {
	MenuItemID int64 `json:"menu_item_id"`
	Quantity   int   `json:"quantity"`
}

// OrderDraft is the create/replace payload built from local state.
// TableID is set only for dine-in orders.
type OrderDraft struct {
	UserID    int64            `json:"user_id"`
	OrderType OrderType        `json:"order_type"`
	TableID   *int64           `json:"table_id,omitempty"`
	Lines     []OrderDraftLine `json:"lines"`
}

// OrderSearch selects how staff look orders up.
type OrderSearch struct {
	Email   string `form:"email"`
	Phone   string `form:"phone"`
	TableID *int64 `form:"table_id"`
}

var (
	ErrOrderLineNotFound = errors.New("order line not found")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
)

// EditableOrderLine keeps Subtotal == UnitPrice*Quantity at all times.
type EditableOrderLine struct {
	LineID     int64  `json:"line_id"`
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	UnitPrice  int64  `json:"unit_price"`
	Quantity   int    `json:"quantity"`
	Subtotal   int64  `json:"subtotal"`
}

// EditableOrder is a local working copy of a pending order. It never touches
// the authoritative order until a save succeeds.
type EditableOrder struct {
	OrderID     int64               `json:"order_id"`
	UserID      int64               `json:"user_id"`
	OrderType   OrderType           `json:"order_type"`
	TableID     *int64              `json:"table_id,omitempty"`
	Lines       []EditableOrderLine `json:"lines"`
	TotalAmount int64               `json:"total_amount"`
}

// NewEditableOrder copies an order into an editable working copy.
func NewEditableOrder(o *Order) *EditableOrder {
	e := &EditableOrder{
		OrderID:   o.ID,
		UserID:    o.UserID,
		OrderType: o.OrderType,
		Lines:     make([]EditableOrderLine, 0, len(o.Items)),
	}
	if o.TableID != nil {
		id := *o.TableID
		e.TableID = &id
	}
	for _, it := range o.Items {
		e.Lines = append(e.Lines, EditableOrderLine{
			LineID:     it.ID,
			MenuItemID: it.MenuItemID,
			Name:       it.MenuItemName,
			UnitPrice:  it.PriceAtOrder,
			Quantity:   it.Quantity,
		})
	}
	e.Recompute()
	return e
}

// SetQuantity changes one line and recomputes subtotals and the total before returning.
func (e *EditableOrder) SetQuantity(lineID int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	for i := range e.Lines {
		if e.Lines[i].LineID == lineID {
			e.Lines[i].Quantity = quantity
			e.Recompute()
			return nil
		}
	}
	return ErrOrderLineNotFound
}

// Recompute derives every subtotal and the order total in integer đồng.
func (e *EditableOrder) Recompute() {
	var total int64
	for i := range e.Lines {
		e.Lines[i].Subtotal = e.Lines[i].UnitPrice * int64(e.Lines[i].Quantity)
		total += e.Lines[i].Subtotal
	}
	e.TotalAmount = total
}

// Draft builds the full replacement line set. The table travels only with dine-in orders.
func (e *EditableOrder) Draft() OrderDraft {
	draft := OrderDraft{
		UserID:    e.UserID,
		OrderType: e.OrderType,
		Lines:     make([]OrderDraftLine, 0, len(e.Lines)),
	}
	if e.OrderType == OrderTypeDineIn && e.TableID != nil {
		id := *e.TableID
		draft.TableID = &id
	}
	for _, l := range e.Lines {
		draft.Lines = append(draft.Lines, OrderDraftLine{MenuItemID: l.MenuItemID, Quantity: l.Quantity})
	}
	return draft
}
