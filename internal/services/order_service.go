package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/repositories"
	"restaurant_gateway/internal/session"
	"restaurant_gateway/pkg/utils"
)

// --- Custom Service Errors for Order ---
var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrOrderNotEditable    = errors.New("only pending orders can be edited")
	ErrOrderNotCancellable = errors.New("order can no longer be cancelled")
	ErrOrderSearch         = errors.New("exactly one of email, phone or table_id is required")
)

// MsgBookingNotReleased is shown when an order was cancelled but its table
// booking is still held.
const MsgBookingNotReleased = "Order cancelled, but the table booking could not be released. Please contact staff."

// EditSaveResult is returned after a successful edit save.
type EditSaveResult struct {
	Order  *models.Order  `json:"order"`
	Orders []models.Order `json:"orders,omitempty"`
}

// CancelResult reports both effects of a cancellation. The order stays
// cancelled even when the booking release fails.
type CancelResult struct {
	OrderID         int64          `json:"order_id"`
	Status          string         `json:"status"`
	BookingReleased bool           `json:"booking_released"`
	Warning         string         `json:"warning,omitempty"`
	Orders          []models.Order `json:"orders,omitempty"`
}

// OrderService covers order history, the pending-order edit flow,
// cancellation and the staff order board.
type OrderService interface {
	ListUserOrders(ctx context.Context, userID int64) ([]models.Order, error)
	GetOrder(ctx context.Context, who models.Identity, orderID int64) (*models.Order, error)

	OpenEdit(ctx context.Context, sess *session.Session, who models.Identity, orderID int64) (*models.EditableOrder, error)
	UpdateEditLine(sess *session.Session, orderID, lineID int64, quantity int) (*models.EditableOrder, error)
	SaveEdit(ctx context.Context, sess *session.Session, who models.Identity, orderID int64) (*EditSaveResult, error)
	DiscardEdit(sess *session.Session, orderID int64)

	CancelOrder(ctx context.Context, sess *session.Session, who models.Identity, orderID int64) (*CancelResult, error)

	ListByStatus(ctx context.Context, status string) ([]models.Order, error)
	SearchOrders(ctx context.Context, search models.OrderSearch) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) error
}

type orderService struct {
	orderRepo repositories.OrderRepository
	bookings  BookingService
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(or repositories.OrderRepository, bs BookingService) OrderService {
	return &orderService{orderRepo: or, bookings: bs}
}

func isStaff(who models.Identity) bool {
	return who.Role == models.RoleStaff || who.Role == models.RoleAdmin
}

func (s *orderService) ListUserOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, mapOrderRepoError(err)
	}
	return orders, nil
}

// GetOrder returns an order the caller may see: their own, or any order for staff.
func (s *orderService) GetOrder(ctx context.Context, who models.Identity, orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapOrderRepoError(err)
	}
	if order.UserID != who.UserID && !isStaff(who) {
		return nil, ErrNotOwner
	}
	return order, nil
}

// OpenEdit loads a pending order into the session as a working copy.
func (s *orderService) OpenEdit(ctx context.Context, sess *session.Session, who models.Identity, orderID int64) (*models.EditableOrder, error) {
	order, err := s.GetOrder(ctx, who, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order %d is %s", ErrOrderNotEditable, orderID, order.Status)
	}
	editable := models.NewEditableOrder(order)
	sess.SetEditing(editable)
	return editable, nil
}

// UpdateEditLine changes one line's quantity. Subtotals and the total are
// recomputed before this returns.
func (s *orderService) UpdateEditLine(sess *session.Session, orderID, lineID int64, quantity int) (*models.EditableOrder, error) {
	return sess.UpdateEditing(func(e *models.EditableOrder) error {
		if e.OrderID != orderID {
			return session.ErrNoEditableOrder
		}
		return e.SetQuantity(lineID, quantity)
	})
}

// SaveEdit sends the full replacement line set. A failed save leaves the
// working copy open for correction.
func (s *orderService) SaveEdit(ctx context.Context, sess *session.Session, who models.Identity, orderID int64) (*EditSaveResult, error) {
	if !sess.TryBegin(session.FlowEditSave) {
		return nil, ErrRequestInFlight
	}
	defer sess.End(session.FlowEditSave)

	editable := sess.Editing()
	if editable == nil || editable.OrderID != orderID {
		return nil, session.ErrNoEditableOrder
	}
	editable.Recompute()

	order, err := s.orderRepo.Update(ctx, orderID, editable.Draft())
	if err != nil {
		utils.LogError(err, "SaveEdit: updating order failed", map[string]interface{}{"order_id": orderID, "user_id": who.UserID})
		return nil, mapOrderRepoError(err)
	}
	sess.DiscardEditing()
	if order.TotalAmount != editable.TotalAmount {
		utils.LogWarn(nil, "SaveEdit: backend total differs from local recompute",
			map[string]interface{}{"order_id": orderID, "local_total": editable.TotalAmount, "backend_total": order.TotalAmount})
	}

	result := &EditSaveResult{Order: order}
	if orders, err := s.orderRepo.ListByUser(ctx, order.UserID); err != nil {
		utils.LogWarn(err, "SaveEdit: refreshing order list failed", map[string]interface{}{"order_id": orderID})
	} else {
		result.Orders = orders
	}
	return result, nil
}

func (s *orderService) DiscardEdit(sess *session.Session, orderID int64) {
	if e := sess.Editing(); e != nil && e.OrderID == orderID {
		sess.DiscardEditing()
	}
}

// CancelOrder cancels a pending order, then releases the dine-in table
// booking. The two backend calls are independent; a failed release is
// reported as a warning and the cancellation is not rolled back.
func (s *orderService) CancelOrder(ctx context.Context, sess *session.Session, who models.Identity, orderID int64) (*CancelResult, error) {
	if !sess.TryBegin(session.FlowCancel) {
		return nil, ErrRequestInFlight
	}
	defer sess.End(session.FlowCancel)

	order, err := s.GetOrder(ctx, who, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("%w: order %d is %s", ErrOrderNotCancellable, orderID, order.Status)
	}

	if err := s.orderRepo.Cancel(ctx, orderID); err != nil {
		utils.LogError(err, "CancelOrder: cancelling order failed", map[string]interface{}{"order_id": orderID})
		if errors.Is(err, repositories.ErrConflict) || errors.Is(err, repositories.ErrBadRequest) {
			return nil, fmt.Errorf("%w: %v", ErrOrderNotCancellable, err)
		}
		return nil, mapOrderRepoError(err)
	}
	s.DiscardEdit(sess, orderID)

	result := &CancelResult{OrderID: orderID, Status: string(models.OrderStatusCancelled)}
	if order.OrderType == models.OrderTypeDineIn {
		released, err := s.bookings.ReleaseForOrder(ctx, order)
		if err != nil {
			utils.LogWarn(err, "CancelOrder: order cancelled but booking release failed", map[string]interface{}{"order_id": orderID})
			result.Warning = MsgBookingNotReleased
		}
		result.BookingReleased = released
	}

	if order.UserID == who.UserID {
		if orders, err := s.orderRepo.ListByUser(ctx, who.UserID); err != nil {
			utils.LogWarn(err, "CancelOrder: refreshing order list failed", map[string]interface{}{"order_id": orderID})
		} else {
			result.Orders = orders
		}
	}
	return result, nil
}

func (s *orderService) ListByStatus(ctx context.Context, status string) ([]models.Order, error) {
	if !models.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderStatus, status)
	}
	orders, err := s.orderRepo.ListByStatus(ctx, models.OrderStatus(status))
	if err != nil {
		return nil, mapOrderRepoError(err)
	}
	return orders, nil
}

// SearchOrders looks orders up by exactly one of email, phone or table.
func (s *orderService) SearchOrders(ctx context.Context, search models.OrderSearch) ([]models.Order, error) {
	email := strings.TrimSpace(search.Email)
	phone := strings.TrimSpace(search.Phone)
	given := 0
	for _, set := range []bool{email != "", phone != "", search.TableID != nil} {
		if set {
			given++
		}
	}
	if given != 1 {
		return nil, ErrOrderSearch
	}

	var (
		orders []models.Order
		err    error
	)
	switch {
	case email != "":
		if !utils.IsValidEmail(email) {
			return nil, fmt.Errorf("%w: %q is not an email address", ErrOrderSearch, email)
		}
		orders, err = s.orderRepo.SearchByEmail(ctx, email)
	case phone != "":
		orders, err = s.orderRepo.SearchByPhone(ctx, phone)
	default:
		orders, err = s.orderRepo.ListByTable(ctx, *search.TableID)
	}
	if err != nil {
		return nil, mapOrderRepoError(err)
	}
	return orders, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	if !models.IsValidOrderStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidOrderStatus, status)
	}
	return mapOrderRepoError(s.orderRepo.UpdateStatus(ctx, orderID, models.OrderStatus(status)))
}

func mapOrderRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%w: %v", ErrOrderNotFound, err)
	}
	return err
}
