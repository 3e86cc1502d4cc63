package services

import (
	"context"
	"errors"
	"time"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/repositories"
	"restaurant_gateway/internal/session"
	"restaurant_gateway/pkg/metrics"
	"restaurant_gateway/pkg/utils"
)

// CheckoutState is where a checkout attempt ended up.
type CheckoutState string

const (
	CheckoutIdle       CheckoutState = "Idle"
	CheckoutValidating CheckoutState = "Validating"
	CheckoutSubmitting CheckoutState = "Submitting"
	CheckoutSucceeded  CheckoutState = "Succeeded"
	CheckoutRejected   CheckoutState = "Rejected"
)

// Reasons attached to a rejected checkout.
const (
	CheckoutReasonNotSignedIn = "not_signed_in"
	CheckoutReasonEmptyCart   = "empty_cart"
	CheckoutReasonNoBooking   = "no_booking"
	CheckoutReasonBadInput    = "bad_input"
	CheckoutReasonForbidden   = "forbidden"
	CheckoutReasonExpired     = "session_expired"
	CheckoutReasonFailed      = "failed"
)

// Where the browser is sent after a checkout decision.
const (
	RouteSignIn       = "/signin"
	RouteBooking      = "/booking"
	RouteOrderHistory = "/order-history"
)

// User-facing checkout messages.
const (
	MsgSignInToOrder  = "Please sign in to place an order."
	MsgCartEmpty      = "Your cart is empty, please add some dishes."
	MsgOrderPlaced    = "Order placed successfully!"
	MsgOrderInvalid   = "Order failed: the information is invalid."
	MsgOrderForbidden = "You do not have permission to place orders."
	MsgOrderRetry     = "Order failed, please try again."
	MsgSignInAgain    = "Your sign-in has expired, please sign in again."
)

// CheckoutResult is the view decision for one checkout attempt. Rejected
// results with a Redirect and no Message are steering, not failures.
type CheckoutResult struct {
	State    CheckoutState         `json:"state"`
	Reason   string                `json:"reason,omitempty"`
	Redirect string                `json:"redirect,omitempty"`
	Message  string                `json:"message,omitempty"`
	Order    *models.Order         `json:"order,omitempty"`
	Booking  *models.ActiveBooking `json:"active_booking,omitempty"`
}

// CheckoutView is what the cart page needs to render its checkout panel.
type CheckoutView struct {
	OrderType models.OrderType      `json:"order_type"`
	Booking   *models.ActiveBooking `json:"active_booking"`
	Cart      models.CartView       `json:"cart"`
}

// CheckoutService turns a session's cart into an order.
type CheckoutService interface {
	SetOrderType(ctx context.Context, sess *session.Session, who models.Identity, orderType models.OrderType) CheckoutView
	EnterCheckout(ctx context.Context, sess *session.Session, who models.Identity) CheckoutView
	Checkout(ctx context.Context, sess *session.Session, who models.Identity) (*CheckoutResult, error)
}

type checkoutService struct {
	orderRepo repositories.OrderRepository
	bookings  BookingService
	recorder  *metrics.Recorder
	now       func() time.Time
}

// NewCheckoutService creates a new instance of CheckoutService.
func NewCheckoutService(or repositories.OrderRepository, bs BookingService, recorder *metrics.Recorder) CheckoutService {
	return &checkoutService{orderRepo: or, bookings: bs, recorder: recorder, now: time.Now}
}

func (s *checkoutService) view(sess *session.Session, who models.Identity) CheckoutView {
	return CheckoutView{
		OrderType: sess.OrderType(),
		Booking:   sess.ActiveBooking(who.UserID),
		Cart:      sess.Cart.View(),
	}
}

// resolve fetches the active booking afresh and stores it on the session.
func (s *checkoutService) resolve(ctx context.Context, sess *session.Session, who models.Identity) *models.ActiveBooking {
	if !who.Authenticated() {
		sess.ClearActiveBooking()
		return nil
	}
	booking := s.bookings.ResolveActiveBooking(ctx, who.UserID, s.now())
	sess.SetActiveBooking(who.UserID, booking)
	return booking
}

// SetOrderType switches the order type. Switching to dine-in re-resolves the
// active booking; takeaway clears it without fetching.
func (s *checkoutService) SetOrderType(ctx context.Context, sess *session.Session, who models.Identity, orderType models.OrderType) CheckoutView {
	sess.SetOrderType(orderType)
	if orderType == models.OrderTypeDineIn {
		s.resolve(ctx, sess, who)
	}
	return s.view(sess, who)
}

// EnterCheckout is called when the cart page opens.
func (s *checkoutService) EnterCheckout(ctx context.Context, sess *session.Session, who models.Identity) CheckoutView {
	if sess.OrderType() == models.OrderTypeDineIn {
		s.resolve(ctx, sess, who)
	}
	return s.view(sess, who)
}

// Checkout runs Idle → Validating → Submitting → Succeeded | Rejected. The
// only error is ErrRequestInFlight; every other outcome is a result.
func (s *checkoutService) Checkout(ctx context.Context, sess *session.Session, who models.Identity) (*CheckoutResult, error) {
	if !sess.TryBegin(session.FlowCheckout) {
		return nil, ErrRequestInFlight
	}
	defer sess.End(session.FlowCheckout)

	result := s.run(ctx, sess, who)
	s.recorder.IncCheckout(string(result.State), result.Reason)
	return result, nil
}

func (s *checkoutService) run(ctx context.Context, sess *session.Session, who models.Identity) *CheckoutResult {
	state := CheckoutValidating
	utils.LogDebug("Checkout started", map[string]interface{}{"session_id": sess.ID, "user_id": who.UserID, "state": state})

	if !who.Authenticated() {
		return &CheckoutResult{State: CheckoutRejected, Reason: CheckoutReasonNotSignedIn, Redirect: RouteSignIn, Message: MsgSignInToOrder}
	}
	if sess.Cart.IsEmpty() {
		return &CheckoutResult{State: CheckoutRejected, Reason: CheckoutReasonEmptyCart, Message: MsgCartEmpty}
	}

	orderType := sess.OrderType()
	draft := models.OrderDraft{UserID: who.UserID, OrderType: orderType}
	var booking *models.ActiveBooking
	if orderType == models.OrderTypeDineIn {
		// The cached booking may belong to an earlier restaurant day.
		booking = s.resolve(ctx, sess, who)
		if booking == nil {
			return &CheckoutResult{State: CheckoutRejected, Reason: CheckoutReasonNoBooking, Redirect: RouteBooking}
		}
		tableID := booking.TableID
		draft.TableID = &tableID
	}
	for _, line := range sess.Cart.Lines() {
		draft.Lines = append(draft.Lines, models.OrderDraftLine{MenuItemID: line.ItemID, Quantity: line.Quantity})
	}

	state = CheckoutSubmitting
	utils.LogDebug("Submitting order", map[string]interface{}{"session_id": sess.ID, "user_id": who.UserID, "state": state, "lines": len(draft.Lines)})

	order, err := s.orderRepo.Create(ctx, draft)
	if err != nil {
		reason, redirect, msg := classifyCheckoutError(err)
		utils.LogError(err, "Checkout: creating order failed", map[string]interface{}{"session_id": sess.ID, "user_id": who.UserID, "reason": reason})
		return &CheckoutResult{State: CheckoutRejected, Reason: reason, Redirect: redirect, Message: msg, Booking: booking}
	}

	sess.Cart.Clear()
	sess.ClearActiveBooking()
	utils.LogInfo("Order placed", map[string]interface{}{"order_id": order.ID, "user_id": who.UserID, "order_type": string(orderType)})
	return &CheckoutResult{State: CheckoutSucceeded, Redirect: RouteOrderHistory, Message: MsgOrderPlaced, Order: order}
}

func classifyCheckoutError(err error) (reason, redirect, message string) {
	switch {
	case errors.Is(err, repositories.ErrBadRequest):
		return CheckoutReasonBadInput, "", MsgOrderInvalid
	case errors.Is(err, repositories.ErrForbidden):
		return CheckoutReasonForbidden, "", MsgOrderForbidden
	case errors.Is(err, repositories.ErrUnauthorized):
		return CheckoutReasonExpired, RouteSignIn, MsgSignInAgain
	default:
		return CheckoutReasonFailed, "", MsgOrderRetry
	}
}
