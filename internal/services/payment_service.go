package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/repositories"
	"restaurant_gateway/internal/session"
	"restaurant_gateway/pkg/metrics"
	"restaurant_gateway/pkg/utils"
)

// --- Custom Service Errors for Payment ---
var (
	ErrNoPaymentIntent      = errors.New("payment modal is not open")
	ErrPaymentExists        = errors.New("a payment request already exists for this order")
	ErrPaymentGatewayFailed = errors.New("could not start online payment, please try again")
	ErrPaymentFailed        = errors.New("payment request failed, please try again")
)

// Where the result page sends the browser.
const (
	RouteHome          = "/home"
	RouteMenu          = "/menu"
	RoutePaymentFailed = "/payment-failed"

	ViewPaymentSuccess = "payment-success"

	MsgCashRequested = "Payment request sent. Staff will come to collect your payment."
)

// GatewayRedirect is where the browser goes to pay online.
type GatewayRedirect struct {
	OrderID  int64  `json:"order_id"`
	Redirect string `json:"redirect"`
}

// CashRequested confirms a cash payment request; the modal closes.
type CashRequested struct {
	Payment *models.Payment `json:"payment"`
	Message string          `json:"message"`
}

// PaymentResultView is the decision of the payment-result page.
type PaymentResultView struct {
	State    *models.PaymentPollState `json:"state,omitempty"`
	View     string                   `json:"view,omitempty"`
	Redirect string                   `json:"redirect,omitempty"`
	Payment  *models.Payment          `json:"payment,omitempty"`
}

// PaymentService drives the payment modal and the payment-result page.
type PaymentService interface {
	OpenModal(sess *session.Session, req models.OpenPaymentPayload) *models.PaymentIntent
	CloseModal(sess *session.Session)
	PayWithGateway(ctx context.Context, sess *session.Session) (*GatewayRedirect, error)
	PayWithCash(ctx context.Context, sess *session.Session) (*CashRequested, error)
	ResolveResult(ctx context.Context, rawOrderID string) *PaymentResultView
}

type paymentService struct {
	paymentRepo repositories.PaymentRepository
	recorder    *metrics.Recorder
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(pr repositories.PaymentRepository, recorder *metrics.Recorder) PaymentService {
	return &paymentService{paymentRepo: pr, recorder: recorder}
}

// OpenModal captures the order and the caller's total. The amount is not
// re-fetched.
func (s *paymentService) OpenModal(sess *session.Session, req models.OpenPaymentPayload) *models.PaymentIntent {
	intent := &models.PaymentIntent{OrderID: req.OrderID, Amount: req.TotalAmount}
	sess.SetPaymentIntent(intent)
	return intent
}

func (s *paymentService) CloseModal(sess *session.Session) {
	sess.ClearPaymentIntent()
}

func (s *paymentService) begin(sess *session.Session, method models.PaymentMethod) (*models.PaymentIntent, error) {
	intent := sess.PaymentIntent()
	if intent == nil {
		return nil, ErrNoPaymentIntent
	}
	if !sess.TryBegin(session.FlowPayment) {
		return nil, ErrRequestInFlight
	}
	intent.Method = method
	sess.SetPaymentIntent(intent)
	return intent, nil
}

// PayWithGateway asks for a checkout handle and hands back its location.
// On failure the modal stays open.
func (s *paymentService) PayWithGateway(ctx context.Context, sess *session.Session) (*GatewayRedirect, error) {
	intent, err := s.begin(sess, models.PaymentMethodGateway)
	if err != nil {
		return nil, err
	}
	defer sess.End(session.FlowPayment)

	location, err := s.paymentRepo.CreateCheckout(ctx, intent.OrderID)
	if err != nil {
		utils.LogError(err, "PayWithGateway: creating checkout failed", map[string]interface{}{"order_id": intent.OrderID})
		return nil, fmt.Errorf("%w: %v", ErrPaymentGatewayFailed, err)
	}
	sess.ClearPaymentIntent()
	return &GatewayRedirect{OrderID: intent.OrderID, Redirect: location}, nil
}

// PayWithCash records a cash payment request for staff to collect.
func (s *paymentService) PayWithCash(ctx context.Context, sess *session.Session) (*CashRequested, error) {
	intent, err := s.begin(sess, models.PaymentMethodCash)
	if err != nil {
		return nil, err
	}
	defer sess.End(session.FlowPayment)

	payment, err := s.paymentRepo.CreateCash(ctx, intent.OrderID, intent.Amount)
	if err != nil {
		utils.LogError(err, "PayWithCash: creating payment failed", map[string]interface{}{"order_id": intent.OrderID})
		if errors.Is(err, repositories.ErrConflict) {
			return nil, fmt.Errorf("%w: %v", ErrPaymentExists, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	sess.ClearPaymentIntent()
	return &CashRequested{Payment: payment, Message: MsgCashRequested}, nil
}

// ResolveResult runs Validating → Confirmed | Failed(reason) for the page
// the gateway redirects back to. A pending payment is trusted and confirmed,
// since the gateway's server-side callback may not have landed yet.
func (s *paymentService) ResolveResult(ctx context.Context, rawOrderID string) *PaymentResultView {
	orderID, ok := utils.StrToPositiveInt64(rawOrderID)
	if !ok {
		return &PaymentResultView{Redirect: RouteHome}
	}
	state := &models.PaymentPollState{OrderID: orderID, Phase: models.PaymentPhaseValidating}

	payment, err := s.paymentRepo.GetByOrder(ctx, orderID)
	if err != nil {
		utils.LogError(err, "ResolveResult: fetching payment failed", map[string]interface{}{"order_id": orderID})
		s.recorder.IncPaymentResult("Unresolved", "FetchFailed")
		return &PaymentResultView{Redirect: RouteMenu}
	}

	switch payment.Status {
	case models.PaymentStatusSuccessful:
		state.Phase = models.PaymentPhaseConfirmed
	case models.PaymentStatusPending:
		confirmed, err := s.paymentRepo.Confirm(ctx, orderID)
		if err != nil {
			utils.LogError(err, "ResolveResult: confirming pending payment failed", map[string]interface{}{"order_id": orderID})
			state.Phase = models.PaymentPhaseFailed
			state.Reason = models.PaymentFailureConfirm
		} else {
			state.Phase = models.PaymentPhaseConfirmed
			payment = confirmed
		}
	default:
		state.Phase = models.PaymentPhaseFailed
		state.Reason = models.PaymentFailureForStatus(payment.Status)
	}

	s.recorder.IncPaymentResult(string(state.Phase), state.Reason)
	if state.Phase == models.PaymentPhaseFailed {
		return &PaymentResultView{State: state, Redirect: failureRoute(orderID, state.Reason), Payment: payment}
	}
	return &PaymentResultView{State: state, View: ViewPaymentSuccess, Payment: payment}
}

func failureRoute(orderID int64, reason string) string {
	q := url.Values{}
	q.Set("orderId", strconv.FormatInt(orderID, 10))
	q.Set("reason", reason)
	return RoutePaymentFailed + "?" + q.Encode()
}
