package models

import "strings"

// PaymentMethod is how the customer chose to pay.
type PaymentMethod string

const (
	PaymentMethodGateway PaymentMethod = "Gateway"
	PaymentMethodCash    PaymentMethod = "Cash"
)

// PaymentStatus is the backend's status of a payment record.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "Pending"
	PaymentStatusSuccessful PaymentStatus = "Successful"
	PaymentStatusFailed     PaymentStatus = "Failed"
	PaymentStatusCancelled  PaymentStatus = "Cancelled"
)

// NormalizePaymentStatus maps case variants onto the known statuses and leaves
// anything else untouched.
func NormalizePaymentStatus(value string) PaymentStatus {
	for _, s := range []PaymentStatus{
		PaymentStatusPending,
		PaymentStatusSuccessful,
		PaymentStatusFailed,
		PaymentStatusCancelled,
	} {
		if strings.EqualFold(value, string(s)) {
			return s
		}
	}
	return PaymentStatus(value)
}

// Payment is a payment record for an order.
type Payment struct {
	ID            int64         `json:"id"`
	OrderID       int64         `json:"order_id"`
	Amount        int64         `json:"amount"`
	Method        string        `json:"method"`
	Status        PaymentStatus `json:"status"`
	TransactionID *string       `json:"transaction_id,omitempty"`
}

// PaymentIntent lives only while the payment modal is open.
type PaymentIntent struct {
	OrderID int64         `json:"order_id"`
	Amount  int64         `json:"amount"`
	Method  PaymentMethod `json:"method,omitempty"`
}

// OpenPaymentPayload opens the payment modal with the caller's order total.
type OpenPaymentPayload struct {
	OrderID     int64 `json:"order_id" binding:"required"`
	TotalAmount int64 `json:"total_amount" binding:"gte=0"`
}

// PaymentPhase is the state of the payment-result page.
type PaymentPhase string

const (
	PaymentPhaseValidating PaymentPhase = "Validating"
	PaymentPhaseConfirmed  PaymentPhase = "Confirmed"
	PaymentPhaseFailed     PaymentPhase = "Failed"
)

// PaymentFailureConfirm is the reason used when confirming a pending payment fails.
const PaymentFailureConfirm = "ConfirmFailed"

// PaymentFailureForStatus builds the reason for a terminal non-success status.
func PaymentFailureForStatus(status PaymentStatus) string {
	return "Status_" + string(status)
}

// PaymentPollState drives what the payment-result page shows.
type PaymentPollState struct {
	OrderID int64        `json:"order_id"`
	Phase   PaymentPhase `json:"phase"`
	Reason  string       `json:"reason,omitempty"`
}
