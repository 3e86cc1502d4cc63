package repositories

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"restaurant_gateway/internal/models"
)

// PaymentRepository talks to the backend's payment endpoints. The third-party
// gateway is only ever reached through the backend.
type PaymentRepository interface {
	GetByOrder(ctx context.Context, orderID int64) (*models.Payment, error)
	CreateCash(ctx context.Context, orderID, amount int64) (*models.Payment, error)
	CreateCheckout(ctx context.Context, orderID int64) (string, error)
	Confirm(ctx context.Context, orderID int64) (*models.Payment, error)
	RevenueReport(ctx context.Context, fromDate, toDate string) (*models.RevenueReport, error)
}

type paymentRepository struct {
	api Requester
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(api Requester) PaymentRepository {
	return &paymentRepository{api: api}
}

type paymentWire struct {
	ID            int64   `json:"id" validate:"required"`
	OrderID       int64   `json:"orderId" validate:"required"`
	Amount        *dong   `json:"amount" validate:"required,gte=0"`
	PaymentMethod string  `json:"paymentMethod"`
	Status        string  `json:"status" validate:"required"`
	TransactionID *string `json:"transactionId"`
}

func (w paymentWire) toModel() *models.Payment {
	return &models.Payment{
		ID:            w.ID,
		OrderID:       w.OrderID,
		Amount:        w.Amount.amount(),
		Method:        w.PaymentMethod,
		Status:        models.NormalizePaymentStatus(w.Status),
		TransactionID: w.TransactionID,
	}
}

func (r *paymentRepository) GetByOrder(ctx context.Context, orderID int64) (*models.Payment, error) {
	w, err := fetchObject[paymentWire](ctx, r.api, Request{
		Method: http.MethodGet,
		Route:  "/api/payments/order/{orderId}",
		Path:   "/api/payments/order/" + strconv.FormatInt(orderID, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("getting payment for order %d: %w", orderID, err)
	}
	return w.toModel(), nil
}

type cashPaymentWire struct {
	OrderID       int64  `json:"orderId"`
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"paymentMethod"`
}

func (r *paymentRepository) CreateCash(ctx context.Context, orderID, amount int64) (*models.Payment, error) {
	w, err := fetchObject[paymentWire](ctx, r.api, Request{
		Method: http.MethodPost,
		Route:  "/api/payments",
		Path:   "/api/payments",
		Body: cashPaymentWire{
			OrderID:       orderID,
			Amount:        amount,
			PaymentMethod: string(models.PaymentMethodCash),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating cash payment for order %d: %w", orderID, err)
	}
	return w.toModel(), nil
}

type checkoutWire struct {
	CheckoutURL string `json:"checkoutUrl" validate:"required,url"`
}

// CreateCheckout asks the backend for a gateway checkout session and returns
// the location the browser must be sent to.
func (r *paymentRepository) CreateCheckout(ctx context.Context, orderID int64) (string, error) {
	w, err := fetchObject[checkoutWire](ctx, r.api, Request{
		Method: http.MethodPost,
		Route:  "/api/payments/checkout",
		Path:   "/api/payments/checkout",
		Body:   map[string]int64{"orderId": orderID},
	})
	if err != nil {
		return "", fmt.Errorf("creating checkout for order %d: %w", orderID, err)
	}
	return w.CheckoutURL, nil
}

func (r *paymentRepository) Confirm(ctx context.Context, orderID int64) (*models.Payment, error) {
	w, err := fetchObject[paymentWire](ctx, r.api, Request{
		Method: http.MethodPatch,
		Route:  "/api/payments/order/{orderId}/confirm",
		Path:   "/api/payments/order/" + strconv.FormatInt(orderID, 10) + "/confirm",
	})
	if err != nil {
		return nil, fmt.Errorf("confirming payment for order %d: %w", orderID, err)
	}
	return w.toModel(), nil
}

type revenueReportWire struct {
	FromDate                string `json:"fromDate"`
	ToDate                  string `json:"toDate"`
	TotalRevenue            dong   `json:"totalRevenue"`
	TotalTransactions       int    `json:"totalTransactions" validate:"gte=0"`
	AverageTransactionValue dong   `json:"averageTransactionValue"`
	CashRevenue             dong   `json:"cashRevenue"`
	CashTransactions        int    `json:"cashTransactions" validate:"gte=0"`
	QRCodeRevenue           dong   `json:"qrCodeRevenue"`
	QRCodeTransactions      int    `json:"qrCodeTransactions" validate:"gte=0"`
	CreditCardRevenue       dong   `json:"creditCardRevenue"`
	CreditCardTransactions  int    `json:"creditCardTransactions" validate:"gte=0"`
}

func (r *paymentRepository) RevenueReport(ctx context.Context, fromDate, toDate string) (*models.RevenueReport, error) {
	w, err := fetchObject[revenueReportWire](ctx, r.api, Request{
		Method: http.MethodGet,
		Route:  "/api/payments/revenue-report",
		Path:   "/api/payments/revenue-report",
		Query:  url.Values{"fromDate": {fromDate}, "toDate": {toDate}},
	})
	if err != nil {
		return nil, fmt.Errorf("loading revenue report: %w", err)
	}
	return &models.RevenueReport{
		FromDate:                w.FromDate,
		ToDate:                  w.ToDate,
		TotalRevenue:            int64(w.TotalRevenue),
		TotalTransactions:       w.TotalTransactions,
		AverageTransactionValue: int64(w.AverageTransactionValue),
		CashRevenue:             int64(w.CashRevenue),
		CashTransactions:        w.CashTransactions,
		QRCodeRevenue:           int64(w.QRCodeRevenue),
		QRCodeTransactions:      w.QRCodeTransactions,
		CreditCardRevenue:       int64(w.CreditCardRevenue),
		CreditCardTransactions:  w.CreditCardTransactions,
	}, nil
}
