package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/repositories"
	"restaurant_gateway/internal/session"
)

var (
	testLoc     = time.FixedZone("ICT", 7*3600)
	errNotFound = fmt.Errorf("%w: status 404", repositories.ErrNotFound)
)

func newTestSession() *session.Session {
	return session.NewManager(nil, time.Hour, nil).Create()
}

func customer(id int64) models.Identity {
	return models.Identity{UserID: id, Username: "guest", Role: models.RoleCustomer, Token: "t"}
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []models.Booking
	listErr  error
	delErr   error
	created  []models.CreateBookingPayload
	deleted  []int64
	listHits int
}

func (f *fakeBookingRepo) ListByUser(_ context.Context, _ int64) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listHits++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Booking(nil), f.bookings...), nil
}

func (f *fakeBookingRepo) List(_ context.Context, filters models.BookingFilters) ([]models.Booking, int, error) {
	return f.bookings, len(f.bookings), nil
}

func (f *fakeBookingRepo) ListByPhone(_ context.Context, phone string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Phone == phone {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookingRepo) Create(_ context.Context, userID int64, req models.CreateBookingPayload, at time.Time) (*models.Booking, error) {
	f.created = append(f.created, req)
	return &models.Booking{ID: 900, UserID: &userID, TableID: req.TableID, BookingTime: at, Status: models.BookingStatusPending,
		CustomerName: req.CustomerName, Phone: req.Phone, NumGuests: req.NumGuests, Note: req.Note}, nil
}

func (f *fakeBookingRepo) Update(_ context.Context, id int64, tableID int64, at time.Time, guests int) (*models.Booking, error) {
	return &models.Booking{ID: id, TableID: tableID, BookingTime: at, NumGuests: guests, Status: models.BookingStatusConfirmed}, nil
}

func (f *fakeBookingRepo) Cancel(context.Context, int64) error   { return nil }
func (f *fakeBookingRepo) Complete(context.Context, int64) error { return nil }

func (f *fakeBookingRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeOrderRepo struct {
	mu         sync.Mutex
	orders     map[int64]*models.Order
	createErr  error
	updateErr  error
	cancelErr  error
	created    []models.OrderDraft
	updated    []models.OrderDraft
	cancelled  []int64
	statusSet  map[int64]models.OrderStatus
	searchedBy string
	block      chan struct{}
	entered    chan struct{}
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	f := &fakeOrderRepo{orders: map[int64]*models.Order{}, statusSet: map[int64]models.OrderStatus{}}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeOrderRepo) GetByID(_ context.Context, id int64) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, userID int64) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListByStatus(_ context.Context, status models.OrderStatus) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.Status == status {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) SearchByEmail(_ context.Context, email string) ([]models.Order, error) {
	f.searchedBy = "email:" + email
	return nil, nil
}

func (f *fakeOrderRepo) SearchByPhone(_ context.Context, phone string) ([]models.Order, error) {
	f.searchedBy = "phone:" + phone
	return nil, nil
}

func (f *fakeOrderRepo) ListByTable(_ context.Context, tableID int64) ([]models.Order, error) {
	f.searchedBy = "table"
	return nil, nil
}

func (f *fakeOrderRepo) Create(_ context.Context, draft models.OrderDraft) (*models.Order, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, draft)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Order{ID: 500, UserID: draft.UserID, TableID: draft.TableID, OrderType: draft.OrderType, Status: models.OrderStatusPending}, nil
}

func (f *fakeOrderRepo) Update(_ context.Context, id int64, draft models.OrderDraft) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, draft)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	o := f.orders[id]
	return &models.Order{ID: id, UserID: draft.UserID, OrderType: draft.OrderType, Status: o.Status, TotalAmount: o.TotalAmount}, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id int64, status models.OrderStatus) error {
	f.statusSet[id] = status
	return nil
}

func (f *fakeOrderRepo) Cancel(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, id)
	if o, ok := f.orders[id]; ok {
		o.Status = models.OrderStatusCancelled
	}
	return nil
}

func (f *fakeOrderRepo) MonthlyStats(_ context.Context, year, month int) (*models.MonthlyStats, error) {
	return &models.MonthlyStats{Year: year, Month: month}, nil
}

type fakePaymentRepo struct {
	payment     *models.Payment
	getErr      error
	confirmErr  error
	cashErr     error
	checkoutErr error
	confirms    int
	cashAmounts []int64
	revenue     [2]string
}

func (f *fakePaymentRepo) GetByOrder(_ context.Context, orderID int64) (*models.Payment, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	cp := *f.payment
	cp.OrderID = orderID
	return &cp, nil
}

func (f *fakePaymentRepo) CreateCash(_ context.Context, orderID, amount int64) (*models.Payment, error) {
	f.cashAmounts = append(f.cashAmounts, amount)
	if f.cashErr != nil {
		return nil, f.cashErr
	}
	return &models.Payment{ID: 1, OrderID: orderID, Amount: amount, Method: "Cash", Status: models.PaymentStatusPending}, nil
}

func (f *fakePaymentRepo) CreateCheckout(_ context.Context, orderID int64) (string, error) {
	if f.checkoutErr != nil {
		return "", f.checkoutErr
	}
	return "https://pay.example.com/checkout/abc", nil
}

func (f *fakePaymentRepo) Confirm(_ context.Context, orderID int64) (*models.Payment, error) {
	f.confirms++
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	return &models.Payment{ID: 7, OrderID: orderID, Status: models.PaymentStatusSuccessful}, nil
}

func (f *fakePaymentRepo) RevenueReport(_ context.Context, from, to string) (*models.RevenueReport, error) {
	f.revenue = [2]string{from, to}
	return &models.RevenueReport{}, nil
}
