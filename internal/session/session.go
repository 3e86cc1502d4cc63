package session

import (
	"sync"
	"time"

	"restaurant_gateway/internal/cart"
	"restaurant_gateway/internal/models"
)

// Flow names a side-effecting action that may have only one request in
// flight per session.
type Flow string

const (
	FlowCheckout Flow = "checkout"
	FlowEditSave Flow = "edit_save"
	FlowCancel   Flow = "cancel"
	FlowPayment  Flow = "payment"
)

// Session is the per-browser state the gateway keeps between requests.
// It is created at first contact and torn down at logout.
type Session struct {
	ID   string
	Cart *cart.Store

	mu            sync.Mutex
	userID        int64
	orderType     models.OrderType
	booking       *models.ActiveBooking
	bookingUserID int64
	editing       *models.EditableOrder
	payment       *models.PaymentIntent
	inFlight      map[Flow]bool
	lastSeen      time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Cart:      cart.NewStore(),
		orderType: models.OrderTypeDineIn,
		inFlight:  make(map[Flow]bool),
		lastSeen:  now,
	}
}

// TryBegin marks flow as in flight. It reports false when the same flow is
// already running for this session.
func (s *Session) TryBegin(flow Flow) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFlight[flow] {
		return false
	}
	s.inFlight[flow] = true
	return true
}

// End releases flow.
func (s *Session) End(flow Flow) {
	s.mu.Lock()
	delete(s.inFlight, flow)
	s.mu.Unlock()
}

// ObserveUser records who is using the session. When the identity changes
// the resolved booking belongs to someone else and is dropped.
func (s *Session) ObserveUser(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userID == userID {
		return false
	}
	s.userID = userID
	if s.bookingUserID != userID {
		s.booking = nil
		s.bookingUserID = 0
	}
	s.editing = nil
	s.payment = nil
	return true
}

func (s *Session) UserID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Session) OrderType() models.OrderType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderType
}

// SetOrderType switches the order type. Takeaway force-clears the active
// booking.
func (s *Session) SetOrderType(t models.OrderType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderType = t
	if t == models.OrderTypeTakeaway {
		s.booking = nil
		s.bookingUserID = 0
	}
}

// ActiveBooking returns the booking resolved for userID, or nil when none was
// resolved for that user.
func (s *Session) ActiveBooking(userID int64) *models.ActiveBooking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.booking == nil || s.bookingUserID != userID {
		return nil
	}
	b := *s.booking
	return &b
}

// SetActiveBooking stores the result of a resolution; nil clears it.
func (s *Session) SetActiveBooking(userID int64, b *models.ActiveBooking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b == nil {
		s.booking = nil
		s.bookingUserID = 0
		return
	}
	cp := *b
	s.booking = &cp
	s.bookingUserID = userID
}

func (s *Session) ClearActiveBooking() {
	s.SetActiveBooking(0, nil)
}

// Editing returns a copy of the order being edited, if any.
func (s *Session) Editing() *models.EditableOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEditable(s.editing)
}

func (s *Session) SetEditing(e *models.EditableOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = cloneEditable(e)
}

// UpdateEditing applies fn to the working copy under the session lock.
// It returns ErrNoEditableOrder when nothing is open.
func (s *Session) UpdateEditing(fn func(*models.EditableOrder) error) (*models.EditableOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return nil, ErrNoEditableOrder
	}
	if err := fn(s.editing); err != nil {
		return nil, err
	}
	return cloneEditable(s.editing), nil
}

func (s *Session) DiscardEditing() {
	s.mu.Lock()
	s.editing = nil
	s.mu.Unlock()
}

func (s *Session) PaymentIntent() *models.PaymentIntent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payment == nil {
		return nil
	}
	p := *s.payment
	return &p
}

func (s *Session) SetPaymentIntent(p *models.PaymentIntent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p == nil {
		s.payment = nil
		return
	}
	cp := *p
	s.payment = &cp
}

func (s *Session) ClearPaymentIntent() {
	s.SetPaymentIntent(nil)
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func cloneEditable(e *models.EditableOrder) *models.EditableOrder {
	if e == nil {
		return nil
	}
	cp := *e
	cp.Lines = append([]models.EditableOrderLine(nil), e.Lines...)
	if e.TableID != nil {
		id := *e.TableID
		cp.TableID = &id
	}
	return &cp
}
