package session

import (
	"time"

	"restaurant_gateway/internal/cart"
	"restaurant_gateway/internal/models"
)

// Snapshot is the persisted form of a Session. In-flight markers are never
// persisted.
type Snapshot struct {
	UserID        int64                 `json:"user_id,omitempty"`
	Cart          []models.CartLine     `json:"cart"`
	OrderType     models.OrderType      `json:"order_type,omitempty"`
	Booking       *models.ActiveBooking `json:"active_booking,omitempty"`
	BookingUserID int64                 `json:"booking_user_id,omitempty"`
	Editing       *models.EditableOrder `json:"editing,omitempty"`
	Payment       *models.PaymentIntent `json:"payment,omitempty"`
}

// Snapshot captures the session's current state.
func (s *Session) Snapshot() Snapshot {
	lines := s.Cart.Lines()
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		UserID:        s.userID,
		Cart:          lines,
		OrderType:     s.orderType,
		BookingUserID: s.bookingUserID,
		Editing:       cloneEditable(s.editing),
	}
	if s.booking != nil {
		b := *s.booking
		snap.Booking = &b
	}
	if s.payment != nil {
		p := *s.payment
		snap.Payment = &p
	}
	return snap
}

func fromSnapshot(id string, snap Snapshot, now time.Time) *Session {
	s := newSession(id, now)
	s.Cart = cart.NewStore(snap.Cart...)
	s.userID = snap.UserID
	if t, ok := models.ParseOrderType(string(snap.OrderType)); ok {
		s.orderType = t
	}
	if snap.Booking != nil && snap.BookingUserID != 0 {
		b := *snap.Booking
		s.booking = &b
		s.bookingUserID = snap.BookingUserID
	}
	if snap.Editing != nil {
		s.editing = cloneEditable(snap.Editing)
		s.editing.Recompute()
	}
	if snap.Payment != nil {
		p := *snap.Payment
		s.payment = &p
	}
	return s
}
