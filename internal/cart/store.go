// Package cart holds the session-scoped shopping cart.
package cart

import (
	"errors"
	"sync"

	"restaurant_gateway/internal/models"
)

var (
	// ErrLineNotFound is returned when a quantity update targets an item that is not in the cart.
	ErrLineNotFound = errors.New("cart line not found")

	// ErrQuantityBelowMinimum guards the decrement control: a line never shows less than 1.
	ErrQuantityBelowMinimum = errors.New("quantity must be at least 1")

	// ErrNegativePrice rejects items priced below zero.
	ErrNegativePrice = errors.New("unit price must not be negative")
)

// Store is one session's cart. It is created with the session and torn down
// with it; nothing here talks to the network.
type Store struct {
	mu    sync.RWMutex
	lines []models.CartLine
}

// NewStore returns an empty cart, or a cart restored from saved lines.
func NewStore(lines ...models.CartLine) *Store {
	s := &Store{}
	for _, l := range lines {
		if l.Quantity < 1 || l.UnitPrice < 0 {
			continue
		}
		if idx := s.indexOf(l.ItemID); idx >= 0 {
			s.lines[idx].Quantity += l.Quantity
			continue
		}
		s.lines = append(s.lines, l)
	}
	return s
}

// Add puts an item in the cart. An item already present has its quantity
// increased by delta (1 when delta < 1) instead of being duplicated.
func (s *Store) Add(item models.CartLine, delta int) error {
	if item.UnitPrice < 0 {
		return ErrNegativePrice
	}
	if delta < 1 {
		delta = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(item.ItemID); idx >= 0 {
		s.lines[idx].Quantity += delta
		return nil
	}
	item.Quantity = delta
	s.lines = append(s.lines, item)
	return nil
}

// UpdateQuantity replaces a line's quantity. Reaching zero never removes a
// line; Remove is the only way out of the cart.
func (s *Store) UpdateQuantity(itemID int64, quantity int) error {
	if quantity < 1 {
		return ErrQuantityBelowMinimum
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(itemID)
	if idx < 0 {
		return ErrLineNotFound
	}
	s.lines[idx].Quantity = quantity
	return nil
}

// Remove deletes a line. Removing an absent item is a no-op.
func (s *Store) Remove(itemID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(itemID)
	if idx < 0 {
		return
	}
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []models.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// IsEmpty reports whether the cart has no lines.
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lines) == 0
}

// TotalItems is the sum of quantities.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice is the sum of quantity × unit price, in đồng.
func (s *Store) TotalPrice() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, l := range s.lines {
		total += int64(l.Quantity) * l.UnitPrice
	}
	return total
}

// View returns the lines together with their derived totals.
func (s *Store) View() models.CartView {
	lines := s.Lines()
	view := models.CartView{Lines: lines}
	for _, l := range lines {
		view.TotalItems += l.Quantity
		view.TotalPrice += int64(l.Quantity) * l.UnitPrice
	}
	return view
}

func (s *Store) indexOf(itemID int64) int {
	for i := range s.lines {
		if s.lines[i].ItemID == itemID {
			return i
		}
	}
	return -1
}
