package models

import (
	"strconv"
	"strings"
	"time"
)

// BookingStatus defines the type for booking statuses
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "Pending"
	BookingStatusConfirmed BookingStatus = "Confirmed"
	BookingStatusCancelled BookingStatus = "Cancelled"
	BookingStatusCompleted BookingStatus = "Completed"
)

// ParseBookingStatus matches a status string case-insensitively.
func ParseBookingStatus(status string) (BookingStatus, bool) {
	for _, s := range []BookingStatus{
		BookingStatusPending,
		BookingStatusConfirmed,
		BookingStatusCancelled,
		BookingStatusCompleted,
	} {
		if strings.EqualFold(strings.TrimSpace(status), string(s)) {
			return s, true
		}
	}
	return "", false
}

// IsActive reports whether a booking in this status can anchor a dine-in order.
func (s BookingStatus) IsActive() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// TableStatus is the floor status of a dining table as staff sees it.
type TableStatus string

const (
	TableStatusAvailable TableStatus = "Available"
	TableStatusBooked    TableStatus = "Booked"
	TableStatusUsed      TableStatus = "Used"
	TableStatusCleaning  TableStatus = "Cleaning"
)

// IsValidTableStatus checks if the provided status string is a valid TableStatus.
func IsValidTableStatus(status string) bool {
	switch TableStatus(status) {
	case TableStatusAvailable, TableStatusBooked, TableStatusUsed, TableStatusCleaning:
		return true
	default:
		return false
	}
}

// DiningTable represents a physical table in the restaurant
type DiningTable struct {
	ID          int64       `json:"id"`
	TableNumber int         `json:"table_number"`
	Capacity    int         `json:"capacity,omitempty"`
	Status      TableStatus `json:"status"`
}

// Label is the display name used for a table ("Bàn 7").
func (t DiningTable) Label() string {
	return TableLabel(t.TableNumber)
}

// TableLabel formats a table number the way the dining room names tables.
func TableLabel(number int) string {
	return "Bàn " + strconv.Itoa(number)
}

// Booking represents a reservation for a table
type Booking struct {
	ID           int64         `json:"id"`
	UserID       *int64        `json:"user_id,omitempty"`
	TableID      int64         `json:"table_id"`
	TableNumber  int           `json:"table_number"`
	CustomerName string        `json:"customer_name,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	BookingTime  time.Time     `json:"booking_time"`
	NumGuests    int           `json:"num_guests,omitempty"`
	Status       BookingStatus `json:"status"`
	Note         *string       `json:"note,omitempty"`
}

// ActiveBooking is the reservation a dine-in order is anchored to.
type ActiveBooking struct {
	BookingID  int64         `json:"booking_id"`
	TableID    int64         `json:"table_id"`
	TableLabel string        `json:"table_label"`
	StartTime  time.Time     `json:"start_time"`
	Status     BookingStatus `json:"status"`
}

// ActiveBookingFrom converts a booking into its checkout anchor form.
func ActiveBookingFrom(b Booking) *ActiveBooking {
	return &ActiveBooking{
		BookingID:  b.ID,
		TableID:    b.TableID,
		TableLabel: TableLabel(b.TableNumber),
		StartTime:  b.BookingTime,
		Status:     b.Status,
	}
}

// CreateBookingPayload is what a customer submits from the booking form.
type CreateBookingPayload struct {
	Date         string  `json:"date" binding:"required"`      // YYYY-MM-DD
	TimeSlot     string  `json:"time_slot" binding:"required"` // HH:MM
	TableID      int64   `json:"table_id" binding:"required"`
	CustomerName string  `json:"customer_name" binding:"required"`
	Phone        string  `json:"phone" binding:"required"`
	NumGuests    int     `json:"num_guests"`
	Note         *string `json:"note,omitempty"`
}

// UpdateBookingPayload is the admin edit form for a booking.
type UpdateBookingPayload struct {
	TableID     int64  `json:"table_id" binding:"required"`
	BookingTime string `json:"booking_time" binding:"required"` // RFC3339
	NumGuests   int    `json:"num_guests" binding:"required,gt=0"`
}

// BookingFilters defines pagination for listing bookings.
type BookingFilters struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}
