package handlers

import (
	"context"
	"errors"
	"net/http"

	"restaurant_gateway/internal/middleware"
	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/services"
	"restaurant_gateway/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler holds the booking service.
type BookingHandler struct {
	bookingService services.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bs services.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bs}
}

func respondBookingError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, services.ErrBookingNotFound) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Booking not found.", err.Error()))
	} else if errors.Is(err, services.ErrInvalidBookingTime) || errors.Is(err, services.ErrBookingValidation) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
	} else {
		respondServiceError(c, err, fallback)
	}
}

// CreateBooking handles the creation of a new booking.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateBooking: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	who := middleware.CurrentIdentity(c)
	booking, err := h.bookingService.CreateBooking(c.Request.Context(), who.UserID, req)
	if err != nil {
		utils.LogError(err, "CreateBooking: Error from bookingService.CreateBooking", map[string]interface{}{"user_id": who.UserID})
		respondBookingError(c, err, "Failed to create booking.")
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// GetMyBookings lists the caller's own bookings.
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	who := middleware.CurrentIdentity(c)
	bookings, err := h.bookingService.ListUserBookings(c.Request.Context(), who.UserID)
	if err != nil {
		respondBookingError(c, err, "Failed to fetch bookings.")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// GetBookings handles fetching all bookings with pagination.
func (h *BookingHandler) GetBookings(c *gin.Context) {
	var filters models.BookingFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid pagination parameters.", err.Error()))
		return
	}

	bookings, totalCount, err := h.bookingService.GetBookings(c.Request.Context(), filters)
	if err != nil {
		utils.LogError(err, "GetBookings: Error from bookingService.GetBookings")
		respondBookingError(c, err, "Failed to fetch bookings.")
		return
	}

	if bookings == nil {
		bookings = []models.Booking{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      bookings,
		"total":     totalCount,
		"page":      filters.Page,
		"page_size": filters.PageSize,
	})
}

// SearchByPhone finds bookings by the customer's phone number.
func (h *BookingHandler) SearchByPhone(c *gin.Context) {
	bookings, err := h.bookingService.SearchByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondBookingError(c, err, "Failed to search bookings.")
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateBooking handles updating a booking.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}

	var req models.UpdateBookingPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateBooking: Failed to bind JSON", map[string]interface{}{"booking_id": bookingID})
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	booking, err := h.bookingService.UpdateBooking(c.Request.Context(), bookingID, req)
	if err != nil {
		utils.LogError(err, "UpdateBooking: Error from bookingService.UpdateBooking", map[string]interface{}{"booking_id": bookingID})
		respondBookingError(c, err, "Failed to update booking.")
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CancelBooking handles cancelling a booking.
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	h.bookingAction(c, "cancel", "cancelled", h.bookingService.CancelBooking)
}

// CompleteBooking marks a booking as completed.
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	h.bookingAction(c, "complete", "completed", h.bookingService.CompleteBooking)
}

// DeleteBooking handles deleting a booking.
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}
	if err := h.bookingService.DeleteBooking(c.Request.Context(), bookingID); err != nil {
		utils.LogError(err, "DeleteBooking: Error from bookingService.DeleteBooking", map[string]interface{}{"booking_id": bookingID})
		respondBookingError(c, err, "Failed to delete booking.")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookingHandler) bookingAction(c *gin.Context, action, done string, fn func(ctx context.Context, id int64) error) {
	bookingID, ok := parseIDParam(c, "id", "booking")
	if !ok {
		return
	}
	if err := fn(c.Request.Context(), bookingID); err != nil {
		utils.LogError(err, "Booking "+action+" failed for ID "+utils.Int64ToStr(bookingID))
		respondBookingError(c, err, "Failed to "+action+" booking.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking " + done + " successfully.", "booking_id": bookingID})
}
