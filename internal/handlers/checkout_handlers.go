package handlers

import (
	"net/http"

	"restaurant_gateway/internal/middleware"
	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/services"
	"restaurant_gateway/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CheckoutHandler holds the checkout service.
type CheckoutHandler struct {
	checkoutService services.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(cs services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: cs}
}

type orderTypeRequest struct {
	OrderType string `json:"order_type" binding:"required"`
}

// SetOrderType switches between dine-in and takeaway.
func (h *CheckoutHandler) SetOrderType(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req orderTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	orderType, valid := models.ParseOrderType(req.OrderType)
	if !valid {
		utils.RespondValidationFailed(c, "order_type must be Dinein or Takeaway")
		return
	}
	c.JSON(http.StatusOK, h.checkoutService.SetOrderType(c.Request.Context(), sess, middleware.CurrentIdentity(c), orderType))
}

// GetCheckout is called when the cart page opens; it refreshes the active booking.
func (h *CheckoutHandler) GetCheckout(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.checkoutService.EnterCheckout(c.Request.Context(), sess, middleware.CurrentIdentity(c)))
}

// Checkout submits the cart. The body is always the checkout decision; the
// status code only classifies it.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	result, err := h.checkoutService.Checkout(c.Request.Context(), sess, middleware.CurrentIdentity(c))
	if err != nil {
		respondServiceError(c, err, "Failed to place order.")
		return
	}
	c.JSON(checkoutStatus(result), result)
}

func checkoutStatus(r *services.CheckoutResult) int {
	if r.State == services.CheckoutSucceeded {
		return http.StatusCreated
	}
	switch r.Reason {
	case services.CheckoutReasonNotSignedIn, services.CheckoutReasonExpired:
		return http.StatusUnauthorized
	case services.CheckoutReasonForbidden:
		return http.StatusForbidden
	case services.CheckoutReasonBadInput:
		return http.StatusBadRequest
	case services.CheckoutReasonFailed:
		return http.StatusBadGateway
	default:
		// empty cart and missing booking steer the user, they are not failures
		return http.StatusOK
	}
}
