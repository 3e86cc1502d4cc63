package handlers

import (
	"errors"
	"net/http"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/services"
	"restaurant_gateway/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PaymentHandler holds the payment service.
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: ps}
}

func respondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoPaymentIntent):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), err.Error()))
	case errors.Is(err, services.ErrPaymentExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, services.ErrPaymentExists.Error(), err.Error()))
	case errors.Is(err, services.ErrPaymentGatewayFailed):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadGateway, utils.ErrCodeUpstreamUnavailable, services.ErrPaymentGatewayFailed.Error(), err.Error()))
	case errors.Is(err, services.ErrPaymentFailed):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadGateway, utils.ErrCodeUpstreamUnavailable, services.ErrPaymentFailed.Error(), err.Error()))
	default:
		respondServiceError(c, err, "Payment failed.")
	}
}

// OpenModal opens the payment modal for an order.
func (h *PaymentHandler) OpenModal(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.OpenPaymentPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	c.JSON(http.StatusOK, h.paymentService.OpenModal(sess, req))
}

func (h *PaymentHandler) CloseModal(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	h.paymentService.CloseModal(sess)
	c.Status(http.StatusNoContent)
}

// PayWithGateway returns the hosted checkout location to redirect to.
func (h *PaymentHandler) PayWithGateway(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	redirect, err := h.paymentService.PayWithGateway(c.Request.Context(), sess)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, redirect)
}

// PayWithCash asks staff to collect payment at the table.
func (h *PaymentHandler) PayWithCash(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	res, err := h.paymentService.PayWithCash(c.Request.Context(), sess)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GetResult resolves the page the payment gateway returns to.
func (h *PaymentHandler) GetResult(c *gin.Context) {
	c.JSON(http.StatusOK, h.paymentService.ResolveResult(c.Request.Context(), c.Query("orderId")))
}
