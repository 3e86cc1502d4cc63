package handlers

import (
	"errors"
	"net/http"

	"restaurant_gateway/internal/middleware"
	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/services"
	"restaurant_gateway/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order service.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

func respondOrderError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", err.Error()))
	case errors.Is(err, services.ErrOrderNotEditable), errors.Is(err, services.ErrOrderNotCancellable):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, err.Error(), err.Error()))
	case errors.Is(err, services.ErrInvalidOrderStatus), errors.Is(err, services.ErrOrderSearch),
		errors.Is(err, models.ErrInvalidQuantity):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), err.Error()))
	case errors.Is(err, models.ErrOrderLineNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order line not found.", err.Error()))
	default:
		respondServiceError(c, err, fallback)
	}
}

// GetMyOrders handles the customer's order history.
func (h *OrderHandler) GetMyOrders(c *gin.Context) {
	who := middleware.CurrentIdentity(c)
	orders, err := h.orderService.ListUserOrders(c.Request.Context(), who.UserID)
	if err != nil {
		utils.LogError(err, "GetMyOrders: Error from orderService.ListUserOrders", map[string]interface{}{"user_id": who.UserID})
		respondOrderError(c, err, "Failed to fetch orders.")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrderByID handles fetching a single order.
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}
	order, err := h.orderService.GetOrder(c.Request.Context(), middleware.CurrentIdentity(c), orderID)
	if err != nil {
		respondOrderError(c, err, "Failed to fetch order.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// OpenEdit starts editing a pending order.
func (h *OrderHandler) OpenEdit(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}
	editable, err := h.orderService.OpenEdit(c.Request.Context(), sess, middleware.CurrentIdentity(c), orderID)
	if err != nil {
		respondOrderError(c, err, "Failed to open order for editing.")
		return
	}
	c.JSON(http.StatusOK, editable)
}

type editLineRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateEditLine changes a line of the order being edited.
func (h *OrderHandler) UpdateEditLine(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}
	lineID, ok := parseIDParam(c, "lineId", "line")
	if !ok {
		return
	}
	var req editLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	editable, err := h.orderService.UpdateEditLine(sess, orderID, lineID, req.Quantity)
	if err != nil {
		respondOrderError(c, err, "Failed to update order line.")
		return
	}
	c.JSON(http.StatusOK, editable)
}

// SaveEdit sends the edited order to the backend.
func (h *OrderHandler) SaveEdit(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}
	result, err := h.orderService.SaveEdit(c.Request.Context(), sess, middleware.CurrentIdentity(c), orderID)
	if err != nil {
		respondOrderError(c, err, "Failed to update order, please try again.")
		return
	}
	c.JSON(http.StatusOK, result)
}

// DiscardEdit closes the edit view without saving.
func (h *OrderHandler) DiscardEdit(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}
	h.orderService.DiscardEdit(sess, orderID)
	c.Status(http.StatusNoContent)
}

// CancelOrder cancels a pending order and releases its table booking.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	orderID, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}
	result, err := h.orderService.CancelOrder(c.Request.Context(), sess, middleware.CurrentIdentity(c), orderID)
	if err != nil {
		respondOrderError(c, err, "Failed to cancel order.")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetOrdersByStatus is the staff order board. Defaults to pending orders.
func (h *OrderHandler) GetOrdersByStatus(c *gin.Context) {
	status := c.DefaultQuery("status", string(models.OrderStatusPending))
	orders, err := h.orderService.ListByStatus(c.Request.Context(), status)
	if err != nil {
		respondOrderError(c, err, "Failed to fetch orders.")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

// SearchOrders looks up orders by email, phone or table.
func (h *OrderHandler) SearchOrders(c *gin.Context) {
	var search models.OrderSearch
	if err := c.ShouldBindQuery(&search); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid search parameters: "+err.Error(), err.Error()))
		return
	}
	orders, err := h.orderService.SearchOrders(c.Request.Context(), search)
	if err != nil {
		respondOrderError(c, err, "Failed to search orders.")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

type orderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus moves an order along the kitchen workflow.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id", "order")
	if !ok {
		return
	}
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	if err := h.orderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status); err != nil {
		utils.LogError(err, "UpdateOrderStatus: Error from orderService.UpdateOrderStatus", map[string]interface{}{"order_id": orderID})
		respondOrderError(c, err, "Failed to update order status.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": orderID, "status": req.Status})
}
