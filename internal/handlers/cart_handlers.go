package handlers

import (
	"errors"
	"net/http"

	"restaurant_gateway/internal/cart"
	"restaurant_gateway/internal/models"
	"restaurant_gateway/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CartHandler serves the session cart. It needs no backend.
type CartHandler struct{}

// NewCartHandler creates a new CartHandler.
func NewCartHandler() *CartHandler {
	return &CartHandler{}
}

// GetCart returns the cart with its totals.
func (h *CartHandler) GetCart(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Cart.View())
}

// AddItem adds a menu item, merging with an existing line.
func (h *CartHandler) AddItem(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	var req models.AddToCartPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	line := models.CartLine{ItemID: req.ItemID, Name: req.Name, UnitPrice: req.UnitPrice, ImageRef: req.ImageRef}
	if err := sess.Cart.Add(line, req.Quantity); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, sess.Cart.View())
}

// UpdateQuantity sets a line's quantity; it never removes the line.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId", "item")
	if !ok {
		return
	}
	var req models.UpdateQuantityPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if err := sess.Cart.UpdateQuantity(itemID, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrLineNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Item is not in the cart.", err.Error()))
		} else {
			utils.RespondValidationFailed(c, err.Error())
		}
		return
	}
	c.JSON(http.StatusOK, sess.Cart.View())
}

// RemoveItem drops a line. Removing an absent item is not an error.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "itemId", "item")
	if !ok {
		return
	}
	sess.Cart.Remove(itemID)
	c.JSON(http.StatusOK, sess.Cart.View())
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	sess, ok := requireSession(c)
	if !ok {
		return
	}
	sess.Cart.Clear()
	c.JSON(http.StatusOK, sess.Cart.View())
}
