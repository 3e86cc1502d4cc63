package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/services"
	"restaurant_gateway/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenuHandler holds the menu service.
type MenuHandler struct {
	menuService services.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(ms services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: ms}
}

// GetMenu handles the paged menu listing.
func (h *MenuHandler) GetMenu(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "0"))

	menu, err := h.menuService.GetMenu(c.Request.Context(), page, pageSize)
	if err != nil {
		utils.LogError(err, "GetMenu: Error from menuService.GetMenu")
		respondServiceError(c, err, "Failed to fetch menu.")
		return
	}
	if menu.Items == nil {
		menu.Items = []models.MenuItem{}
	}
	c.JSON(http.StatusOK, menu)
}

// GetMenuByCategory lists one category's dishes.
func (h *MenuHandler) GetMenuByCategory(c *gin.Context) {
	items, err := h.menuService.GetMenuByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		if errors.Is(err, services.ErrMenuCategoryRequired) {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		respondServiceError(c, err, "Failed to fetch menu.")
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) GetBestSelling(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		utils.RespondValidationFailed(c, "limit must be a number")
		return
	}
	items, err := h.menuService.GetBestSelling(c.Request.Context(), limit)
	if err != nil {
		if errors.Is(err, services.ErrMenuLimit) {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		respondServiceError(c, err, "Failed to fetch best sellers.")
		return
	}
	if items == nil {
		items = []models.BestSellingItem{}
	}
	c.JSON(http.StatusOK, items)
}
