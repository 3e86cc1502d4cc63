package handlers

import (
	"errors"
	"net/http"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/services"
	"restaurant_gateway/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StaffHandler serves the staff dining-room screens.
type StaffHandler struct {
	tableService services.TableService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(ts services.TableService) *StaffHandler {
	return &StaffHandler{tableService: ts}
}

// GetTables lists every table with its floor status.
func (h *StaffHandler) GetTables(c *gin.Context) {
	tables, err := h.tableService.GetTables(c.Request.Context())
	if err != nil {
		utils.LogError(err, "GetTables: Error from tableService.GetTables")
		respondServiceError(c, err, "Failed to fetch tables.")
		return
	}
	if tables == nil {
		tables = []models.DiningTable{}
	}
	c.JSON(http.StatusOK, tables)
}

type tableStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateTableStatus sets a table's floor status.
func (h *StaffHandler) UpdateTableStatus(c *gin.Context) {
	tableID, ok := parseIDParam(c, "id", "table")
	if !ok {
		return
	}
	var req tableStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	if err := h.tableService.UpdateTableStatus(c.Request.Context(), tableID, req.Status); err != nil {
		if errors.Is(err, services.ErrInvalidTableStatus) {
			utils.RespondValidationFailed(c, err.Error())
			return
		}
		utils.LogError(err, "UpdateTableStatus: Error from tableService.UpdateTableStatus", map[string]interface{}{"table_id": tableID})
		respondServiceError(c, err, "Failed to update table status.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"table_id": tableID, "status": req.Status})
}
