package handlers

import (
	"errors"
	"net/http"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/services"
	"restaurant_gateway/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the report service.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// parseReportRequestParams helps parse common query parameters for reports.
func parseReportRequestParams(c *gin.Context) (models.ReportRequestParams, bool) {
	var params models.ReportRequestParams
	if err := c.ShouldBindQuery(&params); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return params, false
	}
	return params, true
}

func respondReportError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, services.ErrReportParams) || errors.Is(err, services.ErrMenuLimit) {
		utils.RespondValidationFailed(c, err.Error())
		return
	}
	utils.LogError(err, "Report request failed", map[string]interface{}{"path": c.FullPath()})
	respondServiceError(c, err, fallback)
}

// GetRevenueReport handles revenue over a date range (from_date, to_date).
func (h *ReportHandler) GetRevenueReport(c *gin.Context) {
	params, ok := parseReportRequestParams(c)
	if !ok {
		return
	}
	report, err := h.reportService.GetRevenueReport(c.Request.Context(), params)
	if err != nil {
		respondReportError(c, err, "Failed to fetch revenue report.")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetMonthlyStats handles order statistics for one month (year, month).
func (h *ReportHandler) GetMonthlyStats(c *gin.Context) {
	params, ok := parseReportRequestParams(c)
	if !ok {
		return
	}
	stats, err := h.reportService.GetMonthlyStats(c.Request.Context(), params)
	if err != nil {
		respondReportError(c, err, "Failed to fetch monthly statistics.")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ReportHandler) GetBestSelling(c *gin.Context) {
	params, ok := parseReportRequestParams(c)
	if !ok {
		return
	}
	items, err := h.reportService.GetBestSelling(c.Request.Context(), params)
	if err != nil {
		respondReportError(c, err, "Failed to fetch best sellers.")
		return
	}
	if items == nil {
		items = []models.BestSellingItem{}
	}
	c.JSON(http.StatusOK, items)
}
