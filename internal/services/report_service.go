package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/repositories"
)

var ErrReportParams = errors.New("invalid report parameters")

// ReportService aggregates the admin reports.
type ReportService interface {
	GetRevenueReport(ctx context.Context, params models.ReportRequestParams) (*models.RevenueReport, error)
	GetMonthlyStats(ctx context.Context, params models.ReportRequestParams) (*models.MonthlyStats, error)
	GetBestSelling(ctx context.Context, params models.ReportRequestParams) ([]models.BestSellingItem, error)
}

type reportService struct {
	paymentRepo repositories.PaymentRepository
	orderRepo   repositories.OrderRepository
	menu        MenuService
	loc         *time.Location
	now         func() time.Time
}

// NewReportService creates a new instance of ReportService.
func NewReportService(pr repositories.PaymentRepository, or repositories.OrderRepository, ms MenuService, loc *time.Location) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{paymentRepo: pr, orderRepo: or, menu: ms, loc: loc, now: time.Now}
}

// GetRevenueReport defaults to the current month up to today.
func (s *reportService) GetRevenueReport(ctx context.Context, params models.ReportRequestParams) (*models.RevenueReport, error) {
	today := StartOfDay(s.now(), s.loc)
	from := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, s.loc)
	to := today

	var err error
	if params.FromDate != "" {
		if from, err = time.ParseInLocation("2006-01-02", params.FromDate, s.loc); err != nil {
			return nil, fmt.Errorf("%w: from_date must be YYYY-MM-DD", ErrReportParams)
		}
	}
	if params.ToDate != "" {
		if to, err = time.ParseInLocation("2006-01-02", params.ToDate, s.loc); err != nil {
			return nil, fmt.Errorf("%w: to_date must be YYYY-MM-DD", ErrReportParams)
		}
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to_date is before from_date", ErrReportParams)
	}
	return s.paymentRepo.RevenueReport(ctx, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

// GetMonthlyStats defaults to the current month.
func (s *reportService) GetMonthlyStats(ctx context.Context, params models.ReportRequestParams) (*models.MonthlyStats, error) {
	now := s.now().In(s.loc)
	year, month := params.Year, params.Month
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	if month < 1 || month > 12 || year < 2000 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d month %d", ErrReportParams, year, month)
	}
	return s.orderRepo.MonthlyStats(ctx, year, month)
}

func (s *reportService) GetBestSelling(ctx context.Context, params models.ReportRequestParams) ([]models.BestSellingItem, error) {
	if params.Limit < 0 || params.Limit > maxTopSelling {
		return nil, fmt.Errorf("%w: limit must be between 1 and %d", ErrReportParams, maxTopSelling)
	}
	return s.menu.GetBestSelling(ctx, params.Limit)
}
