package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_gateway/internal/models"
)

type fakeMenuRepo struct {
	page, pageSize, limit int
	category              string
}

func (f *fakeMenuRepo) List(_ context.Context, page, pageSize int) ([]models.MenuItem, int, error) {
	f.page, f.pageSize = page, pageSize
	return []models.MenuItem{{ID: 1, Name: "Bún chả", Price: 55000}}, 31, nil
}

func (f *fakeMenuRepo) ListByCategory(_ context.Context, category string) ([]models.MenuItem, error) {
	f.category = category
	return nil, nil
}

func (f *fakeMenuRepo) BestSelling(_ context.Context, limit int) ([]models.BestSellingItem, error) {
	f.limit = limit
	return nil, nil
}

type fakeTableRepo struct {
	updated map[int64]models.TableStatus
}

func (f *fakeTableRepo) List(context.Context) ([]models.DiningTable, error) {
	return []models.DiningTable{{ID: 1, TableNumber: 1, Status: models.TableStatusAvailable}}, nil
}

func (f *fakeTableRepo) UpdateStatus(_ context.Context, id int64, status models.TableStatus) error {
	f.updated[id] = status
	return nil
}

func TestMenuPaging(t *testing.T) {
	repo := &fakeMenuRepo{}
	svc := NewMenuService(repo)

	page, err := svc.GetMenu(context.Background(), -1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, repo.page)
	assert.Equal(t, defaultMenuPageSize, repo.pageSize)
	assert.Equal(t, 31, page.Total)

	_, err = svc.GetMenu(context.Background(), 2, 1000)
	require.NoError(t, err)
	assert.Equal(t, maxMenuPageSize, repo.pageSize)

	_, err = svc.GetMenuByCategory(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrMenuCategoryRequired)
	_, err = svc.GetMenuByCategory(context.Background(), " Món chính ")
	require.NoError(t, err)
	assert.Equal(t, "Món chính", repo.category)
}

func TestTableStatusValidation(t *testing.T) {
	repo := &fakeTableRepo{updated: map[int64]models.TableStatus{}}
	svc := NewTableService(repo)

	assert.ErrorIs(t, svc.UpdateTableStatus(context.Background(), 1, "Broken"), ErrInvalidTableStatus)
	require.NoError(t, svc.UpdateTableStatus(context.Background(), 1, "Cleaning"))
	assert.Equal(t, models.TableStatusCleaning, repo.updated[1])
}

func newTestReportService(payments *fakePaymentRepo, menu *fakeMenuRepo) *reportService {
	svc := NewReportService(payments, newFakeOrderRepo(), NewMenuService(menu), testLoc).(*reportService)
	svc.now = func() time.Time { return noon }
	return svc
}

func TestRevenueReportDates(t *testing.T) {
	payments := &fakePaymentRepo{}
	svc := newTestReportService(payments, &fakeMenuRepo{})

	_, err := svc.GetRevenueReport(context.Background(), models.ReportRequestParams{})
	require.NoError(t, err)
	assert.Equal(t, [2]string{"2026-10-01", "2026-10-19"}, payments.revenue)

	_, err = svc.GetRevenueReport(context.Background(), models.ReportRequestParams{FromDate: "2026-10-10", ToDate: "2026-10-01"})
	assert.ErrorIs(t, err, ErrReportParams)

	_, err = svc.GetRevenueReport(context.Background(), models.ReportRequestParams{FromDate: "10/01/2026"})
	assert.ErrorIs(t, err, ErrReportParams)
}

func TestMonthlyStatsDefaults(t *testing.T) {
	svc := newTestReportService(&fakePaymentRepo{}, &fakeMenuRepo{})

	stats, err := svc.GetMonthlyStats(context.Background(), models.ReportRequestParams{})
	require.NoError(t, err)
	assert.Equal(t, 2026, stats.Year)
	assert.Equal(t, 10, stats.Month)

	_, err = svc.GetMonthlyStats(context.Background(), models.ReportRequestParams{Year: 2026, Month: 13})
	assert.ErrorIs(t, err, ErrReportParams)
}

func TestBestSellingLimit(t *testing.T) {
	menu := &fakeMenuRepo{}
	svc := newTestReportService(&fakePaymentRepo{}, menu)

	_, err := svc.GetBestSelling(context.Background(), models.ReportRequestParams{})
	require.NoError(t, err)
	assert.Equal(t, defaultTopSelling, menu.limit)

	_, err = svc.GetBestSelling(context.Background(), models.ReportRequestParams{Limit: 500})
	assert.ErrorIs(t, err, ErrReportParams)
}
