package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/repositories"
)

var (
	ErrMenuCategoryRequired = errors.New("menu category is required")
	ErrMenuLimit            = errors.New("invalid best-selling limit")
)

const (
	defaultMenuPageSize = 12
	maxMenuPageSize     = 100
	defaultTopSelling   = 10
	maxTopSelling       = 50
)

// MenuService is the read-only menu catalog.
type MenuService interface {
	GetMenu(ctx context.Context, page, pageSize int) (*models.MenuPage, error)
	GetMenuByCategory(ctx context.Context, category string) ([]models.MenuItem, error)
	GetBestSelling(ctx context.Context, limit int) ([]models.BestSellingItem, error)
}

type menuService struct {
	menuRepo repositories.MenuRepository
}

// NewMenuService creates a new instance of MenuService.
func NewMenuService(mr repositories.MenuRepository) MenuService {
	return &menuService{menuRepo: mr}
}

func (s *menuService) GetMenu(ctx context.Context, page, pageSize int) (*models.MenuPage, error) {
	if page < 0 {
		page = 0
	}
	if pageSize <= 0 {
		pageSize = defaultMenuPageSize
	}
	if pageSize > maxMenuPageSize {
		pageSize = maxMenuPageSize
	}
	items, total, err := s.menuRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &models.MenuPage{Items: items, Page: page, PageSize: pageSize, Total: total}, nil
}

func (s *menuService) GetMenuByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, ErrMenuCategoryRequired
	}
	return s.menuRepo.ListByCategory(ctx, category)
}

func (s *menuService) GetBestSelling(ctx context.Context, limit int) ([]models.BestSellingItem, error) {
	if limit <= 0 {
		limit = defaultTopSelling
	}
	if limit > maxTopSelling {
		return nil, fmt.Errorf("%w: must be at most %d", ErrMenuLimit, maxTopSelling)
	}
	return s.menuRepo.BestSelling(ctx, limit)
}
