package repositories

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"restaurant_gateway/internal/models"
)

// MenuRepository reads the menu catalog. It never writes.
type MenuRepository interface {
	List(ctx context.Context, page, pageSize int) ([]models.MenuItem, int, error)
	ListByCategory(ctx context.Context, category string) ([]models.MenuItem, error)
	BestSelling(ctx context.Context, limit int) ([]models.BestSellingItem, error)
}

type menuRepository struct {
	api Requester
}

// NewMenuRepository creates a new instance of MenuRepository.
func NewMenuRepository(api Requester) MenuRepository {
	return &menuRepository{api: api}
}

type menuCategoryWire struct {
	Name string `json:"name" validate:"required"`
}

type menuItemWire struct {
	ID           int64             `json:"id" validate:"required"`
	Name         string            `json:"name" validate:"required"`
	Description  string            `json:"description"`
	Price        *dong             `json:"price" validate:"required,gte=0"`
	ImageURL     string            `json:"imageUrl"`
	Category     *menuCategoryWire `json:"category"`
	CategoryName string            `json:"categoryName"`
	Available    *bool             `json:"available"`
	IsAvailable  *bool             `json:"isAvailable"`
}

func (w menuItemWire) toModel() (models.MenuItem, error) {
	item := models.MenuItem{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Price:       w.Price.amount(),
		ImageURL:    w.ImageURL,
		Available:   true,
	}
	switch {
	case w.Category != nil:
		item.CategoryName = w.Category.Name
	case w.CategoryName != "":
		item.CategoryName = w.CategoryName
	default:
		return models.MenuItem{}, fmt.Errorf("%w: menu item %d has no category", ErrDecode, w.ID)
	}
	switch {
	case w.Available != nil:
		item.Available = *w.Available
	case w.IsAvailable != nil:
		item.Available = *w.IsAvailable
	}
	return item, nil
}

func convertMenu(items []menuItemWire) ([]models.MenuItem, error) {
	out := make([]models.MenuItem, 0, len(items))
	for _, w := range items {
		m, err := w.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *menuRepository) List(ctx context.Context, page, pageSize int) ([]models.MenuItem, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(pageSize))
	items, total, err := fetchList[menuItemWire](ctx, r.api, Request{
		Method: http.MethodGet,
		Route:  "/api/menu",
		Path:   "/api/menu",
		Query:  q,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("listing menu: %w", err)
	}
	menu, err := convertMenu(items)
	if err != nil {
		return nil, 0, err
	}
	return menu, total, nil
}

func (r *menuRepository) ListByCategory(ctx context.Context, category string) ([]models.MenuItem, error) {
	items, _, err := fetchList[menuItemWire](ctx, r.api, Request{
		Method: http.MethodGet,
		Route:  "/api/menu/category/{category}",
		Path:   "/api/menu/category/" + category,
	})
	if err != nil {
		return nil, fmt.Errorf("listing menu category %q: %w", category, err)
	}
	return convertMenu(items)
}

type bestSellingWire struct {
	MenuItemID        int64  `json:"menuItemId" validate:"required"`
	MenuItemName      string `json:"menuItemName" validate:"required"`
	Description       string `json:"description"`
	ImageURL          string `json:"imageUrl"`
	Price             dong   `json:"price" validate:"gte=0"`
	CategoryName      string `json:"categoryName" validate:"required"`
	TotalQuantitySold int    `json:"totalQuantitySold" validate:"gte=0"`
	TotalRevenue      dong   `json:"totalRevenue" validate:"gte=0"`
}

func (r *menuRepository) BestSelling(ctx context.Context, limit int) ([]models.BestSellingItem, error) {
	items, _, err := fetchList[bestSellingWire](ctx, r.api, Request{
		Method: http.MethodGet,
		Route:  "/api/menu/best-selling",
		Path:   "/api/menu/best-selling",
		Query:  url.Values{"limit": {strconv.Itoa(limit)}},
	})
	if err != nil {
		return nil, fmt.Errorf("listing best-selling items: %w", err)
	}
	out := make([]models.BestSellingItem, 0, len(items))
	for _, w := range items {
		out = append(out, models.BestSellingItem{
			MenuItemID:        w.MenuItemID,
			MenuItemName:      w.MenuItemName,
			Description:       w.Description,
			ImageURL:          w.ImageURL,
			Price:             int64(w.Price),
			CategoryName:      w.CategoryName,
			TotalQuantitySold: w.TotalQuantitySold,
			TotalRevenue:      int64(w.TotalRevenue),
		})
	}
	return out, nil
}
