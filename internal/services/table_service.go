package services

import (
	"context"
	"errors"
	"fmt"

	"restaurant_gateway/internal/models"
	"restaurant_gateway/internal/repositories"
)

var ErrInvalidTableStatus = errors.New("invalid table status")

// TableService is the staff view of the dining room.
type TableService interface {
	GetTables(ctx context.Context) ([]models.DiningTable, error)
	UpdateTableStatus(ctx context.Context, tableID int64, status string) error
}

type tableService struct {
	tableRepo repositories.TableRepository
}

// NewTableService creates a new instance of TableService.
func NewTableService(tr repositories.TableRepository) TableService {
	return &tableService{tableRepo: tr}
}

func (s *tableService) GetTables(ctx context.Context) ([]models.DiningTable, error) {
	return s.tableRepo.List(ctx)
}

func (s *tableService) UpdateTableStatus(ctx context.Context, tableID int64, status string) error {
	if !models.IsValidTableStatus(status) {
		return fmt.Errorf("%w: %q", ErrInvalidTableStatus, status)
	}
	return s.tableRepo.UpdateStatus(ctx, tableID, models.TableStatus(status))
}
