package mocks

import (
	"context"

	"band-market/internal/data/entity"
	"band-market/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type InventoryRepository struct {
	mock.Mock
}

func (m *InventoryRepository) AddStock(ctx context.Context, q database.Querier, productID, branchID uuid.UUID, delta int) (int, error) {
	args := m.Called(ctx, q, productID, branchID, delta)
	return args.Int(0), args.Error(1)
}

func (m *InventoryRepository) SetStock(ctx context.Context, q database.Querier, productID, branchID uuid.UUID, quantity int) error {
	return m.Called(ctx, q, productID, branchID, quantity).Error(0)
}

func (m *InventoryRepository) GetStock(ctx context.Context, q database.Querier, productID, branchID uuid.UUID) (int, error) {
	args := m.Called(ctx, q, productID, branchID)
	return args.Int(0), args.Error(1)
}

func (m *InventoryRepository) DeductStock(ctx context.Context, q database.Querier, productID, branchID uuid.UUID, quantity int) error {
	return m.Called(ctx, q, productID, branchID, quantity).Error(0)
}

func (m *InventoryRepository) ListByProduct(ctx context.Context, q database.Querier, productID uuid.UUID) ([]*entity.InventoryRecord, error) {
	args := m.Called(ctx, q, productID)
	records, _ := args.Get(0).([]*entity.InventoryRecord)
	return records, args.Error(1)
}
