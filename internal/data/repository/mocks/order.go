package mocks

import (
	"context"

	"band-market/internal/data/entity"
	"band-market/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) Create(ctx context.Context, q database.Querier, order *entity.Order) error {
	return m.Called(ctx, q, order).Error(0)
}

func (m *OrderRepository) CreateLineItems(ctx context.Context, q database.Querier, items []*entity.OrderLineItem) error {
	return m.Called(ctx, q, items).Error(0)
}

func (m *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*entity.Order)
	return order, args.Error(1)
}

func (m *OrderRepository) FindLineItems(ctx context.Context, orderID uuid.UUID) ([]*entity.OrderLineItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]*entity.OrderLineItem)
	return items, args.Error(1)
}
