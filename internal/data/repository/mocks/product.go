package mocks

import (
	"context"

	"band-market/internal/data/entity"
	"band-market/internal/data/repository"
	"band-market/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) Create(ctx context.Context, q database.Querier, product *entity.Product) error {
	return m.Called(ctx, q, product).Error(0)
}

func (m *ProductRepository) Update(ctx context.Context, q database.Querier, product *entity.Product) error {
	return m.Called(ctx, q, product).Error(0)
}

func (m *ProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*entity.Product)
	return product, args.Error(1)
}

func (m *ProductRepository) FindWithManager(ctx context.Context, id uuid.UUID) (*entity.Product, uuid.UUID, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*entity.Product)
	return product, args.Get(1).(uuid.UUID), args.Error(2)
}

func (m *ProductRepository) LockImages(ctx context.Context, q database.Querier, id uuid.UUID) ([]string, error) {
	args := m.Called(ctx, q, id)
	images, _ := args.Get(0).([]string)
	return images, args.Error(1)
}

func (m *ProductRepository) FindLiveByIDs(ctx context.Context, q database.Querier, ids []uuid.UUID) (map[uuid.UUID]*entity.Product, error) {
	args := m.Called(ctx, q, ids)
	products, _ := args.Get(0).(map[uuid.UUID]*entity.Product)
	return products, args.Error(1)
}

func (m *ProductRepository) FindAll(ctx context.Context, offset, limit int, filter repository.ProductFilter) ([]*entity.Product, error) {
	args := m.Called(ctx, offset, limit, filter)
	products, _ := args.Get(0).([]*entity.Product)
	return products, args.Error(1)
}

func (m *ProductRepository) CountAll(ctx context.Context, filter repository.ProductFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ProductRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
