package usecase

import (
	"context"
	"testing"

	"band-market/internal/currency"
	"band-market/internal/data/repository"
	"band-market/internal/data/repository/mocks"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRates map[string]float64

func (s stubRates) Rate(code string) (float64, bool) {
	r, ok := s[code]
	return r, ok
}

func (s stubRates) Canonical() string { return "USD" }

func newMoney() *currency.Converter {
	return currency.NewConverter(stubRates{"USD": 1, "EUR": 0.92, "GBP": 0.79}, zap.NewNop())
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	args := m.Called(ctx, data, folder)
	return args.String(0), args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

type repoMocks struct {
	band      *mocks.BandRepository
	product   *mocks.ProductRepository
	inventory *mocks.InventoryRepository
	offer     *mocks.OfferRepository
	order     *mocks.OrderRepository
}

func newRepoMocks() (*repository.Repository, *repoMocks) {
	m := &repoMocks{
		band:      new(mocks.BandRepository),
		product:   new(mocks.ProductRepository),
		inventory: new(mocks.InventoryRepository),
		offer:     new(mocks.OfferRepository),
		order:     new(mocks.OrderRepository),
	}
	repo := &repository.Repository{
		Band:      m.band,
		Product:   m.product,
		Inventory: m.inventory,
		Offer:     m.offer,
		Order:     m.order,
	}
	return repo, m
}

func (m *repoMocks) assertExpectations(t *testing.T) {
	t.Helper()
	m.band.AssertExpectations(t)
	m.product.AssertExpectations(t)
	m.inventory.AssertExpectations(t)
	m.offer.AssertExpectations(t)
	m.order.AssertExpectations(t)
}

func newMockDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	db, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func intPtr(v int) *int { return &v }

var anyUUID = mock.AnythingOfType("uuid.UUID")
