package mocks

import (
	"context"

	"band-market/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type BandRepository struct {
	mock.Mock
}

func (m *BandRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Band, error) {
	args := m.Called(ctx, id)
	band, _ := args.Get(0).(*entity.Band)
	return band, args.Error(1)
}
