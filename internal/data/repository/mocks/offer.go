package mocks

import (
	"context"

	"band-market/internal/data/entity"
	"band-market/internal/data/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type OfferRepository struct {
	mock.Mock
}

func (m *OfferRepository) Create(ctx context.Context, offer *entity.BookingOffer) error {
	return m.Called(ctx, offer).Error(0)
}

func (m *OfferRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.BookingOffer, error) {
	args := m.Called(ctx, id)
	offer, _ := args.Get(0).(*entity.BookingOffer)
	return offer, args.Error(1)
}

func (m *OfferRepository) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.BookingOffer, error) {
	args := m.Called(ctx, userID, limit, offset)
	offers, _ := args.Get(0).([]*entity.BookingOffer)
	return offers, args.Error(1)
}

func (m *OfferRepository) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OfferRepository) FindByBandID(ctx context.Context, bandID uuid.UUID, limit, offset int) ([]*entity.BookingOffer, error) {
	args := m.Called(ctx, bandID, limit, offset)
	offers, _ := args.Get(0).([]*entity.BookingOffer)
	return offers, args.Error(1)
}

func (m *OfferRepository) CountByBandID(ctx context.Context, bandID uuid.UUID) (int64, error) {
	args := m.Called(ctx, bandID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OfferRepository) ResolvePending(ctx context.Context, offerID, managerID uuid.UUID, anyBand bool, status entity.OfferStatus) (bool, error) {
	args := m.Called(ctx, offerID, managerID, anyBand, status)
	return args.Bool(0), args.Error(1)
}

func (m *OfferRepository) DeletePending(ctx context.Context, offerID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, offerID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *OfferRepository) Inspect(ctx context.Context, offerID, callerID uuid.UUID) (*repository.OfferAccess, error) {
	args := m.Called(ctx, offerID, callerID)
	access, _ := args.Get(0).(*repository.OfferAccess)
	return access, args.Error(1)
}
