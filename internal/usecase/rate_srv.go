package usecase

import (
	"context"
	"maps"

	"band-market/internal/currency"
	"band-market/internal/dto/response"
)

type RateService interface {
	GetRates(ctx context.Context) *response.RatesResponse
}

// RateSnapshotter is the part of the rate cache the service reads
type RateSnapshotter interface {
	Snapshot() currency.RateTable
}

type rateService struct {
	rates RateSnapshotter
}

func NewRateService(rates RateSnapshotter) RateService {
	return &rateService{rates: rates}
}

func (s *rateService) GetRates(ctx context.Context) *response.RatesResponse {
	table := s.rates.Snapshot()
	return &response.RatesResponse{
		Base:        table.Base,
		Rates:       maps.Clone(table.Rates),
		LastUpdated: table.LastUpdated,
	}
}
