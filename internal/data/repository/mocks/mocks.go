// Package mocks holds testify mocks of the repository interfaces.
package mocks

import "band-market/internal/data/repository"

var (
	_ repository.SessionRepository   = (*SessionRepository)(nil)
	_ repository.BandRepository      = (*BandRepository)(nil)
	_ repository.ProductRepository   = (*ProductRepository)(nil)
	_ repository.InventoryRepository = (*InventoryRepository)(nil)
	_ repository.OfferRepository     = (*OfferRepository)(nil)
	_ repository.OrderRepository     = (*OrderRepository)(nil)
)
