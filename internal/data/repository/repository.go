package repository

import (
	"band-market/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Session   SessionRepository
	Band      BandRepository
	Product   ProductRepository
	Inventory InventoryRepository
	Offer     OfferRepository
	Order     OrderRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Session:   NewSessionRepository(db, log),
		Band:      NewBandRepository(db, log),
		Product:   NewProductRepository(db, log),
		Inventory: NewInventoryRepository(log),
		Offer:     NewOfferRepository(db, log),
		Order:     NewOrderRepository(db, log),
	}
}
