package wire

import (
	"band-market/internal/adaptor"
	"band-market/internal/data/repository"
	"band-market/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOrder(
	r chi.Router,
	orderHandler *adaptor.OrderHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// POST /api/orders - Place an order, stock is deducted atomically
		r.Post("/api/orders", orderHandler.PlaceOrder)

		// GET /api/orders/{id}?currency= - Owner or admin
		r.Get("/api/orders/{id}", orderHandler.GetOrder)
	})
}
