package wire

import (
	"band-market/internal/adaptor"
	"band-market/internal/data/repository"
	"band-market/pkg/middleware"
	"band-market/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireProduct(
	r chi.Router,
	productHandler *adaptor.ProductHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Route("/api/products", func(r chi.Router) {
		// GET /api/products?band_id=&category=&currency=&page=&per_page=
		r.Get("/", productHandler.ListProducts)

		// GET /api/products/{id}?currency=
		r.Get("/{id}", productHandler.GetProduct)
	})

	// ==================== MANAGER ROUTES ====================
	// Band ownership is checked per product in the catalog service
	r.Route("/api/manage/products", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))
		r.Use(middleware.RequireRole(log, utils.RoleManager, utils.RoleAdmin))

		r.Post("/", productHandler.CreateProduct)
		r.Put("/{id}", productHandler.UpdateProduct)
		r.Patch("/{id}/stock", productHandler.UpdateStock)
		r.Delete("/{id}", productHandler.DeleteProduct)
	})
}
