package wire

import (
	"band-market/internal/adaptor"
	"band-market/internal/data/repository"
	"band-market/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireOffer(
	r chi.Router,
	offerHandler *adaptor.OfferHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		// Offerer
		r.Post("/api/offers", offerHandler.CreateOffer)
		r.Get("/api/user/offers", offerHandler.GetMyOffers)
		r.Delete("/api/offers/{id}", offerHandler.RetractOffer)

		// Band manager, checked against the offer's band
		r.Get("/api/bands/{id}/offers", offerHandler.GetBandOffers)
		r.Put("/api/offers/{id}/accept", offerHandler.AcceptOffer)
		r.Put("/api/offers/{id}/reject", offerHandler.RejectOffer)
	})
}
