package wire

import (
	"band-market/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireRate(r chi.Router, rateHandler *adaptor.RateHandler) {
	// GET /api/rates - Current exchange rate table (public)
	r.Get("/api/rates", rateHandler.GetRates)
}
