package adaptor

import (
	"net/http"

	"band-market/internal/usecase"
	"band-market/pkg/utils"

	"go.uber.org/zap"
)

type RateHandler struct {
	service usecase.RateService
	log     *zap.Logger
}

func NewRateHandler(service usecase.RateService, log *zap.Logger) *RateHandler {
	return &RateHandler{
		service: service,
		log:     log.With(zap.String("handler", "rate")),
	}
}

// GetRates handles GET /api/rates (public)
func (h *RateHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	utils.ResponseSuccess(w, "success", h.service.GetRates(r.Context()))
}
