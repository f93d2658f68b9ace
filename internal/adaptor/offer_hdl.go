package adaptor

import (
	"encoding/json"
	"net/http"

	"band-market/internal/dto/request"
	"band-market/internal/usecase"
	"band-market/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type OfferHandler struct {
	service usecase.OfferService
	log     *zap.Logger
}

func NewOfferHandler(service usecase.OfferService, log *zap.Logger) *OfferHandler {
	return &OfferHandler{
		service: service,
		log:     log.With(zap.String("handler", "offer")),
	}
}

// CreateOffer handles POST /api/offers
func (h *OfferHandler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req request.CreateOfferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	offer, err := h.service.CreateOffer(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create offer")
		return
	}

	utils.ResponseCreated(w, "Offer created", offer)
}

// GetMyOffers handles GET /api/user/offers
func (h *OfferHandler) GetMyOffers(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	page, perPage := pageFromQuery(r)
	req := &request.PaginatedRequest{Page: page, PerPage: perPage}

	offers, err := h.service.ListMyOffers(r.Context(), caller, req, r.URL.Query().Get("currency"))
	if err != nil {
		handleServiceError(h.log, w, err, "list my offers")
		return
	}

	utils.ResponseSuccess(w, "success", offers)
}

// GetBandOffers handles GET /api/bands/{id}/offers (band manager)
func (h *OfferHandler) GetBandOffers(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	page, perPage := pageFromQuery(r)
	req := &request.PaginatedRequest{Page: page, PerPage: perPage}

	offers, err := h.service.ListBandOffers(r.Context(), caller, chi.URLParam(r, "id"), req, r.URL.Query().Get("currency"))
	if err != nil {
		handleServiceError(h.log, w, err, "list band offers")
		return
	}

	utils.ResponseSuccess(w, "success", offers)
}

// AcceptOffer handles PUT /api/offers/{id}/accept
func (h *OfferHandler) AcceptOffer(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	if err := h.service.AcceptOffer(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "accept offer")
		return
	}

	utils.ResponseSuccess(w, "Offer accepted", nil)
}

// RejectOffer handles PUT /api/offers/{id}/reject
func (h *OfferHandler) RejectOffer(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	if err := h.service.RejectOffer(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "reject offer")
		return
	}

	utils.ResponseSuccess(w, "Offer rejected", nil)
}

// RetractOffer handles DELETE /api/offers/{id}
func (h *OfferHandler) RetractOffer(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	if err := h.service.RetractOffer(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "retract offer")
		return
	}

	utils.ResponseSuccess(w, "Offer retracted", nil)
}
