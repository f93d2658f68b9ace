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

type OrderHandler struct {
	service usecase.CheckoutService
	log     *zap.Logger
}

func NewOrderHandler(service usecase.CheckoutService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log.With(zap.String("handler", "order")),
	}
}

// PlaceOrder handles POST /api/orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req request.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "place order")
		return
	}

	utils.ResponseCreated(w, "Order placed", order)
}

// GetOrder handles GET /api/orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), caller, chi.URLParam(r, "id"), r.URL.Query().Get("currency"))
	if err != nil {
		handleServiceError(h.log, w, err, "get order")
		return
	}

	utils.ResponseSuccess(w, "success", order)
}
