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

type ProductHandler struct {
	service usecase.CatalogService
	log     *zap.Logger
}

func NewProductHandler(service usecase.CatalogService, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		log:     log.With(zap.String("handler", "product")),
	}
}

// ListProducts handles GET /api/products (public)
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, perPage := pageFromQuery(r)

	req := &request.ProductListRequest{
		PaginatedRequest: request.PaginatedRequest{Page: page, PerPage: perPage},
		BandID:           query.Get("band_id"),
		Category:         query.Get("category"),
		Currency:         query.Get("currency"),
	}

	products, err := h.service.ListProducts(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list products")
		return
	}

	utils.ResponseSuccess(w, "success", products)
}

// GetProduct handles GET /api/products/{id} (public)
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("currency"))
	if err != nil {
		handleServiceError(h.log, w, err, "get product")
		return
	}

	utils.ResponseSuccess(w, "success", product)
}

// CreateProduct handles POST /api/manage/products (manager)
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req request.CreateProductRequest
	images, err := readMultipartProduct(r, &req)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), caller, &req, images)
	if err != nil {
		handleServiceError(h.log, w, err, "create product")
		return
	}

	utils.ResponseCreated(w, "Product created", product)
}

// UpdateProduct handles PUT /api/manage/products/{id} (manager)
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req request.UpdateProductRequest
	images, err := readMultipartProduct(r, &req)
	if err != nil {
		utils.ResponseBadRequest(w, err.Error(), nil)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), caller, chi.URLParam(r, "id"), &req, images)
	if err != nil {
		handleServiceError(h.log, w, err, "update product")
		return
	}

	utils.ResponseSuccess(w, "Product updated", product)
}

// UpdateStock handles PATCH /api/manage/products/{id}/stock (manager)
func (h *ProductHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req request.UpdateStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := h.service.UpdateStockOnly(r.Context(), caller, chi.URLParam(r, "id"), &req); err != nil {
		handleServiceError(h.log, w, err, "update stock")
		return
	}

	utils.ResponseSuccess(w, "Stock updated", nil)
}

// DeleteProduct handles DELETE /api/manage/products/{id} (manager)
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerOrUnauthorized(w, r)
	if !ok {
		return
	}

	if err := h.service.SoftDeleteProduct(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		handleServiceError(h.log, w, err, "delete product")
		return
	}

	utils.ResponseSuccess(w, "Product deleted", nil)
}
