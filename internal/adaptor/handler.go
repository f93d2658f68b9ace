package adaptor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"band-market/internal/usecase"
	"band-market/pkg/utils"

	"go.uber.org/zap"
)

const (
	maxMultipartMemory = 32 << 20
	maxImageBytes      = 10 << 20
	maxImagesPerForm   = 10
)

type Handler struct {
	Product *ProductHandler
	Offer   *OfferHandler
	Order   *OrderHandler
	Rate    *RateHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Product: NewProductHandler(service.Catalog, log),
		Offer:   NewOfferHandler(service.Offer, log),
		Order:   NewOrderHandler(service.Checkout, log),
		Rate:    NewRateHandler(service.Rate, log),
	}
}

// handleServiceError maps a service error to its HTTP status. Business
// rejections are logged at warn, everything else at error.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	kind := utils.KindOf(err)
	if kind == utils.KindUnexpected {
		log.Error(operation+" failed",
			zap.Error(err),
			zap.String("operation", operation))
	} else {
		log.Warn(operation+" rejected",
			zap.Error(err),
			zap.String("operation", operation),
			zap.String("kind", kind.String()))
	}

	utils.ResponseError(w, err)
}

// callerOrUnauthorized reads the authenticated caller, writing 401 if absent
func callerOrUnauthorized(w http.ResponseWriter, r *http.Request) (utils.Caller, bool) {
	caller, ok := utils.GetCallerFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
	}
	return caller, ok
}

func pageFromQuery(r *http.Request) (int, int) {
	query := r.URL.Query()
	return utils.ParseInt(query.Get("page"), 1), utils.ParseInt(query.Get("per_page"), 10)
}

// readMultipartProduct decodes the "data" JSON part into dst and returns the
// raw bytes of every "images" file.
func readMultipartProduct(r *http.Request, dst any) ([][]byte, error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	data := r.FormValue("data")
	if data == "" {
		return nil, errors.New("missing data field")
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return nil, fmt.Errorf("invalid data field: %w", err)
	}

	files := r.MultipartForm.File["images"]
	if len(files) > maxImagesPerForm {
		return nil, fmt.Errorf("at most %d images per request", maxImagesPerForm)
	}

	images := make([][]byte, 0, len(files))
	for _, fh := range files {
		if fh.Size > maxImageBytes {
			return nil, fmt.Errorf("image %s exceeds %d bytes", fh.Filename, maxImageBytes)
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open image %s: %w", fh.Filename, err)
		}
		content, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", fh.Filename, err)
		}
		images = append(images, content)
	}

	return images, nil
}
