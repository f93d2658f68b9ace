package usecase

import (
	"errors"
	"fmt"
	"time"

	"band-market/internal/currency"
	"band-market/internal/data/repository"
	"band-market/pkg/database"
	"band-market/pkg/storage"
	"band-market/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Catalog  CatalogService
	Offer    OfferService
	Checkout CheckoutService
	Rate     RateService
}

// Deps are the collaborators shared by every service
type Deps struct {
	Repo   *repository.Repository
	DB     database.PgxIface
	Rates  *currency.RateCache
	Store  storage.ObjectStore
	Config *utils.Config
	Clock  func() time.Time
}

func NewService(deps Deps, log *zap.Logger) *Service {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	money := currency.NewConverter(deps.Rates, log)

	return &Service{
		Catalog:  NewCatalogService(deps.Repo, deps.DB, money, deps.Store, deps.Config.Storage, log),
		Offer:    NewOfferService(deps.Repo, money, deps.Clock, log),
		Checkout: NewCheckoutService(deps.Repo, deps.DB, money, deps.Clock, log),
		Rate:     NewRateService(deps.Rates),
	}
}

// asAppError passes typed errors through and hides everything else behind
// an unexpected error carrying msg.
func asAppError(err error, msg string) error {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return utils.ErrUnexpected(msg, err)
}

func parseID(value, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, utils.ErrValidationFields(map[string]string{
			field: fmt.Sprintf("%s must be a valid UUID", field),
		})
	}
	return id, nil
}

func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return utils.ErrValidationFields(errs)
	}
	return nil
}
