package wire

import (
	"net/http"

	"band-market/internal/adaptor"
	"band-market/internal/currency"
	"band-market/internal/data/repository"
	"band-market/internal/usecase"
	"band-market/pkg/database"
	"band-market/pkg/middleware"
	"band-market/pkg/storage"
	"band-market/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const staticPrefix = "/static"

// App holds the assembled HTTP surface
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds services, handlers and routes
func Wiring(
	repo *repository.Repository,
	db database.PgxIface,
	rates *currency.RateCache,
	store storage.ObjectStore,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(usecase.Deps{
		Repo:   repo,
		DB:     db,
		Rates:  rates,
		Store:  store,
		Config: config,
	}, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, repo, store, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	store storage.ObjectStore,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	wireRate(r, handler.Rate)
	wireProduct(r, handler.Product, repo, logger)
	wireOffer(r, handler.Offer, repo, logger)
	wireOrder(r, handler.Order, repo, logger)

	// Local media host
	if fsStore, ok := store.(*storage.FSStore); ok {
		r.Handle(staticPrefix+"/*", http.StripPrefix(staticPrefix, fsStore.FileServer()))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
