package main

import (
	"context"
	"log"
	"time"

	"band-market/cmd"
	"band-market/internal/currency"
	"band-market/internal/data/repository"
	"band-market/internal/wire"
	"band-market/pkg/database"
	"band-market/pkg/storage"
	"band-market/pkg/utils"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)

	// Exchange rates: seeded defaults now, live table on the first refresh
	rates := currency.NewRateCache(currency.RateConfig{
		SourceURL:       config.Rates.SourceURL,
		Canonical:       config.Rates.Canonical,
		RefreshInterval: config.Rates.RefreshInterval,
		Timeout:         config.Rates.Timeout,
	}, nil, time.Now, logger)
	rates.Initialize()
	defer rates.Stop()

	// Product image store
	store, closeStore, err := storage.Open(config.Storage, logger)
	if err != nil {
		logger.Fatal("Failed to open object store", zap.Error(err))
	}
	defer closeStore()

	logger.Info("Object store ready", zap.String("driver", config.Storage.Driver))

	// Session housekeeping
	housekeeping := cron.New()
	housekeeping.Schedule(cron.Every(config.Session.CleanupInterval), cron.FuncJob(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := repos.Session.CleanExpiredSessions(ctx); err != nil {
			logger.Warn("Session cleanup failed", zap.Error(err))
		}
	}))
	housekeeping.Start()
	defer housekeeping.Stop()

	app := wire.Wiring(repos, db, rates, store, config, logger)

	logger.Info("Starting HTTP server", zap.String("port", config.App.Port))

	if err := cmd.APIServer(app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server error", zap.Error(err))
	}
}
