package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/bramment1/poke-trade-scan-web/internal/api"
	"github.com/bramment1/poke-trade-scan-web/internal/config"
	"github.com/bramment1/poke-trade-scan-web/internal/database"
	"github.com/bramment1/poke-trade-scan-web/internal/logging"
	"github.com/bramment1/poke-trade-scan-web/internal/metrics"
	"github.com/bramment1/poke-trade-scan-web/internal/services"
)

func main() {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	logging.Init(cfg.Log.Level, cfg.Log.Format)

	db, err := database.Open(cfg.Database.Path, cfg.Database.Debug)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go metrics.RunCatalogRefresh(ctx, db, cfg.MetricsInterval)

	catalog := services.NewCatalogService(db)

	if cfg.Pricing.APIKey == "" {
		log.Warn().Msg("POKEMONTCG_API_KEY not set, pricing runs on the anonymous rate limit")
	}
	source := services.NewPokemonTCGService(cfg.Pricing.APIKey, cfg.Pricing.BaseURL, cfg.Pricing.Timeout, cfg.Pricing.RatePerSecond)
	aggregator := services.NewAggregator(cfg.Pricing.USDToEUR)
	priceService := services.NewPriceService(source, aggregator, cfg.Pricing.CacheSize, cfg.Pricing.CacheTTL)

	router := api.SetupRouter(catalog, priceService, api.RouterOptions{
		CORSOrigins:  cfg.CORSOrigins,
		FrontendPath: cfg.FrontendPath,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Stop the metrics refresher
	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
