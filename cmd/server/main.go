package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Adriano-luizello/Profeta-sub001/internal/api"
	"github.com/Adriano-luizello/Profeta-sub001/internal/cache"
	"github.com/Adriano-luizello/Profeta-sub001/internal/config"
	"github.com/Adriano-luizello/Profeta-sub001/internal/forecast"
	"github.com/Adriano-luizello/Profeta-sub001/internal/repository/postgres"
	"github.com/Adriano-luizello/Profeta-sub001/internal/service"
	"github.com/Adriano-luizello/Profeta-sub001/internal/storage"
	"github.com/Adriano-luizello/Profeta-sub001/internal/supplychain"
	"github.com/Adriano-luizello/Profeta-sub001/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.Setup(cfg.Server.LogLevel, cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()
	store := postgres.NewStore(db)

	supplyChainCache, err := cache.NewSupplyChainCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, supply-chain cache disabled")
		supplyChainCache = cache.NewNoopSupplyChainCache()
	}

	var archive storage.ObjectStorage
	if cfg.Storage.Enabled {
		minioClient, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		archive = minioClient
	}

	defaults := defaultParams(cfg.SupplyChain)
	uploadOpts := service.UploadOptionsFromConfig(cfg.App, cfg.Storage.Prefix)
	services := &api.Services{
		Upload:      service.NewUploadService(store, archive, supplyChainCache, uploadOpts, time.Now),
		SupplyChain: service.NewSupplyChainService(store, supplyChainCache, defaults, cfg.App.ProductsPerAnalysis, time.Now),
		Settings:    service.NewSettingsService(store, supplyChainCache, defaults),
		Forecast: service.NewForecastService(store, forecast.NewClient(cfg.Forecast.BaseURL, cfg.Forecast.Timeout),
			supplyChainCache, time.Now),
	}

	router := api.NewRouter(services, api.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxUploadBytes: uploadOpts.Limits.MaxFileSizeBytes,
	})
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func defaultParams(cfg config.SupplyChainConfig) supplychain.Params {
	return supplychain.Params{
		LeadTimeDays:          cfg.DefaultLeadTimeDays,
		MOQ:                   cfg.DefaultMOQ,
		SafetyStockMultiplier: cfg.DefaultSafetyStockMultiplier,
		StockoutWarningDays:   cfg.DefaultStockoutWarningDays,
	}.WithDefaults()
}
