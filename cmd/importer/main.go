package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/Adriano-luizello/Profeta-sub001/internal/cache"
	"github.com/Adriano-luizello/Profeta-sub001/internal/config"
	"github.com/Adriano-luizello/Profeta-sub001/internal/csvadapter"
	"github.com/Adriano-luizello/Profeta-sub001/internal/drive"
	"github.com/Adriano-luizello/Profeta-sub001/internal/pipeline"
	"github.com/Adriano-luizello/Profeta-sub001/internal/repository/postgres"
	"github.com/Adriano-luizello/Profeta-sub001/internal/service"
	"github.com/Adriano-luizello/Profeta-sub001/pkg/logger"
)

// importer serves the Google Drive import API and, when DRIVE_FOLDER_ID is
// set, keeps that folder imported.
func main() {
	cfg := config.Load()
	logger.Setup(cfg.Server.LogLevel, cfg.Server.Mode)

	organizationID := os.Getenv("DRIVE_ORGANIZATION_ID")
	if organizationID == "" {
		logger.Log.Fatal().Msg("DRIVE_ORGANIZATION_ID is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	credentials, err := drive.Credentials(cfg.Drive)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to read Google Drive credentials")
	}
	driveService, err := drive.NewService(ctx, credentials)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize Google Drive service")
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	supplyChainCache, err := cache.NewSupplyChainCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, cache invalidation disabled")
		supplyChainCache = cache.NewNoopSupplyChainCache()
	}

	uploadService := service.NewUploadService(postgres.NewStore(db), nil, supplyChainCache,
		service.UploadOptionsFromConfig(cfg.App, cfg.Storage.Prefix), time.Now)

	pipelineCfg := pipeline.DefaultConfig(organizationID)
	pipelineCfg.WorkerCount = cfg.Pipeline.Workers
	pipelineCfg.ValueType = csvadapter.ValueType(cfg.App.DefaultValueType)
	runner := pipeline.NewRunner(uploadService, pipelineCfg)

	r := mux.NewRouter()
	drive.NewHandler(driveService, runner, cfg.Drive.FolderID).RegisterRoutes(r)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	if cfg.Drive.FolderID != "" {
		watcher := drive.NewWatcher(driveService, runner, cfg.Drive.FolderID, cfg.Drive.PollInterval)
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Log.Error().Err(err).Msg("Drive watcher stopped")
			}
		}()
	}

	srv := &http.Server{Addr: ":" + cfg.Drive.Port, Handler: r}
	go func() {
		logger.Log.Info().Str("port", cfg.Drive.Port).Msg("Importer starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("Failed to start importer")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Importer forced to shutdown")
	}
}
