package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/amaumene/moviarr/internal/api"
	"github.com/amaumene/moviarr/internal/config"
	"github.com/amaumene/moviarr/internal/controllers"
	"github.com/amaumene/moviarr/internal/models"
	"github.com/amaumene/moviarr/internal/services/omdb"
	"github.com/amaumene/moviarr/internal/services/tmdb"
	"github.com/amaumene/moviarr/internal/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger
	logger := utils.NewLogger(cfg.LogLevel)
	logger.Info("Starting Moviarr")
	logger.WithField("config_dir", filepath.Dir(cfg.DatabaseFile)).Info("Configuration loaded")

	// 3. Initialize database
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info("Database initialized")

	// 4. Initialize upstream clients
	tmdbClient, err := tmdb.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize TMDB client: %w", err)
	}
	logger.Info("TMDB client initialized")

	var omdbClient *omdb.Client
	if cfg.HasOMDB() {
		omdbClient, err = omdb.NewClient(cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize OMDb client: %w", err)
		}
		logger.Info("OMDb client initialized")
	} else {
		logger.Warn("OMDB_API_KEY not set, ratings lookups disabled")
	}

	// 5. Initialize controllers
	cache := controllers.NewMetadataCache(db, logger)
	provider := controllers.NewMetadataProvider(tmdbClient, omdbClient, logger)
	resolver := controllers.NewResolverController(cache, provider, logger)
	catalog := controllers.NewCatalogController(db, logger)
	logger.Info("Controllers initialized")

	// 6. Initialize HTTP server
	server := api.NewServer(cfg, db, catalog, resolver, tmdbClient, logger)

	// Start server in goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 7. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info("Moviarr is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.WithError(err).Error("Error during server shutdown")
		}
	}

	logger.Info("Moviarr stopped")
	return nil
}
