package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/amaumene/moviarr/internal/api/handlers"
	"github.com/amaumene/moviarr/internal/api/middleware"
	"github.com/amaumene/moviarr/internal/config"
	"github.com/amaumene/moviarr/internal/controllers"
	"github.com/amaumene/moviarr/internal/models"
	"github.com/amaumene/moviarr/internal/services/tmdb"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	db *models.Database,
	catalog *controllers.CatalogController,
	resolver *controllers.ResolverController,
	tmdbClient *tmdb.Client,
	logger *logrus.Logger,
) *Server {
	s := &Server{logger: logger}

	router := mux.NewRouter()
	s.setupRoutes(router, db, catalog, resolver, tmdbClient)
	router.Use(middleware.Logging(logger))

	s.server = &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // list resolution fetches sequentially
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(
	router *mux.Router,
	db *models.Database,
	catalog *controllers.CatalogController,
	resolver *controllers.ResolverController,
	tmdbClient *tmdb.Client,
) {
	healthHandler := handlers.NewHealthHandler(s.logger)
	router.HandleFunc("/health", healthHandler.ServeHTTP).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/version", healthHandler.Version).Methods(http.MethodGet)

	listsHandler := handlers.NewListsHandler(catalog, resolver, s.logger)
	api.HandleFunc("/lists", listsHandler.Index).Methods(http.MethodGet)
	api.HandleFunc("/lists", listsHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/lists/{listId}", listsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/lists/{listId}", listsHandler.Update).Methods(http.MethodPatch)
	api.HandleFunc("/lists/{listId}", listsHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/lists/{listId}/entries", listsHandler.AddEntry).Methods(http.MethodPost)
	api.HandleFunc("/lists/{listId}/entries/{tmdbId}", listsHandler.RemoveEntry).Methods(http.MethodDelete)
	api.HandleFunc("/lists/{listId}/entries/{tmdbId}/toggle", listsHandler.ToggleEntry).Methods(http.MethodPost)
	api.HandleFunc("/lists/{listId}/import", listsHandler.Import).Methods(http.MethodPost)
	api.HandleFunc("/lists/{listId}/export", listsHandler.Export).Methods(http.MethodGet)
	api.HandleFunc("/lists/{listId}/movies", listsHandler.Movies).Methods(http.MethodGet)

	moviesHandler := handlers.NewMoviesHandler(resolver, tmdbClient, s.logger)
	api.HandleFunc("/movies/{tmdbId}", moviesHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/search", moviesHandler.Search).Methods(http.MethodGet)

	settingsHandler := handlers.NewSettingsHandler(db, s.logger)
	api.HandleFunc("/settings", settingsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/settings", settingsHandler.Put).Methods(http.MethodPut)
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.server.Addr).Info("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}
