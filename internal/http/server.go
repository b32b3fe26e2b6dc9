// Package http runs the HTTP servers of both binaries: health, readiness and metrics
// endpoints next to the application routes.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"songdeck/internal/core"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	config *core.ServerConfig
	logger *zap.Logger
	server *http.Server
}

// NewServer serves app below "/" next to /healthz, /readyz and /metrics.
func NewServer(config *core.ServerConfig, logger *zap.Logger, service string, metrics *Metrics, app http.Handler) *Server {
	router := setupRoutes(logger, service, metrics, app)

	return &Server{
		config: config,
		logger: logger,
		server: createHTTPServer(config, router),
	}
}

func setupRoutes(logger *zap.Logger, service string, metrics *Metrics, app http.Handler) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", statusHandler(logger, "ok", service)).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/readyz", statusHandler(logger, "ready", service)).Methods(http.MethodGet, http.MethodHead)
	router.Handle("/metrics", promhttp.HandlerFor(metrics.Gatherer(), promhttp.HandlerOpts{})).Methods(http.MethodGet)

	if app != nil {
		router.PathPrefix("/").Handler(app)
	}

	return router
}

func statusHandler(logger *zap.Logger, status, service string) http.HandlerFunc {
	body := fmt.Sprintf(`{"status":%q,"service":%q}`, status, service)
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(body)); err != nil {
			logger.Debug("Failed to write status response", zap.Error(err))
		}
	}
}

func createHTTPServer(config *core.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}
