package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/gorilla/mux"

	"github.com/catalogd/catalogd/internal/config"
	"github.com/catalogd/catalogd/internal/handlers"
)

type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handlers   *handlers.Handlers
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handlers) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if h == nil {
		return nil, fmt.Errorf("handlers are required")
	}

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		handlers: h,
	}

	s.httpServer = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	return s, nil
}

// Handler returns the full HTTP handler, CORS included. Requests are traced when sentry is configured.
func (s *Server) Handler() http.Handler {
	handler := s.handlers.CORS(s.buildRouter())
	if s.cfg.SentryDSN == "" {
		return handler
	}
	return sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle(handler)
}

func (s *Server) Run() error {
	s.logger.Info("server starting", "port", s.cfg.Port, "catalog_source", s.cfg.CatalogSource)

	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Close(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return nil
	}

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) buildRouter() *mux.Router {
	h := s.handlers

	r := mux.NewRouter()
	r.Use(h.RequestLogger)
	r.Use(h.SecurityHeaders)
	r.Use(h.MetricsContext)
	r.HandleFunc("/health", h.Health).Methods("GET").Name("health")
	r.HandleFunc("/api-docs", h.APIDocs).Methods("GET").Name("docs.yaml")
	r.HandleFunc("/api-docs/openapi.json", h.APIDocsJSON).Methods("GET").Name("docs.json")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", h.ListProducts).Methods("GET").Name("products.list")
	// An empty slug reaches GetProduct so it is rejected as invalid rather than unrouted.
	api.HandleFunc("/products/", h.GetProduct).Methods("GET").Name("products.get.empty")
	api.HandleFunc("/products/{slug}", h.GetProduct).Methods("GET").Name("products.get")
	api.HandleFunc("/products/{slug}/view", h.GetProductView).Methods("GET").Name("products.view")

	// 404 handler - must be last
	r.NotFoundHandler = s.fallback(http.HandlerFunc(h.NotFound))
	r.MethodNotAllowedHandler = s.fallback(http.HandlerFunc(h.NotFound))

	return r
}

// fallback applies the router middleware to handlers mux calls without a matched route.
func (s *Server) fallback(next http.Handler) http.Handler {
	return s.handlers.RequestLogger(s.handlers.SecurityHeaders(next))
}
