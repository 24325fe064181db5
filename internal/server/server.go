// Package server exposes the watchlist dashboard API: health, watchlist
// CRUD with a CSV export, and the latest scan summary. JSON in and out,
// local-only CORS, graceful shutdown.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"sweepscan/internal/watchlist"
)

// Config holds the HTTP server knobs.
type Config struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// DefaultConfig binds to localhost only.
func DefaultConfig() Config {
	return Config{
		Addr:           "127.0.0.1:8080",
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		RequestTimeout: 5 * time.Second,
	}
}

// Server is the dashboard HTTP server.
type Server struct {
	config  Config
	router  *mux.Router
	handler http.Handler
	server  *http.Server

	store *watchlist.Store
	// summaryPath is the JSON summary the scan pipeline writes; the
	// summary endpoint re-reads it on every request.
	summaryPath string
	started     time.Time
}

func New(config Config, store *watchlist.Store, summaryPath string) *Server {
	if config.Addr == "" {
		config.Addr = DefaultConfig().Addr
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultConfig().RequestTimeout
	}
	s := &Server{
		config:      config,
		router:      mux.NewRouter(),
		store:       store,
		summaryPath: summaryPath,
		started:     time.Now(),
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      s.handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	// The CSV export writes its own content type, everything else is JSON.
	s.router.HandleFunc("/watchlist/export", s.handleExportCSV).Methods("GET")

	api := s.router.PathPrefix("/").Subrouter()
	api.Use(s.jsonContentTypeMiddleware)
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/watchlist", s.handleListWatchlist).Methods("GET")
	api.HandleFunc("/watchlist", s.handleUpsertWatchlist).Methods("POST", "PUT")
	api.HandleFunc("/watchlist/{symbol}", s.handleDeleteWatchlist).Methods("DELETE")
	api.HandleFunc("/scan/summary", s.handleScanSummary).Methods("GET")

	s.router.NotFoundHandler = s.jsonContentTypeMiddleware(http.HandlerFunc(s.handleNotFound))

	// The chain wraps the router itself so CORS preflights and unknown
	// routes see the same middleware as matched routes.
	s.handler = s.requestIDMiddleware(s.loggingMiddleware(s.timeoutMiddleware(s.corsMiddleware(s.router))))
}

// Handler exposes the full middleware chain for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until Shutdown or a listener error.
func (s *Server) Start() error {
	slog.Info("dashboard listening", "addr", s.config.Addr)
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("dashboard shutting down")
	return s.server.Shutdown(ctx)
}
