/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/friendsincode/vidar_rotation/internal/api"
	"github.com/friendsincode/vidar_rotation/internal/board"
	"github.com/friendsincode/vidar_rotation/internal/config"
	"github.com/friendsincode/vidar_rotation/internal/logbuffer"
	"github.com/friendsincode/vidar_rotation/internal/report"
	"github.com/friendsincode/vidar_rotation/internal/rotation"
	"github.com/friendsincode/vidar_rotation/internal/telemetry"
)

// Server bundles the HTTP surface and supporting services.
type Server struct {
	cfg    *config.Config
	logger zerolog.Logger
	router chi.Router

	board    *board.Service
	renderer *report.Renderer
	api      *api.API

	httpServer    *http.Server
	metricsServer *http.Server
}

// New constructs the server and wires dependencies. logBuf may be nil
// when log capture is not wanted, e.g. in tests.
func New(cfg *config.Config, logBuf *logbuffer.Buffer, logger zerolog.Logger) (*Server, error) {
	layout := rotation.DefaultLayout()
	if cfg.LayoutPath != "" {
		loaded, err := rotation.LoadLayout(cfg.LayoutPath)
		if err != nil {
			return nil, fmt.Errorf("load layout: %w", err)
		}
		layout = loaded
		logger.Info().Str("path", cfg.LayoutPath).Int("lines", len(layout.Lines)).Msg("plant layout loaded")
	}

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(securityHeadersMiddleware)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "PUT", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(telemetry.TracingMiddleware("vidar-rotation-api"))
	router.Use(telemetry.MetricsMiddleware)
	router.Use(middleware.Timeout(60 * time.Second))

	boardSvc := board.NewService(layout, logger)
	renderer := report.NewRenderer(layout, logger)

	srv := &Server{
		cfg:      cfg,
		logger:   logger,
		router:   router,
		board:    boardSvc,
		renderer: renderer,
		api:      api.New(boardSvc, renderer, logBuf, logger),
	}

	srv.configureRoutes()

	srv.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort),
		Handler:           srv.router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", telemetry.Handler())
	srv.metricsServer = &http.Server{
		Addr:              cfg.MetricsBind,
		Handler:           metricsMux,
		ReadHeaderTimeout: 15 * time.Second,
	}

	return srv, nil
}

func securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

func (s *Server) configureRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	s.api.Routes(s.router)
}

// HTTPServer returns the configured API server.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// MetricsServer returns the metrics listener.
func (s *Server) MetricsServer() *http.Server {
	return s.metricsServer
}

// Router returns the chi router, exposed for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Board returns the board service.
func (s *Server) Board() *board.Service {
	return s.board
}
