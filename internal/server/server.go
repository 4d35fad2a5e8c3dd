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
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/friendsincode/weekweave/internal/auth"
	"github.com/friendsincode/weekweave/internal/config"
	"github.com/friendsincode/weekweave/internal/db"
	"github.com/friendsincode/weekweave/internal/schedule"
	"github.com/friendsincode/weekweave/internal/telemetry"
)

// Server bundles the HTTP API and its supporting services.
type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server

	db        *gorm.DB
	generator *schedule.Service
}

// New creates the server, connects the database, and wires the routes.
func New(cfg *config.Config, logger zerolog.Logger) (*Server, error) {
	database, err := db.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.Migrate(database); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	s := &Server{
		cfg:       cfg,
		logger:    logger.With().Str("component", "server").Logger(),
		router:    chi.NewRouter(),
		db:        database,
		generator: schedule.NewService(logger),
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(telemetry.MetricsMiddleware)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.configureRoutes()

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTPBind, cfg.HTTPPort),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// HTTPServer exposes the configured *http.Server for the serve command.
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// Router exposes the chi router, mainly for tests.
func (s *Server) Router() chi.Router {
	return s.router
}

// Close releases server resources.
func (s *Server) Close() error {
	return db.Close(s.db)
}

func (s *Server) configureRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	s.router.Handle("/metrics", telemetry.Handler())

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/token", s.handleToken)

		r.Group(func(r chi.Router) {
			if !s.cfg.AuthDisabled {
				r.Use(auth.Middleware(s.db, []byte(s.cfg.JWTSigningKey)))
			}

			r.Post("/schedule", s.handleGenerate)

			r.Route("/profiles", func(r chi.Router) {
				r.Get("/", s.handleProfilesList)
				r.Post("/", s.handleProfilesCreate)
				r.Get("/{id}", s.handleProfilesGet)
				r.Put("/{id}", s.handleProfilesUpdate)
				r.Delete("/{id}", s.handleProfilesDelete)
				r.Post("/{id}/schedule", s.handleProfileSchedule)
				r.Get("/{id}/schedule.ics", s.handleProfileICal)
			})
		})
	})
}

// requestLogger emits one structured line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("http request")
	})
}
