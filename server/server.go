// Package server exposes statement rendering over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/aerissecure/statement"
	"github.com/aerissecure/statement/workbook"
)

const defaultShutdownTimeout = 10 * time.Second

// WebAPI serves the statement HTTP API.
type WebAPI struct {
	router *chi.Mux
	logger *zerolog.Logger
	server *http.Server

	shutdownTimeout time.Duration
}

// Config configures a WebAPI.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	Engine          workbook.Engine
	Renderer        statement.Renderer
	Company         string // used when a request leaves company empty
}

// NewWebAPI builds the router and server for config.
func NewWebAPI(logger zerolog.Logger, config Config) *WebAPI {
	h := NewHandler(config.Renderer, config.Engine, config.Company)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(Logger(&logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/statements", h.ListStatements)
		r.Post("/statements/{kind}", h.RenderStatement)
		r.Post("/statements/{kind}/preview", h.PreviewStatement)
	})

	timeout := config.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	return &WebAPI{
		router: router,
		logger: &logger,
		server: &http.Server{
			Addr:              config.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		shutdownTimeout: timeout,
	}
}

// Handler returns the routed handler, for tests and embedding.
func (w *WebAPI) Handler() http.Handler { return w.router }

// Start serves until ctx is done, then shuts down gracefully.
func (w *WebAPI) Start(ctx context.Context) error {
	serverErrors := make(chan error, 1)

	go func() {
		w.logger.Info().Str("addr", w.server.Addr).Msg("starting server")
		serverErrors <- w.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		w.logger.Info().Msg("shutdown initiated")

		// Give outstanding requests a deadline for completion.
		sctx, cancel := context.WithTimeout(context.Background(), w.shutdownTimeout)
		defer cancel()

		err := w.server.Shutdown(sctx)
		if err != nil {
			w.logger.Error().Err(err).Msg("graceful shutdown failed")
			err = w.server.Close()
		}
		return err
	}
}
