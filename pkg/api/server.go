// Package api serves STDF decoding and the record index over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router builds the HTTP handler. gatherer backs /metrics; nil omits it.
func (s *Server) Router(gatherer prometheus.Gatherer) http.Handler {
	m := s.metrics
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.sugar))
	r.Use(middleware.Recoverer)

	origins := s.config.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(apiKeyMiddleware(s.config.APIKey, m))

		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))
		r.Get("/types", m.InstrumentHandler("GET", "/api/v1/types", s.handleTypes))

		// Codec
		r.Post("/decode", m.InstrumentHandler("POST", "/api/v1/decode", s.handleDecode))
		r.Post("/encode", m.InstrumentHandler("POST", "/api/v1/encode", s.handleEncode))

		// Index
		r.Get("/files", m.InstrumentHandler("GET", "/api/v1/files", s.handleListFiles))
		r.Post("/files", m.InstrumentHandler("POST", "/api/v1/files", s.handleAddFile))
		r.Get("/files/{id}", m.InstrumentHandler("GET", "/api/v1/files/{id}", s.handleGetFile))
		r.Delete("/files/{id}", m.InstrumentHandler("DELETE", "/api/v1/files/{id}", s.handleDeleteFile))
		r.Get("/files/{id}/records/{type}",
			m.InstrumentHandler("GET", "/api/v1/files/{id}/records/{type}", s.handleListEntries))
		r.Get("/files/{id}/records/{type}/{seq}",
			m.InstrumentHandler("GET", "/api/v1/files/{id}/records/{type}/{seq}", s.handleGetRecord))
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, gatherer prometheus.Gatherer) error {
	addr := fmt.Sprintf("%s:%d", s.config.Bind, s.config.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(gatherer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.sugar.Infow("starting STDF API server", "addr", addr, "auth", s.config.APIKey != "")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.sugar.Infow("shutting down STDF API server", "addr", addr)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
