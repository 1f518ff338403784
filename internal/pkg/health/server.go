// Package health exposes the pipeline's operational HTTP surface:
// liveness, Prometheus scraping, a JSON stats snapshot, and a websocket
// tail of delivery decisions. Grounded on the teacher's
// internal/pkg/health/server.go lifecycle (mux construction, graceful
// shutdown on context cancellation), with the router swapped to chi per
// XavierBriggs-Services' HTTP services.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the admin/ops HTTP server.
type Server struct {
	addr  string
	stats *Stats
	hub   *liveHub
	log   *slog.Logger
}

// New constructs a Server bound to addr, surfacing stats and fanning
// delivery events out over /live.
func New(addr string, stats *Stats, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{addr: addr, stats: stats, hub: newLiveHub(log), log: log}
}

// Notify broadcasts a delivery decision to connected /live clients.
func (s *Server) Notify(event DeliveryEvent) {
	s.hub.broadcast(event)
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET"},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(s.stats.Snapshot())
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/live", s.hub.serveHTTP)

	return r
}

// Run starts the server and blocks until ctx is cancelled, at which
// point it shuts down with a bounded grace period.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("health: listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("health: graceful shutdown failed", "error", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}
