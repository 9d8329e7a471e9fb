// Package daemon exposes the local HTTP ingest service the browser
// extension pushes tab and window events to.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"tabtime/internal/browser"
	"tabtime/internal/config"
)

// Batch is the request body of POST /events: host events in arrival order.
type Batch struct {
	Events []browser.Event `json:"events"`
}

// Dispatcher consumes host events in order. Satisfied by browser.Adapter.
type Dispatcher interface {
	Dispatch(ev browser.Event)
}

// Server receives event batches from the extension, folds them into the
// tab registry, and dispatches them to the adapter in order.
type Server struct {
	cfg      config.DaemonConfig
	registry *browser.Registry
	adapter  Dispatcher
	logger   *slog.Logger
}

// New creates a Server. A nil logger disables logging.
func New(cfg config.DaemonConfig, registry *browser.Registry, adapter Dispatcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{cfg: cfg, registry: registry, adapter: adapter, logger: logger}
}

// Handler returns the HTTP handler for the ingest surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", s.handleEvents)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("ingest daemon listening", slog.String("addr", srv.Addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit := int64(s.cfg.MaxRequestSize)
	if limit <= 0 {
		limit = 1 << 20
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var batch Batch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	// Registry state must be current before the adapter resolves the
	// event, so apply first and dispatch second, per event.
	for _, ev := range batch.Events {
		s.registry.Apply(ev)
		s.adapter.Dispatch(ev)
	}

	s.logger.Debug("accepted events", slog.Int("count", len(batch.Events)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]int{"accepted": len(batch.Events)}) //nolint:errcheck
}

// authorized checks the bearer token when one is configured.
func (s *Server) authorized(r *http.Request) bool {
	if s.cfg.AuthToken == "" {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+s.cfg.AuthToken
}
