package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/minirds/minirds/pkg/config"
	"github.com/minirds/minirds/pkg/logger"
	"github.com/minirds/minirds/pkg/metrics"
	"github.com/minirds/minirds/pkg/station"
)

// Server is the monitoring dashboard's HTTP server: a REST snapshot
// of station state and metrics, plus a WebSocket feed of live events.
type Server struct {
	config config.WebConfig
	logger *logger.Logger
	server *http.Server
	hub    *Hub
	api    *API
	addr   string
	mu     sync.RWMutex
}

// NewServer creates a new monitor server instance.
func NewServer(cfg config.WebConfig, store *station.Store, coll *metrics.Collector, log *logger.Logger) *Server {
	return &Server{
		config: cfg,
		logger: log,
		hub:    NewHub(log),
		api:    NewAPI(store, coll, log),
	}
}

// Start starts the monitor server, serving until ctx is canceled.
func Start(ctx context.Context, cfg config.WebConfig, store *station.Store, coll *metrics.Collector, log *logger.Logger) error {
	srv := NewServer(cfg, store, coll, log)
	return srv.Start(ctx)
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.logger.Info("monitor: server disabled")
		return nil
	}

	go s.hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.api.HandleStatus)
	mux.HandleFunc("/api/station", s.api.HandleStation)
	mux.HandleFunc("/api/metrics", s.api.HandleMetrics)
	mux.Handle("/ws", s.hub.Handler())

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.mu.Lock()
	s.addr = listener.Addr().String()
	s.mu.Unlock()

	s.logger.Info("monitor: starting server", logger.String("address", s.addr))

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("monitor: shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("monitor: shutdown error: %w", err)
		}
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

// Addr returns the address the server is listening on.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Hub returns the WebSocket hub, so callers (the control dispatcher)
// can push station/command events to connected clients.
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "minirds",
		"time":    time.Now().Unix(),
	}); err != nil {
		s.logger.Warn("monitor: failed to encode health response", logger.Error(err))
	}
}
