package metrics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/minirds/minirds/pkg/logger"
)

// PrometheusConfig holds Prometheus server configuration
type PrometheusConfig struct {
	Enabled bool
	Port    int
	Path    string
}

// PrometheusHandler handles Prometheus metrics HTTP requests
type PrometheusHandler struct {
	collector *Collector
}

// NewPrometheusHandler creates a new Prometheus handler
func NewPrometheusHandler(collector *Collector) *PrometheusHandler {
	return &PrometheusHandler{
		collector: collector,
	}
}

// ServeHTTP handles HTTP requests for metrics
func (h *PrometheusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	var output strings.Builder

	output.WriteString("# HELP minirds_samples_generated_total Total MPX samples generated\n")
	output.WriteString("# TYPE minirds_samples_generated_total counter\n")
	output.WriteString(fmt.Sprintf("minirds_samples_generated_total %d\n", h.collector.GetSamplesGenerated()))

	output.WriteString("# HELP minirds_samples_clipped_total Total MPX samples that clipped to the output rail\n")
	output.WriteString("# TYPE minirds_samples_clipped_total counter\n")
	output.WriteString(fmt.Sprintf("minirds_samples_clipped_total %d\n", h.collector.GetSamplesClipped()))

	output.WriteString("# HELP minirds_groups_emitted_total RDS groups emitted, by type\n")
	output.WriteString("# TYPE minirds_groups_emitted_total counter\n")
	for groupType, count := range h.collector.GetGroupsByType() {
		output.WriteString(fmt.Sprintf("minirds_groups_emitted_total{type=%q} %d\n", groupType, count))
	}

	output.WriteString("# HELP minirds_commands_applied_total Control commands successfully applied\n")
	output.WriteString("# TYPE minirds_commands_applied_total counter\n")
	output.WriteString(fmt.Sprintf("minirds_commands_applied_total %d\n", h.collector.GetCommandsApplied()))

	output.WriteString("# HELP minirds_commands_rejected_total Control commands rejected\n")
	output.WriteString("# TYPE minirds_commands_rejected_total counter\n")
	output.WriteString(fmt.Sprintf("minirds_commands_rejected_total %d\n", h.collector.GetCommandsRejected()))

	output.WriteString("# HELP minirds_sink_writes_total PCM frame writes to the active sink\n")
	output.WriteString("# TYPE minirds_sink_writes_total counter\n")
	output.WriteString(fmt.Sprintf("minirds_sink_writes_total %d\n", h.collector.GetSinkWrites()))

	output.WriteString("# HELP minirds_sink_bytes_total PCM bytes written to the active sink\n")
	output.WriteString("# TYPE minirds_sink_bytes_total counter\n")
	output.WriteString(fmt.Sprintf("minirds_sink_bytes_total %d\n", h.collector.GetSinkBytes()))

	output.WriteString("# HELP minirds_sink_errors_total Sink write errors\n")
	output.WriteString("# TYPE minirds_sink_errors_total counter\n")
	output.WriteString(fmt.Sprintf("minirds_sink_errors_total %d\n", h.collector.GetSinkErrors()))

	output.WriteString("# HELP minirds_volume_percent Current master volume\n")
	output.WriteString("# TYPE minirds_volume_percent gauge\n")
	output.WriteString(fmt.Sprintf("minirds_volume_percent %d\n", h.collector.GetVolume()))

	w.Write([]byte(output.String()))
}

// PrometheusServer is an HTTP server for Prometheus metrics
type PrometheusServer struct {
	config    PrometheusConfig
	collector *Collector
	log       *logger.Logger
	server    *http.Server
}

// NewPrometheusServer creates a new Prometheus metrics server
func NewPrometheusServer(config PrometheusConfig, collector *Collector, log *logger.Logger) *PrometheusServer {
	if log == nil {
		log = logger.New(logger.Config{Level: "info", Format: "text"})
	}

	return &PrometheusServer{
		config:    config,
		collector: collector,
		log:       log.WithComponent("metrics"),
	}
}

// Start starts the Prometheus metrics server
func (s *PrometheusServer) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.log.Info("Prometheus metrics server disabled")
		return nil
	}

	handler := NewPrometheusHandler(s.collector)
	mux := http.NewServeMux()
	mux.Handle(s.config.Path, handler)

	addr := fmt.Sprintf(":%d", s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	actualPort := listener.Addr().(*net.TCPAddr).Port

	s.server = &http.Server{
		Handler: mux,
	}

	s.log.Info("Starting Prometheus metrics server",
		logger.Int("port", actualPort),
		logger.String("path", s.config.Path))

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info("Shutting down Prometheus metrics server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown error: %w", err)
		}
		return ctx.Err()
	case err := <-errChan:
		return err
	}
}

// Stop stops the Prometheus metrics server
func (s *PrometheusServer) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(ctx)
	}
}
