package monitor

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/minirds/minirds/pkg/config"
	"github.com/minirds/minirds/pkg/logger"
	"github.com/minirds/minirds/pkg/metrics"
	"github.com/minirds/minirds/pkg/station"
)

func TestServer_New(t *testing.T) {
	cfg := config.WebConfig{Enabled: true, Host: "localhost", Port: 8080}
	log := logger.New(logger.Config{Level: "info"})
	srv := NewServer(cfg, station.New(), metrics.NewCollector(), log)

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.config.Port != 8080 {
		t.Errorf("Expected port 8080, got %d", srv.config.Port)
	}
}

func TestServer_StartStop(t *testing.T) {
	cfg := config.WebConfig{Enabled: true, Host: "localhost", Port: 0}
	log := logger.New(logger.Config{Level: "info"})
	srv := NewServer(cfg, station.New(), metrics.NewCollector(), log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start(ctx)
	}()

	time.Sleep(100 * time.Millisecond)
	cancel()

	err := <-errChan
	if err != nil && err != context.Canceled {
		t.Errorf("unexpected error from server: %v", err)
	}
}

func TestServer_Disabled(t *testing.T) {
	cfg := config.WebConfig{Enabled: false}
	log := logger.New(logger.Config{Level: "info"})
	srv := NewServer(cfg, station.New(), metrics.NewCollector(), log)

	err := srv.Start(context.Background())
	if err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestServer_HandleHealth(t *testing.T) {
	cfg := config.WebConfig{Enabled: true, Host: "localhost", Port: 0}
	log := logger.New(logger.Config{Level: "info"})
	srv := NewServer(cfg, station.New(), metrics.NewCollector(), log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go srv.Start(ctx)
	time.Sleep(100 * time.Millisecond)

	if srv.Addr() == "" {
		t.Fatal("expected non-empty listen address")
	}

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}
