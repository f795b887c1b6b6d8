package monitor

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/minirds/minirds/pkg/logger"
)

func TestHub_New(t *testing.T) {
	log := logger.New(logger.Config{Level: "info"})
	hub := NewHub(log)

	if hub == nil {
		t.Fatal("NewHub returned nil")
	}
}

func TestHub_Run(t *testing.T) {
	log := logger.New(logger.Config{Level: "info"})
	hub := NewHub(log)

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	go hub.Run(ctx)
	time.Sleep(50 * time.Millisecond)
	cancel()
	time.Sleep(50 * time.Millisecond)
}

func TestHub_Broadcast(t *testing.T) {
	log := logger.New(logger.Config{Level: "info"})
	hub := NewHub(log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go hub.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	hub.Broadcast(Event{Type: "test", Data: map[string]interface{}{"message": "hello"}})
	time.Sleep(50 * time.Millisecond)
}

func TestHub_BroadcastStationUpdate(t *testing.T) {
	log := logger.New(logger.Config{Level: "info"})
	hub := NewHub(log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go hub.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	hub.BroadcastStationUpdate(map[string]string{"ps": "HELLO   "})
	time.Sleep(50 * time.Millisecond)
}

func TestHub_Handler(t *testing.T) {
	log := logger.New(logger.Config{Level: "info"})
	hub := NewHub(log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	go hub.Run(ctx)
	time.Sleep(50 * time.Millisecond)

	handler := hub.Handler()
	server := httptest.NewServer(handler)
	defer server.Close()

	_ = "ws" + strings.TrimPrefix(server.URL, "http")

	if handler == nil {
		t.Fatal("handler is nil")
	}
}

func TestEvent_Marshal(t *testing.T) {
	event := Event{
		Type:      "station_update",
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"ps": "HELLO   ",
			"pi": "1ABC",
		},
	}

	data, err := event.Marshal()
	if err != nil {
		t.Fatalf("Failed to marshal event: %v", err)
	}
	if len(data) == 0 {
		t.Error("Marshaled data is empty")
	}
	if !strings.Contains(string(data), "station_update") {
		t.Error("Marshaled data doesn't contain event type")
	}
}
