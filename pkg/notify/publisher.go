// Package notify publishes station-state change events to an
// MQTT-style broker. The wire connection itself is a stub — adding a
// real client is future work — so it is safe to enable unconditionally
// without a broker present; publish calls degrade to structured log
// lines.
package notify

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/minirds/minirds/pkg/logger"
)

// Config holds event publisher configuration
type Config struct {
	Enabled     bool
	Broker      string
	TopicPrefix string
	ClientID    string
}

// Publisher handles MiniRDS station event publishing.
type Publisher struct {
	config Config
	log    *logger.Logger
}

// StationChangeEvent represents any Program Information Store field
// having been updated by an accepted control command.
type StationChangeEvent struct {
	Field     string    `json:"field"`
	Value     string    `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// CommandRejectedEvent represents a control command the dispatcher
// refused to apply.
type CommandRejectedEvent struct {
	Command   string    `json:"command"`
	Arg       string    `json:"arg"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// New creates a new event publisher
func New(config Config, log *logger.Logger) *Publisher {
	if log == nil {
		log = logger.New(logger.Config{Level: "info", Format: "text"})
	}

	return &Publisher{
		config: config,
		log:    log.WithComponent("notify"),
	}
}

// Start starts the publisher.
func (p *Publisher) Start() error {
	if !p.config.Enabled {
		p.log.Info("notify: publisher disabled")
		return nil
	}

	p.log.Info("notify: starting publisher",
		logger.String("broker", p.config.Broker),
		logger.String("client_id", p.config.ClientID))

	// TODO: open an actual MQTT connection once a wire client is added
	p.log.Warn("notify: broker connection not yet implemented, events will only be logged")

	return nil
}

// Stop stops the publisher.
func (p *Publisher) Stop() {
	if !p.config.Enabled {
		return
	}
	p.log.Info("notify: stopping publisher")
}

// PublishStationChange publishes a Program Information Store field
// change.
func (p *Publisher) PublishStationChange(event StationChangeEvent) error {
	if !p.config.Enabled {
		return nil
	}
	return p.publish(p.formatTopic("station/change"), event)
}

// PublishCommandRejected publishes a rejected control command.
func (p *Publisher) PublishCommandRejected(event CommandRejectedEvent) error {
	if !p.config.Enabled {
		return nil
	}
	return p.publish(p.formatTopic("command/rejected"), event)
}

func (p *Publisher) publish(topic string, event interface{}) error {
	payload, err := p.serializeEvent(event)
	if err != nil {
		p.log.Error("notify: failed to serialize event", logger.String("topic", topic), logger.Error(err))
		return err
	}

	// TODO: publish over the real broker connection once added
	p.log.Debug("notify: would publish event", logger.String("topic", topic), logger.Int("payload_size", len(payload)))

	return nil
}

func (p *Publisher) serializeEvent(event interface{}) ([]byte, error) {
	return json.Marshal(event)
}

func (p *Publisher) formatTopic(suffix string) string {
	prefix := strings.TrimSuffix(p.config.TopicPrefix, "/")
	if prefix == "" {
		return suffix
	}
	return fmt.Sprintf("%s/%s", prefix, suffix)
}
