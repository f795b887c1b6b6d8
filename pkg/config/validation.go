package config

import (
	"fmt"
	"strconv"
)

// validate validates the configuration
func validate(cfg *Config) error {
	if len(cfg.Station.PI) != 4 {
		return fmt.Errorf("station.pi must be 4 hex digits")
	}
	if _, err := strconv.ParseUint(cfg.Station.PI, 16, 16); err != nil {
		return fmt.Errorf("station.pi: %w", err)
	}
	if cfg.Station.PTY < 0 || cfg.Station.PTY > 31 {
		return fmt.Errorf("station.pty must be between 0 and 31")
	}

	if cfg.Audio.OutputRate <= 0 {
		return fmt.Errorf("audio.output_rate must be positive")
	}
	if cfg.Audio.Volume < 0 || cfg.Audio.Volume > 100 {
		return fmt.Errorf("audio.volume must be between 0 and 100")
	}
	switch cfg.Audio.Sink {
	case "live":
	case "wav":
		if cfg.Audio.WAVPath == "" {
			return fmt.Errorf("audio.wav_path is required when audio.sink is \"wav\"")
		}
	default:
		return fmt.Errorf("audio.sink must be \"live\" or \"wav\", got %q", cfg.Audio.Sink)
	}

	if cfg.Control.PipePath == "" && cfg.Control.TCPAddr == "" {
		return fmt.Errorf("at least one of control.pipe_path or control.tcp_addr must be set")
	}

	if cfg.Web.Enabled {
		if cfg.Web.Port <= 0 || cfg.Web.Port > 65535 {
			return fmt.Errorf("web.port must be between 1 and 65535")
		}
	}

	if cfg.Notify.Enabled {
		if cfg.Notify.Broker == "" {
			return fmt.Errorf("notify.broker is required when notify is enabled")
		}
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Prometheus.Enabled {
		if cfg.Metrics.Prometheus.Port <= 0 || cfg.Metrics.Prometheus.Port > 65535 {
			return fmt.Errorf("metrics.prometheus.port must be between 1 and 65535")
		}
	}

	return nil
}
