package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config represents the complete MiniRDS application configuration.
// Persisted state is out of scope: Load reads a file only if one
// happens to exist at the given path or the default search path, and
// every value can also be supplied purely via MINIRDS_* env vars or
// left at its default, so a config file is always optional.
type Config struct {
	Station StationConfig `mapstructure:"station"`
	Audio   AudioConfig   `mapstructure:"audio"`
	Control ControlConfig `mapstructure:"control"`
	Web     WebConfig     `mapstructure:"web"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// StationConfig seeds the Program Information Store at startup.
type StationConfig struct {
	PI  string `mapstructure:"pi"` // 4 hex digits, e.g. "1ABC"
	PS  string `mapstructure:"ps"`
	// PSScroll, when non-empty, is cycled through the PS window by
	// pkg/pscroll instead of the static PS above.
	PSScroll string `mapstructure:"ps_scroll"`
	RT       string `mapstructure:"rt"`
	PTY      int    `mapstructure:"pty"`
}

// AudioConfig controls the generator's output sample rate, master
// volume and sink.
type AudioConfig struct {
	OutputRate int    `mapstructure:"output_rate"` // Hz, resampler target
	Volume     int    `mapstructure:"volume"`      // 0..100
	Sink       string `mapstructure:"sink"`        // "live" or "wav"
	WAVPath    string `mapstructure:"wav_path"`    // required when sink == "wav"
}

// ControlConfig selects the transport the ASCII command grammar
// arrives over. Either or both may be enabled.
type ControlConfig struct {
	PipePath string `mapstructure:"pipe_path"` // named pipe / FIFO path, empty disables
	TCPAddr  string `mapstructure:"tcp_addr"`  // e.g. ":8750", empty disables
}

// WebConfig holds the monitoring dashboard configuration
type WebConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// NotifyConfig holds the MQTT-style event publisher configuration
type NotifyConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	ClientID    string `mapstructure:"client_id"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	Enabled    bool             `mapstructure:"enabled"`
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig holds Prometheus metrics server configuration
type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// Load loads configuration from file and environment variables
func Load(configFile string) (*Config, error) {
	setDefaults()

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath("/etc/minirds")
	}

	viper.SetEnvPrefix("MINIRDS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// no config file is the common case, defaults + env apply
		} else if os.IsNotExist(err) {
			// explicitly named file that doesn't exist is also fine
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("station.pi", "1000")
	viper.SetDefault("station.ps", "MINIRDS")
	viper.SetDefault("station.ps_scroll", "")
	viper.SetDefault("station.rt", "MiniRDS: Software RDS encoder")
	viper.SetDefault("station.pty", 0)

	viper.SetDefault("audio.output_rate", 192000)
	viper.SetDefault("audio.volume", 100)
	viper.SetDefault("audio.sink", "live")

	viper.SetDefault("control.pipe_path", "")
	viper.SetDefault("control.tcp_addr", "127.0.0.1:8750")

	viper.SetDefault("web.enabled", true)
	viper.SetDefault("web.host", "0.0.0.0")
	viper.SetDefault("web.port", 8080)

	viper.SetDefault("notify.enabled", false)
	viper.SetDefault("notify.topic_prefix", "minirds")
	viper.SetDefault("notify.client_id", "minirds")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "")

	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.prometheus.enabled", true)
	viper.SetDefault("metrics.prometheus.port", 9090)
	viper.SetDefault("metrics.prometheus.path", "/metrics")
}
