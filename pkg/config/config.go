package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"time"

	"github.com/goliatone/go-config/cfgx"
)

// Config captures application-level configuration knobs.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" json:"server"`
	Persistence PersistenceConfig `mapstructure:"persistence" json:"persistence"`
	Realtime    RealtimeConfig    `mapstructure:"realtime" json:"realtime"`
	Dispatcher  DispatcherConfig  `mapstructure:"dispatcher" json:"dispatcher"`
	Sink        SinkConfig        `mapstructure:"sink" json:"sink"`
	Features    FeatureFlags      `mapstructure:"features" json:"features"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host string `mapstructure:"host" json:"host"`
	Port string `mapstructure:"port" json:"port"`
}

// PersistenceConfig configures the database connection.
type PersistenceConfig struct {
	Driver string `mapstructure:"driver" json:"driver"`
	DSN    string `mapstructure:"dsn" json:"dsn"`
}

// RealtimeConfig controls the WebSocket hub.
type RealtimeConfig struct {
	Enabled bool `mapstructure:"enabled" json:"enabled"`
}

// DispatcherConfig controls the fan-out core.
type DispatcherConfig struct {
	Locale       string        `mapstructure:"locale" json:"locale"`
	StoreTimeout time.Duration `mapstructure:"store_timeout" json:"store_timeout"`
	SinkTimeout  time.Duration `mapstructure:"sink_timeout" json:"sink_timeout"`
}

// SinkConfig points at the secondary notification service. An empty URL
// disables the outbound delivery.
type SinkConfig struct {
	URL     string        `mapstructure:"url" json:"url"`
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// FeatureFlags enables/disables optional behavior.
type FeatureFlags struct {
	Seed bool `mapstructure:"seed" json:"seed"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "5000",
		},
		Persistence: PersistenceConfig{
			Driver: "sqlite",
			DSN:    "file:taskboard.db",
		},
		Realtime: RealtimeConfig{Enabled: true},
		Dispatcher: DispatcherConfig{
			Locale:       "es",
			StoreTimeout: 5 * time.Second,
			SinkTimeout:  5 * time.Second,
		},
		Sink: SinkConfig{
			URL:     "",
			Timeout: 5 * time.Second,
		},
		Features: FeatureFlags{Seed: false},
	}
}

// Validate ensures required fields are present and sane.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Persistence.Driver != "" && c.Persistence.Driver != "sqlite" {
		return fmt.Errorf("persistence.driver %q is not supported", c.Persistence.Driver)
	}
	if c.Dispatcher.StoreTimeout < 0 {
		return errors.New("dispatcher.store_timeout must be >= 0")
	}
	if c.Dispatcher.SinkTimeout < 0 {
		return errors.New("dispatcher.sink_timeout must be >= 0")
	}
	return nil
}

// Load decodes arbitrary input (struct, map) using cfgx helpers, falling back
// to a lightweight JSON decode when cfgx yields a zero value, then applies
// defaults and validates.
func Load(input any, opts ...LoadOption) (Config, error) {
	settings := loadOptions{}
	for _, opt := range opts {
		opt(&settings)
	}

	cfg, err := cfgx.Build(input, settings.buildOpts...)
	if err != nil {
		return Config{}, err
	}

	if isZero(cfg) {
		if err := decodeFallback(input, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOption lets callers amend cfgx build options.
type LoadOption func(*loadOptions)

type loadOptions struct {
	buildOpts []cfgx.Option[Config]
}

// WithBuildOptions forwards cfgx options (duration hooks, preprocessors, etc.).
func WithBuildOptions(opts ...cfgx.Option[Config]) LoadOption {
	return func(lo *loadOptions) {
		lo.buildOpts = append(lo.buildOpts, opts...)
	}
}

// FromEnv builds the runtime configuration from defaults plus environment
// overrides, the shape the server binary consumes.
func FromEnv() (Config, error) {
	cfg := Defaults()
	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if host := os.Getenv("HOST"); host != "" {
		cfg.Server.Host = host
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Persistence.DSN = dsn
	}
	if url := os.Getenv("NOTIFICATION_SERVICE_URL"); url != "" {
		cfg.Sink.URL = url
	}
	if locale := os.Getenv("NOTIFICATION_LOCALE"); locale != "" {
		cfg.Dispatcher.Locale = locale
	}
	if os.Getenv("SEED_DATA") == "true" {
		cfg.Features.Seed = true
	}
	return Load(cfg)
}

func (c Config) withDefaults() Config {
	defaults := Defaults()

	if c.Server.Host == "" {
		c.Server.Host = defaults.Server.Host
	}
	if c.Server.Port == "" {
		c.Server.Port = defaults.Server.Port
	}
	if c.Persistence.Driver == "" {
		c.Persistence.Driver = defaults.Persistence.Driver
	}
	if c.Persistence.DSN == "" {
		c.Persistence.DSN = defaults.Persistence.DSN
	}
	if c.Dispatcher.Locale == "" {
		c.Dispatcher.Locale = defaults.Dispatcher.Locale
	}
	if c.Dispatcher.StoreTimeout == 0 {
		c.Dispatcher.StoreTimeout = defaults.Dispatcher.StoreTimeout
	}
	if c.Dispatcher.SinkTimeout == 0 {
		c.Dispatcher.SinkTimeout = defaults.Dispatcher.SinkTimeout
	}
	if c.Sink.Timeout == 0 {
		c.Sink.Timeout = defaults.Sink.Timeout
	}
	return c
}

func isZero(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}

func decodeFallback(input any, cfg *Config) error {
	switch v := input.(type) {
	case nil:
		return nil
	case Config:
		*cfg = v
		return nil
	case *Config:
		if v != nil {
			*cfg = *v
		}
		return nil
	case map[string]any:
		return decodeMap(v, cfg)
	default:
		return fmt.Errorf("unsupported config input type: %T", input)
	}
}

func decodeMap(input map[string]any, cfg *Config) error {
	if input == nil {
		return nil
	}
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, cfg)
}
