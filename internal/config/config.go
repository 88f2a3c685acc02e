// Package config loads server settings from defaults, an optional YAML file,
// a .env file, CHESS_* environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

// EnvPrefix namespaces environment overrides, e.g. CHESS_SERVER_PORT.
const EnvPrefix = "CHESS"

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// StaticDir, when set, is served at / for the browser client.
	StaticDir         string        `mapstructure:"static_dir"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr returns the "host:port" listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// WSConfig holds per-connection websocket settings.
type WSConfig struct {
	// OutboxSize bounds the messages queued for one client before it is
	// dropped as too slow.
	OutboxSize      int           `mapstructure:"outbox_size"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PingInterval    time.Duration `mapstructure:"ping_interval"`
	MaxMessageBytes int64         `mapstructure:"max_message_bytes"`
	// OriginPatterns lists extra hosts allowed to open a websocket from a
	// browser. Same-origin is always allowed.
	OriginPatterns []string `mapstructure:"origin_patterns"`
}

type HubConfig struct {
	InboxSize int `mapstructure:"inbox_size"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	WS      WSConfig      `mapstructure:"ws"`
	Hub     HubConfig     `mapstructure:"hub"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate reports every violation, not just the first.
func (c Config) Validate() error {
	var err error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		err = multierr.Append(err, fmt.Errorf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Server.ReadHeaderTimeout < 0 {
		err = multierr.Append(err, errors.New("server.read_header_timeout must not be negative"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		err = multierr.Append(err, errors.New("server.shutdown_timeout must be positive"))
	}
	if c.WS.OutboxSize < 1 {
		err = multierr.Append(err, fmt.Errorf("ws.outbox_size must be >= 1, got %d", c.WS.OutboxSize))
	}
	if c.WS.WriteTimeout <= 0 {
		err = multierr.Append(err, errors.New("ws.write_timeout must be positive"))
	}
	if c.WS.PingInterval < 0 {
		err = multierr.Append(err, errors.New("ws.ping_interval must not be negative"))
	}
	if c.WS.MaxMessageBytes < 64 {
		err = multierr.Append(err, fmt.Errorf("ws.max_message_bytes must be >= 64, got %d", c.WS.MaxMessageBytes))
	}
	if c.Hub.InboxSize < 1 {
		err = multierr.Append(err, fmt.Errorf("hub.inbox_size must be >= 1, got %d", c.Hub.InboxSize))
	}
	return multierr.Append(err, validateLogging(c.Logging))
}

func validateLogging(l LoggingConfig) error {
	var err error
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		err = multierr.Append(err, fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		err = multierr.Append(err, fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format))
	}
	return err
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"port":      "server.port",
	"log-level": "logging.level",
	"static":    "server.static_dir",
}

// Load builds a validated Config. path may be empty to skip the YAML file;
// flags may be nil. Only flags the user actually set override other sources.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() Config {
	cfg, err := LoadFromViper(defaultsOnly())
	if err != nil {
		// The defaults are validated by tests.
		panic(err)
	}
	return cfg
}

func defaultsOnly() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.static_dir", "")
	v.SetDefault("server.read_header_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("ws.outbox_size", 16)
	v.SetDefault("ws.write_timeout", "10s")
	v.SetDefault("ws.ping_interval", "30s")
	v.SetDefault("ws.max_message_bytes", 4096)
	v.SetDefault("ws.origin_patterns", []string{})

	v.SetDefault("hub.inbox_size", 256)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}
