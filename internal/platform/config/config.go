// Package config loads the quote service configuration with koanf.
//
// Layers, lowest precedence first:
//
//	built-in defaults
//	configs/base.yaml
//	configs/{profile}.yaml
//	APP_* environment variables, e.g. APP_STORE_SQLITE_PATH -> store.sqlite_path
//
// Missing files are skipped. Load does not validate; call Config.Validate.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix = "APP_"
	configDir = "configs"
)

type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Services  ServicesConfig  `koanf:"services"  validate:"required"`
	Store     StoreConfig     `koanf:"store"     validate:"required"`
	CORS      CORSConfig      `koanf:"cors"`
}

type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig drives http.Server. MaxRequestSize caps request bodies in bytes.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
	RequestTimeout  time.Duration `koanf:"request_timeout"  validate:"min=0"`
}

type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig adds a rolling JSON file next to console output.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig is shared by every outbound HTTP client.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig shapes exponential backoff. MaxAttempts counts the first try.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

type ServicesConfig struct {
	Quote ServiceEndpointConfig `koanf:"quote" validate:"required"`
}

// ServiceEndpointConfig locates the remote quote provider.
type ServiceEndpointConfig struct {
	BaseURL   string `koanf:"base_url"   validate:"required,url"`
	Name      string `koanf:"name"       validate:"required"`
	BatchPath string `koanf:"batch_path" validate:"required,startswith=/"`
}

// StoreConfig selects the quote store. Pool sizes apply to sqlite and postgres.
type StoreConfig struct {
	Driver       string `koanf:"driver"         validate:"required,oneof=sqlite postgres memory"`
	SQLitePath   string `koanf:"sqlite_path"    validate:"required_if=Driver sqlite"`
	PostgresDSN  string `koanf:"postgres_dsn"   validate:"required_if=Driver postgres"`
	MaxOpenConns int    `koanf:"max_open_conns" validate:"min=0,max=1000"`
	MaxIdleConns int    `koanf:"max_idle_conns" validate:"min=0,max=1000"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins" validate:"dive,url"`
}

// defaults is enough to run locally with no config files at all.
var defaults = map[string]any{
	"app": map[string]any{
		"name":        "quote-service",
		"version":     "dev",
		"environment": "local",
	},
	"server": map[string]any{
		"host":             "0.0.0.0",
		"port":             8080,
		"read_timeout":     "30s",
		"write_timeout":    "30s",
		"idle_timeout":     "120s",
		"shutdown_timeout": "10s",
		"max_request_size": 1 << 20,
		"request_timeout":  "30s",
	},
	"log": map[string]any{
		"level":  "info",
		"format": "json",
		"file": map[string]any{
			"enabled":     false,
			"path":        "./logs/app.log",
			"max_size":    100,
			"max_backups": 3,
			"max_age":     28,
			"compress":    true,
		},
	},
	"telemetry": map[string]any{
		"enabled":       false,
		"service_name":  "quote-service",
		"sampling_rate": 1.0,
	},
	"client": map[string]any{
		"timeout": "30s",
		"retry": map[string]any{
			"max_attempts":     3,
			"initial_interval": "100ms",
			"max_interval":     "5s",
			"multiplier":       2.0,
			"jitter_factor":    0.25,
		},
		"circuit_breaker": map[string]any{
			"max_failures":    5,
			"timeout":         "30s",
			"half_open_limit": 3,
		},
		"transport": map[string]any{
			"max_idle_conns":          100,
			"max_idle_conns_per_host": 10,
			"idle_conn_timeout":       "90s",
		},
	},
	"services": map[string]any{
		"quote": map[string]any{
			"name":       "zenquotes",
			"base_url":   "https://zenquotes.io",
			"batch_path": "/api/quotes",
		},
	},
	"store": map[string]any{
		"driver":         "sqlite",
		"sqlite_path":    "./data/quotes.db",
		"postgres_dsn":   "",
		"max_open_conns": 10,
		"max_idle_conns": 2,
	},
	"cors": map[string]any{
		"allowed_origins": []string{
			"http://localhost:3000",
			"http://localhost:3001",
			"http://localhost:3002",
		},
	},
}

// Load resolves the configuration for profile. An empty profile loads only
// defaults, base.yaml and the environment.
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	files := []string{"base"}
	if profile != "" {
		files = append(files, profile)
	}

	for _, name := range files {
		path := filepath.Join(configDir, name+".yaml")

		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}

		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	return &cfg, nil
}

// envKeyMapper maps APP_STORE_SQLITE_PATH to store.sqlite_path. Names of
// known keys are matched exactly so underscores inside leaf names survive;
// anything else treats every underscore as a separator.
func envKeyMapper(known []string) func(string) string {
	byEnv := make(map[string]string, len(known))
	for _, key := range known {
		byEnv[envPrefix+strings.ToUpper(strings.ReplaceAll(key, ".", "_"))] = key
	}

	return func(name string) string {
		if key, ok := byEnv[name]; ok {
			return key
		}

		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(name, envPrefix)), "_", ".")
	}
}
