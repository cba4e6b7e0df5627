package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{Name: "quote-service", Version: "1.0.0", Environment: "local"},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  1 << 20,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Client: ClientConfig{
			Timeout: 10 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 200 * time.Millisecond,
				MaxInterval:     2 * time.Second,
				Multiplier:      2.0,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{MaxFailures: 5, Timeout: 30 * time.Second, HalfOpenLimit: 1},
			Transport: TransportConfig{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Services: ServicesConfig{Quote: ServiceEndpointConfig{
			BaseURL:   "https://zenquotes.io",
			Name:      "zenquotes",
			BatchPath: "/api/quotes",
		}},
		Store: StoreConfig{Driver: "sqlite", SQLitePath: "./data/quotes.db", MaxOpenConns: 10, MaxIdleConns: 2},
		CORS:  CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Accepts(t *testing.T) {
	tests := map[string]func(*Config){
		"every environment": func(c *Config) { c.App.Environment = "qa" },
		"trace level":       func(c *Config) { c.Log.Level = "trace" },
		"pretty format":     func(c *Config) { c.Log.Format = "pretty" },
		"memory store":      func(c *Config) { c.Store = StoreConfig{Driver: "memory"} },
		"postgres store": func(c *Config) {
			c.Store = StoreConfig{Driver: "postgres", PostgresDSN: "postgres://app@db/quotes"}
		},
		"rolling log file": func(c *Config) {
			c.Log.File = LogFileConfig{Enabled: true, Path: "/var/log/quotes.log", MaxSizeMB: 10}
		},
		"telemetry on": func(c *Config) {
			c.Telemetry = TelemetryConfig{
				Enabled:      true,
				Endpoint:     "http://otel-collector:4317",
				ServiceName:  "quote-service",
				SamplingRate: 0.1,
			}
		},
		"no cors origins": func(c *Config) { c.CORS.AllowedOrigins = nil },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)

			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"missing app name", func(c *Config) { c.App.Name = "" }, "app.name is required"},
		{"unknown environment", func(c *Config) { c.App.Environment = "staging" }, "app.environment must be one of: local dev qa prod test"},
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port is required"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port must be at most 65535"},
		{"read timeout too short", func(c *Config) { c.Server.ReadTimeout = time.Millisecond }, "server.read_timeout must be at least 1s"},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level must be one of: trace debug info warn error"},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "log.format must be one of: json text pretty"},
		{"log file without path", func(c *Config) { c.Log.File = LogFileConfig{Enabled: true} }, "log.file.path is required when Enabled true"},
		{"oversized log file", func(c *Config) { c.Log.File.MaxSizeMB = 4096 }, "log.file.max_size must be at most 1024"},
		{"telemetry without endpoint", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "quote-service"}
		}, "telemetry.endpoint is required when Enabled true"},
		{"sampling above one", func(c *Config) { c.Telemetry.SamplingRate = 1.5 }, "telemetry.sampling_rate must be at most 1"},
		{"client timeout too short", func(c *Config) { c.Client.Timeout = time.Millisecond }, "client.timeout must be at least 100ms"},
		{"too many attempts", func(c *Config) { c.Client.Retry.MaxAttempts = 11 }, "client.retry.max_attempts must be at most 10"},
		{"flat multiplier", func(c *Config) { c.Client.Retry.Multiplier = 1.0 }, "client.retry.multiplier must be at least 1.1"},
		{"jitter above one", func(c *Config) { c.Client.Retry.JitterFactor = 2 }, "client.retry.jitter_factor must be at most 1"},
		{"breaker without failures", func(c *Config) { c.Client.CircuitBreaker.MaxFailures = 0 }, "client.circuit_breaker.max_failures is required"},
		{"idle pool empty", func(c *Config) { c.Client.Transport.MaxIdleConns = 0 }, "client.transport.max_idle_conns is required"},
		{"bad provider url", func(c *Config) { c.Services.Quote.BaseURL = "zenquotes" }, "services.quote.base_url must be a valid URL"},
		{"relative batch path", func(c *Config) { c.Services.Quote.BatchPath = "api/quotes" }, `services.quote.batch_path must start with "/"`},
		{"unknown store", func(c *Config) { c.Store.Driver = "mongo" }, "store.driver must be one of: sqlite postgres memory"},
		{"sqlite without path", func(c *Config) { c.Store.SQLitePath = "" }, "store.sqlite_path is required when Driver sqlite"},
		{"postgres without dsn", func(c *Config) { c.Store.Driver = "postgres" }, "store.postgres_dsn is required when Driver postgres"},
		{"huge pool", func(c *Config) { c.Store.MaxOpenConns = 5000 }, "store.max_open_conns must be at most 1000"},
		{"bad cors origin", func(c *Config) { c.CORS.AllowedOrigins = []string{"localhost"} }, "cors.allowed_origins[0] must be a valid URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.App.Name = ""
	cfg.Server.Port = 0
	cfg.Log.Level = "loud"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Equal(t, "config validation failed:\n"+
		"  app.name is required\n"+
		"  server.port is required\n"+
		"  log.level must be one of: trace debug info warn error", err.Error())
}

func TestKeyPath(t *testing.T) {
	assert.Equal(t, "store.sqlite_path", keyPath("Config.store.sqlite_path"))
	assert.Equal(t, "server", keyPath("Config.server"))
	assert.Equal(t, "Config", keyPath("Config"))
}
