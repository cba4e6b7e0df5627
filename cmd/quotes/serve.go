package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsamuelsen/quote-service/internal/adapters/clients"
	"github.com/jsamuelsen/quote-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-service/internal/adapters/http"
	"github.com/jsamuelsen/quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-service/internal/adapters/repository"
	"github.com/jsamuelsen/quote-service/internal/app"
	"github.com/jsamuelsen/quote-service/internal/platform/config"
	"github.com/jsamuelsen/quote-service/internal/platform/logging"
	"github.com/jsamuelsen/quote-service/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-service/internal/ports"
)

// serve wires every component for the given profile and blocks until the
// process receives SIGINT/SIGTERM or the server fails.
func serve(parent context.Context, profile string) error {
	if parent == nil {
		parent = context.Background()
	}

	// 1. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 2. Initialize logging
	logger, logCloser := logging.NewWithCloser(newLoggingConfig(cfg), os.Stdout)
	defer func() { _ = logCloser.Close() }()

	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("store", cfg.Store.Driver),
	)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 4. Open the quote store (creates the table on first start)
	store, err := repository.Open(ctx, repository.Config{
		Driver:       cfg.Store.Driver,
		SQLitePath:   cfg.Store.SQLitePath,
		PostgresDSN:  cfg.Store.PostgresDSN,
		MaxOpenConns: cfg.Store.MaxOpenConns,
		MaxIdleConns: cfg.Store.MaxIdleConns,
	}, logger)
	if err != nil {
		return fmt.Errorf("opening quote store: %w", err)
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("store close error", slog.Any("error", closeErr))
		}
	}()

	// 5. Create HTTP client for the remote quote provider
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Quote.BaseURL,
		ServiceName: cfg.Services.Quote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		UserAgent:   cfg.App.Name + "/" + Version,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	// 6. Create the ZenQuotes adapter (ACL pattern)
	provider := acl.NewZenQuotesClient(acl.ZenQuotesConfig{
		Client:    httpClient,
		BatchPath: cfg.Services.Quote.BatchPath,
		Logger:    logger,
	})

	// 7. Register readiness checks. Only the store gates readiness; ZenQuotes
	// is reported but its outages degrade the API to 204 instead.
	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(store); err != nil {
		return fmt.Errorf("registering %s health check: %w", store.Name(), err)
	}

	dependencies := ports.NewHealthRegistry()
	if err := dependencies.Register(provider); err != nil {
		return fmt.Errorf("registering %s health check: %w", provider.Name(), err)
	}

	// 8. Create quote service (application layer)
	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Store:    store,
		Provider: provider,
		Logger:   logger,
	})

	// 9. Build the router and server
	router := http.NewRouter(http.RouterConfig{
		Logger:         logger,
		ServiceName:    cfg.App.Name,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: cfg.Server.RequestTimeout,
		MaxRequestSize: cfg.Server.MaxRequestSize,
		Health:         handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime)).WithDependencies(dependencies),
		Quotes:         handlers.NewQuoteHandler(quoteService),
	})
	server := http.NewServer(&cfg.Server, router, logger)

	// 10. Serve until a signal arrives, then drain in-flight requests
	if err := server.Run(ctx); err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}

// newLoggingConfig maps the log section of the service config onto the logger.
func newLoggingConfig(cfg *config.Config) *logging.Config {
	return &logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}
}
