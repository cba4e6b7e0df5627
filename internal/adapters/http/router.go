package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-service/internal/platform/telemetry"
)

// APIPrefix is the route group for the quote API.
const APIPrefix = "/api/v1"

const (
	defaultServiceName    = "quote-service"
	defaultRequestTimeout = 30 * time.Second
	defaultMaxRequestSize = 1 << 20
)

// RouterConfig collects what NewRouter mounts. Zero values take defaults;
// nil handlers leave their routes out.
type RouterConfig struct {
	Logger      *slog.Logger
	ServiceName string

	// AllowedOrigins are the browser origins admitted by CORS. Empty disables it.
	AllowedOrigins []string

	// RequestTimeout bounds API requests. Negative disables the deadline.
	RequestTimeout time.Duration

	// MaxRequestSize caps request bodies in bytes.
	MaxRequestSize int64

	Health *handlers.HealthHandler
	Quotes *handlers.QuoteHandler
}

func (c RouterConfig) withDefaults() RouterConfig {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}

	if c.ServiceName == "" {
		c.ServiceName = defaultServiceName
	}

	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaultRequestTimeout
	}

	if c.MaxRequestSize <= 0 {
		c.MaxRequestSize = defaultMaxRequestSize
	}

	return c
}

// NewRouter builds the engine. Every route runs, in order: recovery, request
// and correlation ids, CORS, telemetry, access logging and the body limit.
// Only the API group carries the request deadline; the operational routes
// bound their own work.
func NewRouter(cfg RouterConfig) *gin.Engine {
	cfg = cfg.withDefaults()

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
		middleware.CORS(cfg.AllowedOrigins),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(middleware.Logging(cfg.Logger), limitBody(cfg.MaxRequestSize))

	if cfg.Health != nil {
		cfg.Health.Mount(engine)
	}

	api := engine.Group(APIPrefix)
	if cfg.RequestTimeout > 0 {
		api.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	if cfg.Quotes != nil {
		cfg.Quotes.RegisterQuoteRoutes(api)
	}

	return engine
}

// limitBody makes reads past n bytes fail, which the handlers report as 413.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
