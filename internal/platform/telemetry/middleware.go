package telemetry

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-service/internal/platform/logging"
)

const (
	scopeName = "github.com/jsamuelsen/quote-service/telemetry"

	// HeaderTraceID echoes the request's trace id to the caller.
	HeaderTraceID = "X-Trace-ID"
)

// MiddlewareOption configures Middleware.
type MiddlewareOption func(*middlewareConfig)

type middlewareConfig struct {
	tracers trace.TracerProvider
	meter   metric.Meter
}

// WithTracerProvider replaces the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) MiddlewareOption {
	return func(c *middlewareConfig) { c.tracers = tp }
}

// WithMeter replaces the global meter.
func WithMeter(m metric.Meter) MiddlewareOption {
	return func(c *middlewareConfig) { c.meter = m }
}

// Middleware returns two handlers for engine.Use: otelgin's per-request span,
// then one that tags the response and request logger with the trace id and
// records server metrics.
func Middleware(serviceName string, opts ...MiddlewareOption) gin.HandlersChain {
	var cfg middlewareConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.meter == nil {
		cfg.meter = otel.Meter(scopeName)
	}

	var spanOpts []otelgin.Option
	if cfg.tracers != nil {
		spanOpts = append(spanOpts, otelgin.WithTracerProvider(cfg.tracers))
	}

	inst, err := newServerInstruments(cfg.meter)
	if err != nil {
		// Spans still work; the error surfaces through the global otel handler.
		otel.Handle(err)
		inst = nil
	}

	return gin.HandlersChain{
		otelgin.Middleware(serviceName, spanOpts...),
		inst.handler,
	}
}

type serverInstruments struct {
	duration metric.Float64Histogram
	count    metric.Int64Counter
	inflight metric.Int64UpDownCounter
}

func newServerInstruments(m metric.Meter) (*serverInstruments, error) {
	duration, durErr := m.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Time to serve a request."), metric.WithUnit("s"))
	count, countErr := m.Int64Counter("http.server.request.total",
		metric.WithDescription("Requests served."))
	inflight, inflightErr := m.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Requests being served."))

	if err := errors.Join(durErr, countErr, inflightErr); err != nil {
		return nil, err
	}

	return &serverInstruments{duration: duration, count: count, inflight: inflight}, nil
}

// handler is usable on a nil receiver, in which case only trace tagging runs.
func (s *serverInstruments) handler(c *gin.Context) {
	ctx := c.Request.Context()

	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		id := sc.TraceID().String()
		c.Header(HeaderTraceID, id)

		ctx = logging.WithTraceID(ctx, id)
		c.Request = c.Request.WithContext(ctx)
	}

	if s == nil {
		c.Next()
		return
	}

	base := []attribute.KeyValue{
		attribute.String("http.method", c.Request.Method),
		attribute.String("http.route", c.FullPath()),
	}
	inflight := metric.WithAttributes(base...)

	s.inflight.Add(ctx, 1, inflight)
	defer s.inflight.Add(ctx, -1, inflight)

	start := time.Now()
	c.Next()

	done := metric.WithAttributes(append(base, attribute.Int("http.status_code", c.Writer.Status()))...)
	s.duration.Record(ctx, time.Since(start).Seconds(), done)
	s.count.Add(ctx, 1, done)
}
