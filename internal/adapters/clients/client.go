package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-service/internal/platform/config"
	"github.com/jsamuelsen/quote-service/internal/platform/logging"
)

const instrumentationName = "github.com/jsamuelsen/quote-service/internal/adapters/clients"

// Fallbacks for zero-valued config.
const (
	defaultTimeout             = 30 * time.Second
	defaultJitterFactor        = 0.25
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// Metric outcomes besides the status class ("2xx", "4xx", ...).
const (
	outcomeCircuitOpen = "circuit_open"
	outcomeCanceled    = "canceled"
	outcomeError       = "error"
)

// Config configures a Client.
type Config struct {
	// BaseURL prefixes every request path, e.g. "https://zenquotes.io".
	BaseURL string

	// ServiceName names the downstream in logs, spans and metrics.
	ServiceName string

	// Timeout bounds a single attempt. Retries and backoff come on top.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// UserAgent is sent on every request when set.
	UserAgent string

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client calls one downstream service. Every request passes through the
// circuit breaker, is retried on transient failures with jittered
// exponential backoff, carries request/correlation ids and W3C trace
// headers, and is recorded as a span plus duration and count metrics.
type Client struct {
	http    *http.Client
	baseURL string
	cfg     Config
	logger  *slog.Logger
	breaker *CircuitBreaker
	tracer  trace.Tracer
	metrics clientMetrics
}

type clientMetrics struct {
	duration    metric.Float64Histogram
	requests    metric.Int64Counter
	transitions metric.Int64Counter
}

func newClientMetrics(meter metric.Meter) (clientMetrics, error) {
	var m clientMetrics

	var errs [3]error

	m.duration, errs[0] = meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of HTTP client requests, retries included"),
		metric.WithUnit("s"),
	)
	m.requests, errs[1] = meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Total number of HTTP client requests"),
	)
	m.transitions, errs[2] = meter.Int64Counter("http.client.circuit.transitions",
		metric.WithDescription("Circuit breaker state transitions"),
	)

	if err := errors.Join(errs[:]...); err != nil {
		return clientMetrics{}, fmt.Errorf("creating client metrics: %w", err)
	}

	return m, nil
}

// New creates a client. ServiceName is required.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	c := &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		cfg:     *cfg,
		tracer:  otel.Tracer(instrumentationName),
	}

	c.cfg.Timeout = orDefault(c.cfg.Timeout, defaultTimeout)
	c.cfg.Retry.MaxAttempts = max(c.cfg.Retry.MaxAttempts, 1)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c.logger = logger.With(slog.String("downstream", cfg.ServiceName))

	metrics, err := newClientMetrics(otel.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}

	c.metrics = metrics

	c.http = &http.Client{
		Timeout: c.cfg.Timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        orDefault(cfg.Transport.MaxIdleConns, defaultMaxIdleConns),
			MaxIdleConnsPerHost: orDefault(cfg.Transport.MaxIdleConnsPerHost, defaultMaxIdleConnsPerHost),
			IdleConnTimeout:     orDefault(cfg.Transport.IdleConnTimeout, defaultIdleConnTimeout),
		},
	}

	c.breaker = NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   cfg.Circuit.MaxFailures,
		Timeout:       cfg.Circuit.Timeout,
		HalfOpenLimit: cfg.Circuit.HalfOpenLimit,
	})
	c.breaker.OnStateChange(c.circuitChanged)

	return c, nil
}

// Get sends a GET for path, relative to BaseURL, asking for JSON.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	return c.Do(ctx, req)
}

// Do sends req. A response is returned for any status that is not retried,
// 4xx included; the caller owns its body. Requests with a body are only
// retried when req.GetBody is set.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContextOr(ctx, c.logger).With(
		slog.String("downstream", c.cfg.ServiceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	if !c.breaker.Allow() {
		c.record(ctx, req.Method, outcomeCircuitOpen, time.Since(start))
		logger.WarnContext(ctx, "request blocked by circuit breaker")

		return nil, ErrCircuitOpen
	}

	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method+" "+c.cfg.ServiceName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.full", req.URL.String()),
			attribute.String("peer.service", c.cfg.ServiceName),
		),
	)
	defer span.End()

	c.injectHeaders(ctx, req)

	resp, err := c.withRetry(ctx, req, span, logger)
	elapsed := time.Since(start)

	switch {
	case err != nil && ctx.Err() != nil:
		// The caller gave up; that says nothing about the downstream.
		c.breaker.Abandon()
		span.SetStatus(codes.Error, "canceled")
		c.record(ctx, req.Method, outcomeCanceled, elapsed)

		return nil, err

	case err != nil:
		c.breaker.RecordFailure()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.record(ctx, req.Method, outcomeError, elapsed)
		logger.WarnContext(ctx, "request failed",
			slog.Duration("duration", elapsed),
			slog.Any("error", err),
		)

		return nil, err
	}

	c.breaker.RecordSuccess()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(resp.StatusCode))
	}

	c.record(ctx, req.Method, statusClass(resp.StatusCode), elapsed,
		attribute.Int("http.response.status_code", resp.StatusCode))
	logger.DebugContext(ctx, "request completed",
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", elapsed),
	)

	return resp, nil
}

// CircuitState returns the breaker's current state.
func (c *Client) CircuitState() State {
	return c.breaker.State()
}

// withRetry runs up to Retry.MaxAttempts attempts.
func (c *Client) withRetry(ctx context.Context, req *http.Request, span trace.Span, logger *slog.Logger) (*http.Response, error) {
	var lastErr error

	for attempt := 1; ; attempt++ {
		if attempt > 1 {
			if err := rewind(req); err != nil {
				return nil, errors.Join(lastErr, err)
			}
		}

		resp, err := c.http.Do(req.WithContext(ctx))

		retry, retryAfter := c.shouldRetry(ctx, resp, err)
		if !retry {
			return resp, err
		}

		lastErr = err
		if err == nil {
			lastErr = &StatusError{StatusCode: resp.StatusCode, RetryAfter: retryAfter}
			drain(resp)
		}

		if attempt >= c.cfg.Retry.MaxAttempts {
			return nil, fmt.Errorf("%w (%d attempts): %w", ErrMaxRetriesExceeded, attempt, lastErr)
		}

		wait := max(c.backoff(attempt), retryAfter)
		if c.cfg.Retry.MaxInterval > 0 && retryAfter > c.cfg.Retry.MaxInterval {
			// The server asked for longer than we are willing to block a caller.
			return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, lastErr)
		}

		span.AddEvent("retry", trace.WithAttributes(
			attribute.Int("attempt", attempt),
			attribute.String("error", lastErr.Error()),
		))
		logger.DebugContext(ctx, "retrying request",
			slog.Int("attempt", attempt),
			slog.Duration("backoff", wait),
			slog.Any("error", lastErr),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// shouldRetry classifies one attempt. Transport timeouts and dial failures,
// 5xx and 429 are transient; anything caused by ctx is not.
func (c *Client) shouldRetry(ctx context.Context, resp *http.Response, err error) (bool, time.Duration) {
	if err != nil {
		if ctx.Err() != nil {
			return false, 0
		}

		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return true, 0
		}

		var opErr *net.OpError

		return errors.As(err, &opErr), 0
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode == http.StatusServiceUnavailable:
		return true, parseRetryAfter(resp.Header.Get("Retry-After"), time.Now())
	case resp.StatusCode >= http.StatusInternalServerError:
		return true, 0
	default:
		return false, 0
	}
}

// backoff returns the delay before attempt+1: InitialInterval grown by
// Multiplier per attempt, capped at MaxInterval, then jittered by
// ±JitterFactor.
func (c *Client) backoff(attempt int) time.Duration {
	r := c.cfg.Retry

	d := float64(r.InitialInterval) * math.Pow(r.Multiplier, float64(attempt-1))
	if r.MaxInterval > 0 {
		d = math.Min(d, float64(r.MaxInterval))
	}

	jitter := r.JitterFactor
	if jitter <= 0 {
		jitter = defaultJitterFactor
	}

	d *= 1 + jitter*(2*rand.Float64()-1) //nolint:gosec // jitter needs no crypto randomness

	return time.Duration(d)
}

// injectHeaders copies request ids, the user agent and trace context onto req.
func (c *Client) injectHeaders(ctx context.Context, req *http.Request) {
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}

	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

func (c *Client) record(ctx context.Context, method, outcome string, elapsed time.Duration, extra ...attribute.KeyValue) {
	attrs := metric.WithAttributes(append([]attribute.KeyValue{
		attribute.String("http.request.method", method),
		attribute.String("peer.service", c.cfg.ServiceName),
		attribute.String("result", outcome),
	}, extra...)...)

	c.metrics.duration.Record(ctx, elapsed.Seconds(), attrs)
	c.metrics.requests.Add(ctx, 1, attrs)
}

func (c *Client) circuitChanged(from, to State) {
	level := slog.LevelWarn
	if to == StateClosed {
		level = slog.LevelInfo
	}

	c.logger.Log(context.Background(), level, "circuit breaker state changed",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)
	c.metrics.transitions.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("peer.service", c.cfg.ServiceName),
		attribute.String("from", from.String()),
		attribute.String("to", to.String()),
	))
}

// parseRetryAfter reads a Retry-After header given as delay-seconds or an
// HTTP date. Unparseable or past values yield zero.
func parseRetryAfter(v string, now time.Time) time.Duration {
	if v == "" {
		return 0
	}

	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(max(secs, 0)) * time.Second
	}

	if at, err := http.ParseTime(v); err == nil {
		return max(at.Sub(now), 0)
	}

	return 0
}

// rewind resets the request body for another attempt.
func rewind(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}

	if req.GetBody == nil {
		return errors.New("request body cannot be replayed for retry")
	}

	body, err := req.GetBody()
	if err != nil {
		return fmt.Errorf("rewinding request body: %w", err)
	}

	req.Body = body

	return nil
}

// drain discards and closes a response that will not be returned, so the
// connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
	_ = resp.Body.Close()
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}

// orDefault returns v unless it is zero or negative.
func orDefault[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}

	return v
}
