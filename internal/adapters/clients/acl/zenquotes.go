package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/quote-service/internal/adapters/clients"
	"github.com/jsamuelsen/quote-service/internal/domain"
	"github.com/jsamuelsen/quote-service/internal/platform/logging"
)

const (
	// DefaultBatchPath is the ZenQuotes endpoint returning a batch of quotes.
	DefaultBatchPath = "/api/quotes"

	serviceName = "zenquotes"

	// noticeAuthor signs the in-band notices ZenQuotes sends with a 200,
	// e.g. "Too many requests. Obtain an auth key for unlimited access."
	noticeAuthor = "zenquotes.io"
)

// ZenQuotesConfig configures a ZenQuotesClient.
type ZenQuotesConfig struct {
	// Client must point at the ZenQuotes host. Required.
	Client *clients.Client

	// BatchPath defaults to DefaultBatchPath.
	BatchPath string

	Logger *slog.Logger
}

// ZenQuotesClient is the ports.RemoteQuoteProvider backed by ZenQuotes. It
// doubles as a ports.HealthChecker.
type ZenQuotesClient struct {
	http      *clients.Client
	batchPath string
	logger    *slog.Logger
}

// NewZenQuotesClient panics without a Client.
func NewZenQuotesClient(cfg ZenQuotesConfig) *ZenQuotesClient {
	if cfg.Client == nil {
		panic("acl: ZenQuotesConfig.Client is required")
	}

	if cfg.BatchPath == "" {
		cfg.BatchPath = DefaultBatchPath
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &ZenQuotesClient{
		http:      cfg.Client,
		batchPath: cfg.BatchPath,
		logger:    cfg.Logger.With(slog.String("provider", serviceName)),
	}
}

// zenQuote is one element of the batch payload. The "h" field (pre-rendered
// HTML) is ignored.
type zenQuote struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// FetchBatch calls the batch endpoint once (the client may retry) and
// returns the usable entries. Entries with empty text are dropped; text and
// author are otherwise kept verbatim so deduplication stays exact.
func (z *ZenQuotesClient) FetchBatch(ctx context.Context) ([]domain.QuoteCandidate, error) {
	z.logger.Log(ctx, logging.LevelTrace, "fetching quote batch", slog.String("path", z.batchPath))

	resp, err := z.http.Get(ctx, z.batchPath)
	if err != nil {
		return nil, transportFailure(ctx, serviceName, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, statusFailure(serviceName, resp)
	}

	defer func() { _ = resp.Body.Close() }()

	// A success without a body, such as 204, is an empty batch.
	var batch []zenQuote
	if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil && !errors.Is(err, io.EOF) {
		return nil, domain.WrapUnavailable(serviceName, "malformed batch", err)
	}

	if len(batch) == 1 && batch[0].A == noticeAuthor {
		return nil, domain.NewUnavailableError(serviceName, "service notice: "+batch[0].Q)
	}

	out := make([]domain.QuoteCandidate, 0, len(batch))
	for _, q := range batch {
		if q.Q == "" {
			continue
		}

		out = append(out, domain.QuoteCandidate{Text: q.Q, Author: q.A})
	}

	z.logger.DebugContext(ctx, "fetched quote batch",
		slog.Int("received", len(batch)),
		slog.Int("usable", len(out)),
	)

	return out, nil
}

// Name implements ports.HealthChecker.
func (z *ZenQuotesClient) Name() string {
	return serviceName
}

// Check fails while the circuit breaker is open. It never calls ZenQuotes:
// anonymous clients are rate limited and probes would eat that budget.
func (z *ZenQuotesClient) Check(context.Context) error {
	if state := z.http.CircuitState(); state == clients.StateOpen {
		return fmt.Errorf("%s circuit breaker is %s", serviceName, state)
	}

	return nil
}
