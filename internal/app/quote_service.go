// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"golang.org/x/sync/singleflight"

	"github.com/jsamuelsen/quote-service/internal/domain"
	"github.com/jsamuelsen/quote-service/internal/ports"
)

const (
	instrumentationName = "github.com/jsamuelsen/quote-service/internal/app"

	// refillKey coalesces concurrent refills into one remote fetch.
	refillKey = "refill"
)

// QuoteService orchestrates quote-related use cases.
// It depends on port interfaces, not concrete implementations,
// following the Dependency Inversion Principle.
type QuoteService struct {
	store    ports.QuoteStore
	provider ports.RemoteQuoteProvider
	logger   *slog.Logger
	intn     func(n int) int

	refill        singleflight.Group
	fetchFailures metric.Int64Counter
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Store    ports.QuoteStore
	Provider ports.RemoteQuoteProvider
	Logger   *slog.Logger

	// Intn returns a uniform random int in [0, n). Defaults to math/rand/v2.IntN.
	Intn func(n int) int

	// Meter records flow metrics. Defaults to the global meter provider.
	Meter metric.Meter
}

// NewQuoteService creates a new quote service with the provided dependencies.
// Panics if Store or Provider is nil.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Store == nil {
		panic("app.NewQuoteService: Store is required")
	}

	if cfg.Provider == nil {
		panic("app.NewQuoteService: Provider is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	intn := cfg.Intn
	if intn == nil {
		intn = rand.IntN
	}

	meter := cfg.Meter
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	fetchFailures, err := meter.Int64Counter(
		"quotes.remote.fetch.failures",
		metric.WithDescription("Remote quote batch fetches that failed and were treated as empty"),
	)
	if err != nil {
		logger.Warn("creating fetch failure counter, metric disabled", slog.Any("error", err))

		fetchFailures, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter("quotes.remote.fetch.failures")
	}

	return &QuoteService{
		store:         cfg.Store,
		provider:      cfg.Provider,
		logger:        logger.With(slog.String("component", "app.QuoteService")),
		intn:          intn,
		fetchFailures: fetchFailures,
	}
}

// ListQuotes returns every stored quote.
func (s *QuoteService) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	quotes, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}

	return quotes, nil
}

// GetQuote returns the quote with the given id.
// Returns domain.ErrNotFound if it does not exist.
func (s *QuoteService) GetQuote(ctx context.Context, id int64) (*domain.Quote, error) {
	quote, err := s.store.FindByID(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, err
		}

		return nil, fmt.Errorf("getting quote %d: %w", id, err)
	}

	return quote, nil
}

// ListLiked returns liked quotes, most liked first, ties by ascending id.
func (s *QuoteService) ListLiked(ctx context.Context) ([]domain.Quote, error) {
	quotes, err := s.store.ListLiked(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing liked quotes: %w", err)
	}

	return quotes, nil
}

// LikeQuote adds one like and returns the new count.
// An unknown id is a no-op that returns 0 without error.
func (s *QuoteService) LikeQuote(ctx context.Context, id int64) (int, error) {
	likes, err := s.store.IncrementLikes(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			s.logger.DebugContext(ctx, "like ignored for unknown quote", slog.Int64("quote_id", id))
			return 0, nil
		}

		return 0, fmt.Errorf("liking quote %d: %w", id, err)
	}

	return likes, nil
}

// RandomQuote returns a quote whose id is not in exclude, chosen uniformly at
// random. When the store has nothing left to offer it fetches one batch from
// the remote provider, stores the new quotes and selects again.
//
// Returns domain.ErrNoContent when no quote qualifies even after the refill.
// Remote failures are logged and counted but never returned; store failures are.
func (s *QuoteService) RandomQuote(ctx context.Context, exclude []int64) (*domain.Quote, error) {
	quote, err := s.pick(ctx, exclude)
	if err != nil || quote != nil {
		return quote, err
	}

	s.logger.DebugContext(ctx, "local quotes exhausted, refilling from remote",
		slog.Int("excluded", len(exclude)),
	)

	// The shared refill must not be canceled by whichever caller started it.
	v, err, shared := s.refill.Do(refillKey, func() (any, error) {
		return s.refillFromRemote(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}

	if fetched, _ := v.(bool); !fetched {
		return nil, domain.ErrNoContent
	}

	if shared {
		s.logger.DebugContext(ctx, "joined in-flight refill")
	}

	quote, err = s.pick(ctx, exclude)
	if err != nil {
		return nil, err
	}

	if quote == nil {
		return nil, domain.ErrNoContent
	}

	return quote, nil
}

// pick returns a random qualifying quote, or nil when none qualifies.
func (s *QuoteService) pick(ctx context.Context, exclude []int64) (*domain.Quote, error) {
	ids, err := s.store.ListIDsExcluding(ctx, exclude)
	if err != nil {
		return nil, fmt.Errorf("listing candidate ids: %w", err)
	}

	if len(ids) == 0 {
		return nil, nil
	}

	id := ids[s.intn(len(ids))]

	quote, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading quote %d: %w", id, err)
	}

	return quote, nil
}

// refillFromRemote fetches one batch and stores the quotes not seen before.
// The bool result reports whether the provider returned a non-empty batch.
func (s *QuoteService) refillFromRemote(ctx context.Context) (bool, error) {
	batch, err := s.provider.FetchBatch(ctx)
	if err != nil {
		s.fetchFailures.Add(ctx, 1)
		s.logger.WarnContext(ctx, "remote quote fetch failed, treating as empty",
			slog.Any("error", err),
		)

		return false, nil
	}

	if len(batch) == 0 {
		s.logger.InfoContext(ctx, "remote quote batch was empty")
		return false, nil
	}

	existing, err := s.store.ListAll(ctx)
	if err != nil {
		return false, fmt.Errorf("listing quotes for dedup: %w", err)
	}

	fresh := newCandidates(batch, existing)
	if len(fresh) == 0 {
		s.logger.InfoContext(ctx, "remote quote batch contained only known quotes",
			slog.Int("fetched", len(batch)),
		)

		return true, nil
	}

	inserted, err := s.store.InsertMany(ctx, fresh)
	if err != nil {
		return false, fmt.Errorf("storing fetched quotes: %w", err)
	}

	s.logger.InfoContext(ctx, "stored remote quotes",
		slog.Int("fetched", len(batch)),
		slog.Int("inserted", inserted),
	)

	return true, nil
}

// newCandidates drops empty-text entries and every (text, author) pair that is
// already stored or repeated earlier in the batch. Comparison is exact.
func newCandidates(batch []domain.QuoteCandidate, existing []domain.Quote) []domain.QuoteCandidate {
	seen := make(map[domain.QuoteKey]struct{}, len(existing)+len(batch))
	for _, q := range existing {
		seen[q.Key()] = struct{}{}
	}

	fresh := make([]domain.QuoteCandidate, 0, len(batch))

	for _, c := range batch {
		if c.Text == "" {
			continue
		}

		if _, dup := seen[c.Key()]; dup {
			continue
		}

		seen[c.Key()] = struct{}{}
		fresh = append(fresh, c)
	}

	return fresh
}
