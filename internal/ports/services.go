// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
package ports

import (
	"context"

	"github.com/jsamuelsen/quote-service/internal/domain"
)

// QuoteStore is the persistence port for quotes.
// Every mutating method commits atomically: either all of its changes are
// visible to subsequent reads or none are.
type QuoteStore interface {
	// ListAll returns every stored quote ordered by id.
	ListAll(ctx context.Context) ([]domain.Quote, error)

	// FindByID returns a single quote.
	// Returns domain.ErrNotFound if the quote does not exist.
	FindByID(ctx context.Context, id int64) (*domain.Quote, error)

	// ListLiked returns quotes with at least one like, ordered by likes
	// descending and then id ascending. Returns an empty slice when none qualify.
	ListLiked(ctx context.Context) ([]domain.Quote, error)

	// ListIDsExcluding returns the ids of all quotes whose id is not in exclude.
	ListIDsExcluding(ctx context.Context, exclude []int64) ([]int64, error)

	// InsertMany stores the candidates with zero likes in a single transaction
	// and returns how many rows were created. Candidates whose (text, author)
	// pair is already stored are skipped.
	InsertMany(ctx context.Context, quotes []domain.QuoteCandidate) (int, error)

	// IncrementLikes atomically adds one like and returns the new count.
	// Returns domain.ErrNotFound if the quote does not exist.
	IncrementLikes(ctx context.Context, id int64) (int, error)
}

// RemoteQuoteProvider fetches batches of candidate quotes from an external service.
//
// Key considerations:
//   - Handle timeouts via context deadline
//   - Map external errors to domain errors (domain.ErrUnavailable)
//   - Transform external DTOs to domain types
type RemoteQuoteProvider interface {
	// FetchBatch retrieves one batch of quotes. An empty batch is not an error.
	FetchBatch(ctx context.Context) ([]domain.QuoteCandidate, error)
}
