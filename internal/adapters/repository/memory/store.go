// Package memory provides a process-local ports.QuoteStore.
// It is safe for concurrent use and loses all data when the process exits.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/jsamuelsen/quote-service/internal/domain"
)

// Store keeps quotes in a map guarded by a RWMutex.
type Store struct {
	mu     sync.RWMutex
	quotes map[int64]domain.Quote
	keys   map[domain.QuoteKey]int64
	nextID int64
}

// New creates an empty store. Ids start at 1.
func New() *Store {
	return &Store{
		quotes: make(map[int64]domain.Quote),
		keys:   make(map[domain.QuoteKey]int64),
		nextID: 1,
	}
}

// Name returns the health check name.
func (s *Store) Name() string {
	return "store"
}

// Check always succeeds for the in-memory store.
func (s *Store) Check(_ context.Context) error {
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// ListAll returns every quote ordered by id.
func (s *Store) ListAll(ctx context.Context) ([]domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		out = append(out, q)
	}

	slices.SortFunc(out, func(a, b domain.Quote) int { return cmp.Compare(a.ID, b.ID) })

	return out, nil
}

// FindByID returns the quote with the given id.
func (s *Store) FindByID(ctx context.Context, id int64) (*domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[id]
	if !ok {
		return nil, domain.NewNotFoundError(id)
	}

	return &q, nil
}

// ListLiked returns quotes with likes > 0, likes descending then id ascending.
func (s *Store) ListLiked(ctx context.Context) ([]domain.Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Quote, 0)
	for _, q := range s.quotes {
		if q.Likes > 0 {
			out = append(out, q)
		}
	}

	slices.SortFunc(out, func(a, b domain.Quote) int {
		if c := cmp.Compare(b.Likes, a.Likes); c != 0 {
			return c
		}

		return cmp.Compare(a.ID, b.ID)
	})

	return out, nil
}

// ListIDsExcluding returns ids not present in exclude, ascending.
func (s *Store) ListIDsExcluding(ctx context.Context, exclude []int64) ([]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	skip := make(map[int64]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]int64, 0, len(s.quotes))
	for id := range s.quotes {
		if _, excluded := skip[id]; !excluded {
			ids = append(ids, id)
		}
	}

	slices.Sort(ids)

	return ids, nil
}

// InsertMany stores candidates whose (text, author) pair is new.
func (s *Store) InsertMany(ctx context.Context, quotes []domain.QuoteCandidate) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0

	for _, c := range quotes {
		if _, exists := s.keys[c.Key()]; exists {
			continue
		}

		id := s.nextID
		s.nextID++
		s.quotes[id] = domain.Quote{ID: id, Text: c.Text, Author: c.Author}
		s.keys[c.Key()] = id
		inserted++
	}

	return inserted, nil
}

// IncrementLikes adds one like under the write lock.
func (s *Store) IncrementLikes(ctx context.Context, id int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quotes[id]
	if !ok {
		return 0, domain.NewNotFoundError(id)
	}

	q.Likes++
	s.quotes[id] = q

	return q.Likes, nil
}
