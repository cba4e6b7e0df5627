// Package postgres implements ports.QuoteStore on PostgreSQL using a pgx pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsamuelsen/quote-service/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS quotes (
  id         BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
  quote_text TEXT    NOT NULL CHECK (quote_text <> ''),
  author     TEXT    NOT NULL DEFAULT '',
  likes      INTEGER NOT NULL DEFAULT 0 CHECK (likes >= 0),
  CONSTRAINT quotes_text_author_key UNIQUE (quote_text, author)
);

CREATE INDEX IF NOT EXISTS idx_quotes_likes ON quotes (likes DESC, id) WHERE likes > 0;
`

// Config holds PostgreSQL store settings.
type Config struct {
	DSN string

	// MaxConns and MinConns are applied only when non-zero.
	MaxConns int32
	MinConns int32
}

// Store is a ports.QuoteStore backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to the database and creates the quotes table if missing.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres dsn is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}

	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Name returns the health check name.
func (s *Store) Name() string {
	return "store"
}

// Check pings the database.
func (s *Store) Check(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool. It never fails.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// ListAll returns every quote ordered by id.
func (s *Store) ListAll(ctx context.Context) ([]domain.Quote, error) {
	const q = `SELECT id, quote_text, author, likes FROM quotes ORDER BY id`

	return s.queryQuotes(ctx, q)
}

// FindByID returns a single quote or a not found error.
func (s *Store) FindByID(ctx context.Context, id int64) (*domain.Quote, error) {
	const q = `SELECT id, quote_text, author, likes FROM quotes WHERE id = $1`

	var quote domain.Quote

	err := s.pool.QueryRow(ctx, q, id).Scan(&quote.ID, &quote.Text, &quote.Author, &quote.Likes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFoundError(id)
	}

	if err != nil {
		return nil, fmt.Errorf("find quote %d: %w", id, err)
	}

	return &quote, nil
}

// ListLiked returns liked quotes, likes descending then id ascending.
func (s *Store) ListLiked(ctx context.Context) ([]domain.Quote, error) {
	const q = `
	SELECT id, quote_text, author, likes
	FROM quotes
	WHERE likes > 0
	ORDER BY likes DESC, id ASC;
	`

	return s.queryQuotes(ctx, q)
}

// ListIDsExcluding returns ids not present in exclude, ascending.
func (s *Store) ListIDsExcluding(ctx context.Context, exclude []int64) ([]int64, error) {
	if exclude == nil {
		exclude = []int64{}
	}

	const q = `SELECT id FROM quotes WHERE NOT (id = ANY($1)) ORDER BY id`

	rows, err := s.pool.Query(ctx, q, exclude)
	if err != nil {
		return nil, fmt.Errorf("list quote ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan quote ids: %w", err)
	}

	if ids == nil {
		ids = []int64{}
	}

	return ids, nil
}

// InsertMany inserts candidates in one transaction. Pairs that already exist
// are skipped by the unique constraint.
func (s *Store) InsertMany(ctx context.Context, quotes []domain.QuoteCandidate) (int, error) {
	if len(quotes) == 0 {
		return 0, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	const q = `
	INSERT INTO quotes (quote_text, author, likes) VALUES ($1, $2, 0)
	ON CONFLICT (quote_text, author) DO NOTHING;
	`

	batch := &pgx.Batch{}
	for _, c := range quotes {
		batch.Queue(q, c.Text, c.Author)
	}

	results := tx.SendBatch(ctx, batch)

	inserted := 0

	for range quotes {
		tag, err := results.Exec()
		if err != nil {
			_ = results.Close()
			return 0, fmt.Errorf("insert quote: %w", err)
		}

		inserted += int(tag.RowsAffected())
	}

	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("insert quotes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}

	return inserted, nil
}

// IncrementLikes adds one like in a single statement.
func (s *Store) IncrementLikes(ctx context.Context, id int64) (int, error) {
	const q = `UPDATE quotes SET likes = likes + 1 WHERE id = $1 RETURNING likes`

	var likes int

	err := s.pool.QueryRow(ctx, q, id).Scan(&likes)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.NewNotFoundError(id)
	}

	if err != nil {
		return 0, fmt.Errorf("increment likes for quote %d: %w", id, err)
	}

	return likes, nil
}

func (s *Store) queryQuotes(ctx context.Context, query string) ([]domain.Quote, error) {
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]domain.Quote, 0)

	for rows.Next() {
		var q domain.Quote
		if err := rows.Scan(&q.ID, &q.Text, &q.Author, &q.Likes); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}

		quotes = append(quotes, q)
	}

	return quotes, rows.Err()
}
