// Package sqlite implements ports.QuoteStore on an embedded SQLite database
// (modernc.org/sqlite, no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/jsamuelsen/quote-service/internal/domain"
)

// Config holds SQLite store settings.
type Config struct {
	// Path is the database file. Parent directories are created on Open.
	Path string

	// MaxOpenConns and MaxIdleConns are applied only when non-zero.
	MaxOpenConns int
	MaxIdleConns int
}

// Store is a ports.QuoteStore backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at cfg.Path, enables WAL mode
// and applies the schema.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Pragmas in the DSN apply to every pooled connection.
	dsn := cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	if err := verifyWALMode(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Name returns the health check name.
func (s *Store) Name() string {
	return "store"
}

// Check pings the database.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListAll returns every quote ordered by id.
func (s *Store) ListAll(ctx context.Context) ([]domain.Quote, error) {
	const q = `SELECT id, quote_text, author, likes FROM quotes ORDER BY id`

	return s.queryQuotes(ctx, q)
}

// FindByID returns a single quote or a not found error.
func (s *Store) FindByID(ctx context.Context, id int64) (*domain.Quote, error) {
	const q = `SELECT id, quote_text, author, likes FROM quotes WHERE id = ?`

	var quote domain.Quote

	err := s.db.QueryRowContext(ctx, q, id).Scan(&quote.ID, &quote.Text, &quote.Author, &quote.Likes)
	if errors.Is(err, sql.ErrNoRows) {
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
		ORDER BY likes DESC, id ASC
	`

	return s.queryQuotes(ctx, q)
}

// ListIDsExcluding returns ids not present in exclude, ascending.
// The exclusion set is bound as a single JSON array parameter so its size is
// not limited by SQLite's host parameter cap.
func (s *Store) ListIDsExcluding(ctx context.Context, exclude []int64) ([]int64, error) {
	if exclude == nil {
		exclude = []int64{}
	}

	excludeJSON, err := json.Marshal(exclude)
	if err != nil {
		return nil, fmt.Errorf("encode exclusion set: %w", err)
	}

	const q = `
		SELECT id FROM quotes
		WHERE id NOT IN (SELECT value FROM json_each(?))
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, q, string(excludeJSON))
	if err != nil {
		return nil, fmt.Errorf("list quote ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan quote id: %w", err)
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// InsertMany inserts candidates in one transaction. Pairs that already exist
// are skipped by the unique index.
func (s *Store) InsertMany(ctx context.Context, quotes []domain.QuoteCandidate) (int, error) {
	if len(quotes) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO quotes (quote_text, author, likes) VALUES (?, ?, 0)
		ON CONFLICT (quote_text, author) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0

	for _, c := range quotes {
		res, err := stmt.ExecContext(ctx, c.Text, c.Author)
		if err != nil {
			return 0, fmt.Errorf("insert quote: %w", err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("insert quote: %w", err)
		}

		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert: %w", err)
	}

	return inserted, nil
}

// IncrementLikes adds one like in a single statement.
func (s *Store) IncrementLikes(ctx context.Context, id int64) (int, error) {
	const q = `UPDATE quotes SET likes = likes + 1 WHERE id = ? RETURNING likes`

	var likes int

	err := s.db.QueryRowContext(ctx, q, id).Scan(&likes)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NewNotFoundError(id)
	}

	if err != nil {
		return 0, fmt.Errorf("increment likes for quote %d: %w", id, err)
	}

	return likes, nil
}

func (s *Store) queryQuotes(ctx context.Context, query string, args ...any) ([]domain.Quote, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
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
