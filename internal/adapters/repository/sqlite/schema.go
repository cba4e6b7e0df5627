package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

const schemaV1 = `
CREATE TABLE IF NOT EXISTS quotes (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  quote_text TEXT    NOT NULL CHECK (quote_text <> ''),
  author     TEXT    NOT NULL DEFAULT '',
  likes      INTEGER NOT NULL DEFAULT 0 CHECK (likes >= 0)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_quotes_text_author
ON quotes(quote_text, author);

CREATE INDEX IF NOT EXISTS idx_quotes_likes
ON quotes(likes DESC, id)
WHERE likes > 0;
`

// migrate applies schema migrations based on user_version.
func migrate(ctx context.Context, db *sql.DB) error {
	version, err := userVersion(ctx, db)
	if err != nil {
		return err
	}

	if version < 1 {
		if _, err := db.ExecContext(ctx, schemaV1); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}

		if err := setUserVersion(ctx, db, 1); err != nil {
			return err
		}
	}

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(ctx context.Context, db *sql.DB) error {
	var journalMode string
	if err := db.QueryRowContext(ctx, "PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}

	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}

	return nil
}

func userVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}

	return version, nil
}

func setUserVersion(ctx context.Context, db *sql.DB, version int) error {
	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}

	return nil
}
