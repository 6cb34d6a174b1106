package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pagesmith/internal/database"
)

// SQLStore keeps entries in the kv_entries table created by the database
// migrations. The same code serves PostgreSQL, SQLite and MySQL.
type SQLStore struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLStore wraps an open, migrated database.
func NewSQLStore(db *sql.DB, dialect database.Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

// placeholder returns the n-th bind parameter for the dialect.
func (s *SQLStore) placeholder(n int) string {
	if s.dialect == database.Postgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLStore) upsertQuery() string {
	switch s.dialect {
	case database.MySQL:
		return `INSERT INTO kv_entries (name, content, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP(6))
			ON DUPLICATE KEY UPDATE content = VALUES(content), updated_at = CURRENT_TIMESTAMP(6)`
	case database.Postgres:
		return `INSERT INTO kv_entries (name, content, updated_at) VALUES ($1, $2, now())
			ON CONFLICT (name) DO UPDATE SET content = EXCLUDED.content, updated_at = now()`
	default:
		return `INSERT INTO kv_entries (name, content, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (name) DO UPDATE SET content = excluded.content, updated_at = CURRENT_TIMESTAMP`
	}
}

func (s *SQLStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT content FROM kv_entries WHERE name = "+s.placeholder(1), key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.upsertQuery(), key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv_entries WHERE name = "+s.placeholder(1), key)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
