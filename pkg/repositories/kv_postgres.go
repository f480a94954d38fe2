package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/brandonnguyen11/rosterAI/pkg/database"
)

type postgresKeyValueStore struct {
	db *database.DB
}

// NewPostgresKeyValueStore creates a KeyValueStore on the kv_entries table.
// Migrations must have been applied. The store owns db and closes it on Close.
func NewPostgresKeyValueStore(db *database.DB) KeyValueStore {
	return &postgresKeyValueStore{db: db}
}

var _ KeyValueStore = (*postgresKeyValueStore)(nil)

func (s *postgresKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := `SELECT value FROM kv_entries WHERE key = $1`

	var value string
	err := s.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get entry: %w", err)
	}
	return value, true, nil
}

// SetMany upserts all entries in one transaction.
func (s *postgresKeyValueStore) SetMany(ctx context.Context, entries map[string]string) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO kv_entries (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key)
		DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at`

	now := time.Now()
	for k, v := range entries {
		if _, err := tx.Exec(ctx, query, k, v, now); err != nil {
			return fmt.Errorf("failed to upsert entry %s: %w", k, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit entries: %w", err)
	}
	return nil
}

func (s *postgresKeyValueStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	query := `DELETE FROM kv_entries WHERE key = ANY($1)`
	if _, err := s.db.Exec(ctx, query, keys); err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}
	return nil
}

func (s *postgresKeyValueStore) Close() error {
	s.db.Close()
	return nil
}
