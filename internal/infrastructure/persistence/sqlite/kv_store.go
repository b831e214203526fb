package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garyjia/default-desk/internal/application/port"
	"go.uber.org/zap"
)

// KVStore implements port.KeyValueStore on the client_storage table
type KVStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewKVStore creates a key-value store. The client_storage migration must have run.
func NewKVStore(db *sql.DB, logger *zap.Logger) *KVStore {
	return &KVStore{db: db, logger: logger}
}

// Get implements port.KeyValueStore
func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM client_storage WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements port.KeyValueStore
func (s *KVStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO client_storage (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
		s.logger.Error("Failed to write client storage", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	return nil
}

// Remove implements port.KeyValueStore
func (s *KVStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM client_storage WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	return nil
}

// Verify interface compliance
var _ port.KeyValueStore = (*KVStore)(nil)
