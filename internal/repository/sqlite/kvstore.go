package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/discount-pro/internal/domain"
)

// KeyValueStore implements domain.KeyValueStore using SQLite BLOBs.
type KeyValueStore struct {
	db *sql.DB
}

// NewKeyValueStore creates a new SQLite-backed KeyValueStore.
func NewKeyValueStore(db *DB) *KeyValueStore {
	return &KeyValueStore{db: db.SqlDB}
}

func (s *KeyValueStore) Get(ctx context.Context, scope, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM client_storage WHERE scope = ? AND storage_key = ?", scope, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get storage value: %w", err)
	}
	return value, nil
}

func (s *KeyValueStore) Put(ctx context.Context, scope, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO client_storage (scope, storage_key, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (scope, storage_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		scope, key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("put storage value: %w", err)
	}
	return nil
}

func (s *KeyValueStore) Delete(ctx context.Context, scope, key string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM client_storage WHERE scope = ? AND storage_key = ?", scope, key,
	)
	if err != nil {
		return fmt.Errorf("delete storage value: %w", err)
	}
	return nil
}
