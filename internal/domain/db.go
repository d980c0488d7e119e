package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (SQLite, in-memory) owns its own schema strategy,
// so the directory backend stays swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}
