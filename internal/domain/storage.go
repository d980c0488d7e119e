package domain

import "context"

// KeyValueStore holds small opaque values grouped by scope. Every browser
// client gets its own scope, the server-side stand-in for local storage.
type KeyValueStore interface {
	// Get returns ErrNotFound when the key is absent.
	Get(ctx context.Context, scope, key string) ([]byte, error)
	Put(ctx context.Context, scope, key string, value []byte) error
	// Delete is a no-op for absent keys.
	Delete(ctx context.Context, scope, key string) error
}
