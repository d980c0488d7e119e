package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/msomdec/discount-pro/internal/domain"
)

func TestKeyValueStore_PutGet(t *testing.T) {
	db := newTestDB(t)
	store := db.KeyValues()
	ctx := context.Background()

	if err := store.Put(ctx, "client-a", "user", []byte(`{"id":"1"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "client-a", "user")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"id":"1"}` {
		t.Fatalf("expected stored value, got %q", got)
	}
}

func TestKeyValueStore_PutOverwrites(t *testing.T) {
	db := newTestDB(t)
	store := db.KeyValues()
	ctx := context.Background()

	if err := store.Put(ctx, "client-a", "user", []byte("first")); err != nil {
		t.Fatalf("Put first: %v", err)
	}
	if err := store.Put(ctx, "client-a", "user", []byte("second")); err != nil {
		t.Fatalf("Put second: %v", err)
	}

	got, err := store.Get(ctx, "client-a", "user")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected last write to win, got %q", got)
	}
}

func TestKeyValueStore_ScopesAreIsolated(t *testing.T) {
	db := newTestDB(t)
	store := db.KeyValues()
	ctx := context.Background()

	if err := store.Put(ctx, "client-a", "user", []byte("a")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	_, err := store.Get(ctx, "client-b", "user")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound in other scope, got %v", err)
	}
}

func TestKeyValueStore_Delete(t *testing.T) {
	db := newTestDB(t)
	store := db.KeyValues()
	ctx := context.Background()

	if err := store.Put(ctx, "client-a", "user", []byte("a")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, "client-a", "user"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := store.Get(ctx, "client-a", "user")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := store.Delete(ctx, "client-a", "user"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}
