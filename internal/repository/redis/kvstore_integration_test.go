//go:build integration

package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/msomdec/discount-pro/internal/domain"
	"github.com/msomdec/discount-pro/internal/repository/redis"
)

func newTestStore(t *testing.T, opts ...redis.Option) *redis.KeyValueStore {
	t.Helper()
	return redis.NewKeyValueStore(newTestClient(t), opts...)
}

func newTestClient(t *testing.T) *goredis.Client {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	url, err := container.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("redis connection string: %v", err)
	}

	client, err := redis.Connect(ctx, url)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestKeyValueStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "client-a", "user", []byte(`{"id":"1"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "client-a", "user")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `{"id":"1"}` {
		t.Fatalf("unexpected value %q", got)
	}

	if _, err := store.Get(ctx, "client-b", "user"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other scope, got %v", err)
	}
}

func TestKeyValueStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.Put(ctx, "client-a", "user", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Delete(ctx, "client-a", "user"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "client-a", "user"); err != nil {
		t.Fatalf("Delete absent key: %v", err)
	}
	if _, err := store.Get(ctx, "client-a", "user"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestKeyValueStore_TTL(t *testing.T) {
	store := newTestStore(t, redis.WithTTL(time.Second))
	ctx := context.Background()

	if err := store.Put(ctx, "client-a", "user", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	time.Sleep(1500 * time.Millisecond)

	if _, err := store.Get(ctx, "client-a", "user"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected value to expire, got %v", err)
	}
}

func TestKeyValueStore_PrefixIsolatesDeployments(t *testing.T) {
	client := newTestClient(t)
	blue := redis.NewKeyValueStore(client, redis.WithKeyPrefix("blue:"))
	green := redis.NewKeyValueStore(client, redis.WithKeyPrefix("green:"))
	ctx := context.Background()

	if err := blue.Put(ctx, "client-a", "user", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := green.Get(ctx, "client-a", "user"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound under another prefix, got %v", err)
	}
}
