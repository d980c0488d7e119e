// Package redis provides a Redis-backed client storage for deployments that
// run more than one server instance.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/msomdec/discount-pro/internal/domain"
)

const defaultKeyPrefix = "storage:"

// KeyValueStore implements domain.KeyValueStore on Redis strings.
type KeyValueStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// Option configures a KeyValueStore.
type Option func(*KeyValueStore)

// WithTTL expires stored values after ttl. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *KeyValueStore) {
		s.ttl = ttl
	}
}

// WithKeyPrefix namespaces all keys written by the store.
func WithKeyPrefix(prefix string) Option {
	return func(s *KeyValueStore) {
		s.prefix = prefix
	}
}

// NewKeyValueStore constructs a Redis-backed store.
func NewKeyValueStore(client *redis.Client, opts ...Option) *KeyValueStore {
	s := &KeyValueStore{
		client: client,
		prefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *KeyValueStore) key(scope, key string) string {
	return s.prefix + scope + ":" + key
}

func (s *KeyValueStore) Get(ctx context.Context, scope, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key(scope, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return value, nil
}

func (s *KeyValueStore) Put(ctx context.Context, scope, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(scope, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *KeyValueStore) Delete(ctx context.Context, scope, key string) error {
	if err := s.client.Del(ctx, s.key(scope, key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Connect parses a redis:// URL, opens a client and pings it.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}
