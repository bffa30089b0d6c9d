// Package redis persists collection snapshots as plain string values in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobtracker/pkg/domain"

	goredis "github.com/redis/go-redis/v9"
)

// Compile-time contract assertion ensuring the store satisfies the domain medium interface.
var _ domain.Medium = (*Store)(nil)

// Driver is the name reported by Store.Driver.
const Driver = "redis"

const pingTimeout = 2 * time.Second

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
	// Prefix is prepended to every key, letting several trackers share a database.
	Prefix string
}

// Store reads and writes one Redis string per key. Values never expire.
type Store struct {
	client *goredis.Client
	prefix string
}

// NewStore connects to Redis and verifies the connection with PING.
func NewStore(ctx context.Context, opts Options) (*Store, error) {
	if opts.Addr == "" {
		opts.Addr = "localhost:6379"
	}
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return NewStoreWithClient(client, opts.Prefix), nil
}

// NewStoreWithClient wraps an existing client without pinging it.
func NewStoreWithClient(client *goredis.Client, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) redisKey(key string) string { return s.prefix + key }

// Read returns the payload stored for key.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	b, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("redis %s: %w", key, domain.ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return b, nil
}

// Write stores payload under key, replacing any previous value.
func (s *Store) Write(ctx context.Context, key string, payload []byte) error {
	if err := s.client.Set(ctx, s.redisKey(key), payload, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Driver returns the medium identifier.
func (s *Store) Driver() string { return Driver }

// Close releases the client connection pool.
func (s *Store) Close() error { return s.client.Close() }

// Prefix returns the configured key prefix.
func (s *Store) Prefix() string { return s.prefix }
