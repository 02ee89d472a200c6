package redisstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned for absent keys regardless of backend.
var ErrNotFound = errors.New("redisstore: key not found")

// KV is the durable key/value capability handed to the preference and
// credential stores. Implementations must report absent keys as
// ErrNotFound, never as empty values.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Store is the redis-backed KV.
type Store struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// Ping verifies the connection; callers may degrade to Noop on failure.
func (s *Store) Ping(ctx context.Context) error {
	cctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.rdb.Ping(cctx).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, key, value, 0).Err()
}

func (s *Store) Remove(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

// Noop is the degrade path when no durable storage is reachable. Reads see
// nothing, writes vanish; callers fall back to their defaults.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) (string, error) { return "", ErrNotFound }
func (Noop) Set(ctx context.Context, key, value string) error    { return nil }
func (Noop) Remove(ctx context.Context, key string) error        { return nil }
