// Package redisstore keeps tada's keys in Redis so several machines can
// share one list.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultPrefix = "tada:"

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	Timeout  time.Duration
}

type Store struct {
	rdb     *redis.Client
	prefix  string
	timeout time.Duration
}

// New connects and pings Redis.
func New(ctx context.Context, opt Options) (*Store, error) {
	if opt.Addr == "" {
		return nil, errors.New("redis addr is empty")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})
	s := NewWithClient(rdb, opt.Prefix, opt.Timeout)

	pctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return s, nil
}

// NewWithClient wraps an existing client. An empty prefix means
// DefaultPrefix; a zero timeout means none.
func NewWithClient(rdb *redis.Client, prefix string, timeout time.Duration) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix, timeout: timeout}
}

func (s *Store) Key(key string) string { return s.prefix + key }

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	v, err := s.rdb.Get(ctx, s.Key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.rdb.Set(ctx, s.Key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error { return s.rdb.Close() }

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
