package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/store/memstore"
	"github.com/Makepad-fr/tada/internal/store/redisstore"
)

// Backend names accepted by OpenStorage.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

// BackendOptions selects and configures a Storage implementation.
type BackendOptions struct {
	Backend  string
	DataFile string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	RedisTimeout  time.Duration
}

// OpenStorage builds the configured backend. An empty Backend means file.
func OpenStorage(ctx context.Context, opt BackendOptions) (Storage, error) {
	switch opt.Backend {
	case "", BackendFile:
		s, err := jsonstore.New(opt.DataFile)
		if err != nil {
			return nil, fmt.Errorf("open file storage: %w", err)
		}
		return s, nil
	case BackendRedis:
		s, err := redisstore.New(ctx, redisstore.Options{
			Addr:     opt.RedisAddr,
			Password: opt.RedisPassword,
			DB:       opt.RedisDB,
			Prefix:   opt.RedisPrefix,
			Timeout:  opt.RedisTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis storage: %w", err)
		}
		return s, nil
	case BackendMemory:
		return memstore.New(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opt.Backend)
}
