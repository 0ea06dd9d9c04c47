package db

import (
	"context"
	"time"
)

// Store is the database facade used for prediction statistics.
type Store interface {
	Pinger
	HashStore
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashIncr is one field increment for HIncrByMulti.
type HashIncr struct {
	Key   string
	Field string
	By    int64
	// TTL, when positive, is applied with EXPIRE NX after the increment.
	TTL time.Duration
}

// HashStore provides hash counter operations.
type HashStore interface {
	HIncrByMulti(ctx context.Context, items []HashIncr) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
