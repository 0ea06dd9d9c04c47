package stats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/symptomd/internal/db"
	"github.com/kailas-cloud/symptomd/internal/domain/disease"
)

// store is the consumer interface for stats operations (ISP).
type store interface {
	HIncrByMulti(ctx context.Context, items []db.HashIncr) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Store keeps per-label prediction counters in Redis hashes:
// {prefix}stats:day:{YYYY-MM-DD} (expires after retention) and {prefix}stats:total.
type Store struct {
	store     store
	prefix    string
	retention time.Duration
	now       func() time.Time
}

// New creates a stats store. retention is the TTL of daily hashes.
func New(s store, prefix string, retention time.Duration) *Store {
	return &Store{store: s, prefix: prefix, retention: retention, now: time.Now}
}

// Record increments the daily and total counters for label in one round-trip.
// The daily TTL is set only when the key has none (EXPIRE NX).
func (s *Store) Record(ctx context.Context, label disease.Label) error {
	field := string(label)
	err := s.store.HIncrByMulti(ctx, []db.HashIncr{
		{Key: s.dayKey(s.now()), Field: field, By: 1, TTL: s.retention},
		{Key: s.totalKey(), Field: field, By: 1},
	})
	if err != nil {
		return fmt.Errorf("stats record %s: %w", label, err)
	}
	return nil
}

// Day returns counts for the UTC day containing t.
func (s *Store) Day(ctx context.Context, t time.Time) (map[disease.Label]int64, error) {
	return s.read(ctx, s.dayKey(t))
}

// Total returns all-time counts.
func (s *Store) Total(ctx context.Context) (map[disease.Label]int64, error) {
	return s.read(ctx, s.totalKey())
}

func (s *Store) read(ctx context.Context, key string) (map[disease.Label]int64, error) {
	raw, err := s.store.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("stats HGETALL %s: %w", key, err)
	}
	out := make(map[disease.Label]int64, len(raw))
	for field, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("stats %s field %q parse: %w", key, field, err)
		}
		out[disease.Label(field)] = n
	}
	return out, nil
}

func (s *Store) dayKey(t time.Time) string {
	return s.prefix + "stats:day:" + t.UTC().Format(time.DateOnly)
}

func (s *Store) totalKey() string {
	return s.prefix + "stats:total"
}
