package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/symptomd/internal/db"
)

// HIncrByMulti applies all increments (and their EXPIRE NX) in a single DoMulti round-trip.
func (s *Store) HIncrByMulti(ctx context.Context, items []db.HashIncr) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, 0, len(items)*2)
	ops := make([]string, 0, len(items)*2)
	for _, it := range items {
		cmds = append(cmds, s.b().Hincrby().Key(it.Key).Field(it.Field).Increment(it.By).Build())
		ops = append(ops, db.OpHIncrBy)
		if it.TTL > 0 {
			cmds = append(cmds, s.b().Expire().Key(it.Key).Seconds(int64(it.TTL.Seconds())).Nx().Build())
			ops = append(ops, db.OpExpire)
		}
	}

	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			return &db.Error{Op: ops[i], Err: fmt.Errorf("command %d: %w", i, err)}
		}
	}
	return nil
}

// HGetAll returns all fields of a hash. A missing key yields an empty map.
func (s *Store) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	cmd := s.b().Hgetall().Key(key).Build()
	m, err := s.do(ctx, cmd).AsStrMap()
	if err != nil {
		return nil, &db.Error{Op: db.OpHGetAll, Err: err}
	}
	return m, nil
}
