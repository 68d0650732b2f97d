// Package redis is a session.KV backed by Redis. Keys are namespaced by a
// prefix so several profiles can share one server.
package redis

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/devhub/internal/session"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces session keys when no prefix is configured.
const DefaultPrefix = "devhub"

type Store struct {
	rdb    redis.UniversalClient
	prefix string
}

var _ session.KV = (*Store)(nil)

// NewStore returns a Store writing keys as "<prefix>:<key>".
func NewStore(rdb redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) key(k string) string {
	return s.prefix + ":" + k
}

// Ping verifies the server is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// SetAll writes every entry in one MULTI/EXEC transaction.
func (s *Store) SetAll(ctx context.Context, entries map[string][]byte) error {
	if len(entries) == 0 {
		return nil
	}

	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, s.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) GetAll(ctx context.Context, keys ...string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	if len(keys) == 0 {
		return out, nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}

	values, err := s.rdb.MGet(ctx, full...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	for i, v := range values {
		if str, ok := v.(string); ok {
			out[keys[i]] = []byte(str)
		}
	}
	return out, nil
}

// DeleteAll removes keys with a single DEL.
func (s *Store) DeleteAll(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}

	if err := s.rdb.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
