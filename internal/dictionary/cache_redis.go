package dictionary

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lineage/internal/platform/redis"
)

const cacheTTL = 12 * time.Hour

// CachedStore is a Redis read-through decorator over another Store.
// Dictionary rows change rarely and are read on every name resolution, so a
// long TTL is safe. Redis failures fall through to the inner store.
type CachedStore struct {
	inner  Store
	client *redis.Client
	logger *slog.Logger
}

// NewCachedStore wraps inner with a Redis cache. With a nil client the inner
// store is returned unwrapped.
func NewCachedStore(inner Store, client *redis.Client, logger *slog.Logger) Store {
	if client == nil {
		return inner
	}
	return &CachedStore{inner: inner, client: client, logger: logger}
}

func cacheKey(kind Kind, id int64) string {
	return fmt.Sprintf("dict:%s:%d", kind, id)
}

func (s *CachedStore) Lookup(ctx context.Context, kind Kind, ids []int64) (map[int64]string, error) {
	if len(ids) == 0 {
		return map[int64]string{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cacheKey(kind, id)
	}

	out := make(map[int64]string, len(ids))
	var misses []int64

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		s.logger.WarnContext(ctx, "dictionary cache read failed", "error", err)
		misses = ids
	} else {
		for i, v := range values {
			str, ok := v.(string)
			if !ok {
				misses = append(misses, ids[i])
				continue
			}
			out[ids[i]] = str
		}
	}

	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := s.inner.Lookup(ctx, kind, misses)
	if err != nil {
		return nil, err
	}
	for id, value := range fetched {
		out[id] = value
		if err := s.client.Set(ctx, cacheKey(kind, id), value, cacheTTL).Err(); err != nil {
			s.logger.WarnContext(ctx, "dictionary cache write failed", "error", err)
		}
	}
	return out, nil
}

// Invalidate drops cached entries, for use after dictionary edits.
func (s *CachedStore) Invalidate(ctx context.Context, kind Kind, ids ...int64) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cacheKey(kind, id)
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		s.logger.WarnContext(ctx, "dictionary cache invalidation failed",
			"kind", string(kind), "count", len(ids), "error", err)
	}
}
