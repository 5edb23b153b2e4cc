package query

import (
	"context"

	"go.uber.org/zap"
)

// Mutator coordinates writes with the cache: a successful mutation
// invalidates every related key so the next read refetches; a failed one
// touches nothing. Invalidation happens only after the server confirmed.
type Mutator struct {
	cache *Cache
	log   *zap.Logger
}

// NewMutator creates a mutation coordinator bound to the cache.
func NewMutator(cache *Cache, log *zap.Logger) *Mutator {
	return &Mutator{cache: cache, log: log}
}

// Do runs op and, on success, invalidates keys in order. The caller
// closes its dialog only after Do returns nil.
func (m *Mutator) Do(ctx context.Context, name string, op func(context.Context) error, keys ...Key) error {
	if err := op(ctx); err != nil {
		m.log.Warn("mutation failed", zap.String("op", name), zap.Error(err))
		return err
	}

	for _, key := range keys {
		m.cache.Invalidate(key)
	}
	m.log.Info("mutation applied", zap.String("op", name), zap.Int("invalidated", len(keys)))
	return nil
}
