package query

import (
	"context"
	"sync"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Key identifies a cached server collection
type Key string

const (
	KeyProjects      Key = "projects"
	KeyBeneficiaries Key = "beneficiaries"
	KeyExperts       Key = "experts"
	KeyUsers         Key = "users"
)

// FinancesKey is the per-project cache key for finance operations
func FinancesKey(projectID string) Key {
	return Key("finances:" + projectID)
}

// TechniquesKey is the per-project cache key for technique operations
func TechniquesKey(projectID string) Key {
	return Key("techniques:" + projectID)
}

// entry is a cached collection. A stale entry keeps its value so consumers
// can render old data while a refetch runs.
type entry struct {
	value any
	stale bool
}

type call struct {
	done  chan struct{}
	value any
	err   error
}

// Cache holds one collection per key, refetched wholesale after every
// mutation. At most one fetch per key runs at a time; concurrent callers
// await the in-flight one. Nothing survives a process restart.
type Cache struct {
	mu       sync.Mutex
	store    *gocache.Cache
	inflight map[Key]*call
	log      *zap.Logger
}

// NewCache creates an empty cache. Entries never expire on their own;
// invalidation is explicit, driven by mutations.
func NewCache(log *zap.Logger) *Cache {
	return &Cache{
		store:    gocache.New(gocache.NoExpiration, 0),
		inflight: make(map[Key]*call),
		log:      log,
	}
}

// FetchFunc loads a collection from the server
type FetchFunc func(ctx context.Context) (any, error)

// Fetch returns the cached collection for key, running fn when the entry
// is absent or invalidated. A failed fetch leaves the previous value in
// place and returns it alongside the error; nothing is retried.
func (c *Cache) Fetch(ctx context.Context, key Key, fn FetchFunc) (any, error) {
	c.mu.Lock()

	if e := c.lookup(key); e != nil && !e.stale {
		c.mu.Unlock()
		return e.value, nil
	}

	if inflight := c.inflight[key]; inflight != nil {
		c.mu.Unlock()
		select {
		case <-inflight.done:
			return inflight.value, inflight.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	value, err := fn(ctx)

	c.mu.Lock()
	delete(c.inflight, key)
	if err == nil {
		c.store.Set(string(key), &entry{value: value}, gocache.NoExpiration)
		cl.value = value
	} else {
		if e := c.lookup(key); e != nil {
			cl.value = e.value
		}
		cl.err = err
		c.log.Warn("fetch failed, serving stale value", zap.String("key", string(key)), zap.Error(err))
	}
	c.mu.Unlock()
	close(cl.done)

	return cl.value, cl.err
}

// Invalidate marks the entry stale so the next Fetch refetches. The old
// value is kept for stale reads until the refetch lands.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e := c.lookup(key); e != nil {
		e.stale = true
	}
}

// Cached returns the stored collection, stale or not, without fetching.
func (c *Cache) Cached(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e := c.lookup(key); e != nil {
		return e.value, true
	}
	return nil, false
}

// IsLoading reports whether the first fetch for key is still running,
// with no previous data to show.
func (c *Cache) IsLoading(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[key] != nil && c.lookup(key) == nil
}

// IsFetching reports whether any fetch for key is running.
func (c *Cache) IsFetching(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight[key] != nil
}

// lookup must be called with the mutex held
func (c *Cache) lookup(key Key) *entry {
	if v, ok := c.store.Get(string(key)); ok {
		return v.(*entry)
	}
	return nil
}

// Collection is a typed wrapper over Fetch for entity slices.
func Collection[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) ([]T, error)) ([]T, error) {
	value, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	items, _ := value.([]T)
	return items, err
}
