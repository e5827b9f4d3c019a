package querycache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// ErrNoLoader is returned by New when no Loader is given.
var ErrNoLoader = errors.New("querycache: loader is required")

// Loader fetches the value for key from the source of truth.
type Loader[V any] func(ctx context.Context, key string) (V, error)

// Store is an optional second tier behind the in-memory entries.
type Store[V any] interface {
	// Load returns the stored value and when it was fetched.
	// found is false on a miss; err is reserved for store failures.
	Load(ctx context.Context, key string) (value V, fetchedAt time.Time, found bool, err error)

	// Save stores value. ttl <= 0 means the store keeps it indefinitely.
	Save(ctx context.Context, key string, value V, fetchedAt time.Time, ttl time.Duration) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error
}

// Options configures a Cache.
type Options struct {
	// StaleTime is how long a loaded value is served without reloading.
	// Zero means every Fetch reloads.
	StaleTime time.Duration

	// GCTime is how long an entry is kept at all. Entries older than this
	// are dropped on access. Zero keeps entries until evicted by size.
	GCTime time.Duration

	// MaxEntries bounds the number of in-memory entries. Defaults to 128.
	MaxEntries int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Logger receives cache events. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

const defaultMaxEntries = 128

// Source says where a Fetch result came from.
type Source int

const (
	// SourceLoader means the Loader was called (or joined) for this result.
	SourceLoader Source = iota
	// SourceMemory means a fresh in-memory entry answered the Fetch.
	SourceMemory
	// SourceStore means a fresh entry in the second tier answered the Fetch.
	SourceStore
)

// String returns the string representation.
func (s Source) String() string {
	switch s {
	case SourceMemory:
		return "memory"
	case SourceStore:
		return "store"
	default:
		return "loader"
	}
}

// Cached reports whether the result was served without calling the Loader.
func (s Source) Cached() bool {
	return s != SourceLoader
}

// Entry is a point-in-time view of a cached key.
type Entry[V any] struct {
	Value     V
	UpdatedAt time.Time
	Fresh     bool
}

// Stats holds cache counters.
type Stats struct {
	Entries int
	Hits    uint64
	Misses  uint64
	Loads   uint64
	Shared  uint64
}

type entry[V any] struct {
	value       V
	updatedAt   time.Time
	invalidated bool
}

// loadToken tracks one in-flight load. A stale load still answers its
// callers but does not write its value back.
type loadToken struct {
	stale bool
}

// Cache is a keyed request cache. It is safe for concurrent use.
type Cache[V any] struct {
	load  Loader[V]
	store Store[V]
	opts  Options
	log   zerolog.Logger

	mu       sync.Mutex
	entries  *lru.Cache[string, entry[V]]
	inflight map[string]*loadToken
	group    singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
	loads  atomic.Uint64
	shared atomic.Uint64
}

// New creates a Cache backed by load. store may be nil.
func New[V any](load Loader[V], store Store[V], opts Options) (*Cache[V], error) {
	if load == nil {
		return nil, ErrNoLoader
	}
	if opts.MaxEntries <= 0 {
		opts.MaxEntries = defaultMaxEntries
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	entries, err := lru.New[string, entry[V]](opts.MaxEntries)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}

	return &Cache[V]{
		load:     load,
		store:    store,
		opts:     opts,
		log:      log,
		entries:  entries,
		inflight: make(map[string]*loadToken),
	}, nil
}

// Fetch returns the value for key, reloading it when the cached entry is
// missing or stale. Concurrent calls for one key share a single load.
func (c *Cache[V]) Fetch(ctx context.Context, key string) (V, Source, error) {
	if v, ok := c.Peek(key); ok {
		c.hits.Add(1)
		c.log.Debug().Str("key", key).Msg("memory hit")
		return v, SourceMemory, nil
	}

	if v, ok := c.fromStore(ctx, key); ok {
		c.hits.Add(1)
		c.log.Debug().Str("key", key).Msg("store hit")
		return v, SourceStore, nil
	}

	c.misses.Add(1)

	// Loads ignore caller cancellation; each caller stops waiting on its own ctx.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		c.loads.Add(1)
		c.log.Debug().Str("key", key).Msg("loading")
		tok := c.beginLoad(key)
		v, err := c.load(loadCtx, key)
		if err != nil {
			c.endLoad(key, tok)
			c.log.Debug().Str("key", key).Err(err).Msg("load failed")
			return v, err
		}
		c.put(loadCtx, key, v, tok)
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, SourceLoader, ctx.Err()
	case res := <-ch:
		if res.Shared {
			c.shared.Add(1)
		}
		if res.Err != nil {
			return zero, SourceLoader, res.Err
		}
		return res.Val.(V), SourceLoader, nil
	}
}

// Peek returns the value for key only if a fresh entry is in memory.
// It never calls the Loader or the Store.
func (c *Cache[V]) Peek(key string) (V, bool) {
	e, ok := c.Snapshot(key)
	if !ok || !e.Fresh {
		var zero V
		return zero, false
	}
	return e.Value, true
}

// Snapshot returns the in-memory entry for key, fresh or not.
func (c *Cache[V]) Snapshot(key string) (Entry[V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries.Get(key)
	if !ok {
		return Entry[V]{}, false
	}
	age := c.opts.Now().Sub(e.updatedAt)
	if c.opts.GCTime > 0 && age >= c.opts.GCTime {
		c.entries.Remove(key)
		return Entry[V]{}, false
	}
	return Entry[V]{
		Value:     e.value,
		UpdatedAt: e.updatedAt,
		Fresh:     !e.invalidated && age < c.opts.StaleTime,
	}, true
}

// Invalidate marks key stale so the next Fetch reloads it. The stale value
// stays visible through Snapshot until the reload completes. A load already
// in flight for key is detached: its callers still get its result, but the
// next Fetch starts a new load and the old result is not cached.
func (c *Cache[V]) Invalidate(ctx context.Context, key string) error {
	c.mu.Lock()
	if e, ok := c.entries.Peek(key); ok {
		e.invalidated = true
		c.entries.Add(key, e)
	}
	if tok, ok := c.inflight[key]; ok {
		tok.stale = true
		delete(c.inflight, key)
	}
	c.group.Forget(key)
	c.mu.Unlock()

	if c.store == nil {
		return nil
	}
	if err := c.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("invalidate %q: %w", key, err)
	}
	return nil
}

// Len returns the number of in-memory entries, including stale ones.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Entries: c.Len(),
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Loads:   c.loads.Load(),
		Shared:  c.shared.Load(),
	}
}

func (c *Cache[V]) beginLoad(key string) *loadToken {
	tok := &loadToken{}
	c.mu.Lock()
	c.inflight[key] = tok
	c.mu.Unlock()
	return tok
}

// endLoad retires tok and reports whether it is still current.
func (c *Cache[V]) endLoad(key string, tok *loadToken) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.retire(key, tok)
}

// retire must be called with c.mu held.
func (c *Cache[V]) retire(key string, tok *loadToken) bool {
	if c.inflight[key] == tok {
		delete(c.inflight, key)
	}
	return !tok.stale
}

func (c *Cache[V]) put(ctx context.Context, key string, value V, tok *loadToken) {
	now := c.opts.Now()

	c.mu.Lock()
	if !c.retire(key, tok) {
		c.mu.Unlock()
		c.log.Debug().Str("key", key).Msg("discarding load superseded by invalidate")
		return
	}
	c.entries.Add(key, entry[V]{value: value, updatedAt: now})
	c.mu.Unlock()

	if c.store == nil {
		return
	}
	if err := c.store.Save(ctx, key, value, now, c.opts.GCTime); err != nil {
		c.log.Warn().Str("key", key).Err(err).Msg("store save failed")
	}
}

func (c *Cache[V]) fromStore(ctx context.Context, key string) (V, bool) {
	var zero V
	if c.store == nil {
		return zero, false
	}
	if e, ok := c.Snapshot(key); ok && !e.Fresh {
		// A stale memory entry means the store copy is at least as old.
		return zero, false
	}

	v, fetchedAt, found, err := c.store.Load(ctx, key)
	if err != nil {
		c.log.Warn().Str("key", key).Err(err).Msg("store load failed")
		return zero, false
	}
	if !found || c.opts.Now().Sub(fetchedAt) >= c.opts.StaleTime {
		return zero, false
	}

	c.mu.Lock()
	c.entries.Add(key, entry[V]{value: v, updatedAt: fetchedAt})
	c.mu.Unlock()
	return v, true
}
