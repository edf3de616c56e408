package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/promptable/taskops/observe"
	"github.com/promptable/taskops/task"
)

// Config holds the construction-time parameters of the response cache.
type Config struct {
	// MaxEntries caps the number of live entries. Default: 1000.
	MaxEntries int

	// MaxMemoryBytes caps the estimated memory footprint of all entries.
	// Exceeded only transiently before an eviction pass. Default: 50 MiB.
	MaxMemoryBytes int64

	// DefaultTTL applies to task types without a per-type TTL. Default: 1h.
	DefaultTTL time.Duration

	// SweepInterval is how often the background sweeper removes expired
	// entries. Default: 5m.
	SweepInterval time.Duration

	// MaxOutputBytes rejects pathologically large outputs from caching.
	// Default: 100 KiB.
	MaxOutputBytes int

	// TTLs overrides the per-task-type TTL table.
	TTLs map[task.Type]time.Duration
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxEntries:     1000,
		MaxMemoryBytes: 50 << 20,
		DefaultTTL:     time.Hour,
		SweepInterval:  5 * time.Minute,
		MaxOutputBytes: 100 << 10,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxEntries <= 0 {
		c.MaxEntries = def.MaxEntries
	}
	if c.MaxMemoryBytes <= 0 {
		c.MaxMemoryBytes = def.MaxMemoryBytes
	}
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = def.DefaultTTL
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = def.SweepInterval
	}
	if c.MaxOutputBytes <= 0 {
		c.MaxOutputBytes = def.MaxOutputBytes
	}
	return c
}

// entry is a cached result plus its bookkeeping. Owned exclusively by
// ResponseCache; the stored result is never handed out directly.
type entry struct {
	key       string
	result    task.Result
	createdAt time.Time
	ttl       time.Duration
	size      int64
	elem      *list.Element
}

func (e *entry) expired(now time.Time) bool {
	return now.After(e.createdAt.Add(e.ttl))
}

// ResponseCache maps normalized inputs to previously computed results.
//
// Contract:
// - Concurrency: safe for concurrent use; all state sits behind one mutex.
// - Errors: operations are best-effort and never return internal errors.
// - Ownership: results are cloned on the way out; stored payloads are
//   never mutated by hits.
type ResponseCache struct {
	cfg     Config
	log     observe.Logger
	metrics observe.Metrics
	group   singleflight.Group

	mu        sync.Mutex
	entries   map[string]*entry
	lru       *list.List // front = least recently used, back = most recent
	bytes     int64
	hits      uint64
	misses    uint64
	evictions uint64

	sweepOnce sync.Once
	closeOnce sync.Once
	sweeping  atomic.Bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// Option configures a ResponseCache.
type Option func(*ResponseCache)

// WithLogger attaches a structured logger.
func WithLogger(l observe.Logger) Option {
	return func(c *ResponseCache) {
		c.log = l.WithComponent("cache")
	}
}

// WithMetrics attaches a metrics recorder.
func WithMetrics(m observe.Metrics) Option {
	return func(c *ResponseCache) {
		c.metrics = m
	}
}

// New creates a response cache. The background sweeper is not started until
// StartSweeper is called; the zero lifecycle (no sweeper) is valid and expiry
// is then enforced lazily on lookup and store.
func New(cfg Config, opts ...Option) *ResponseCache {
	c := &ResponseCache{
		cfg:     cfg.withDefaults(),
		log:     observe.NopLogger(),
		metrics: observe.NopMetrics(),
		entries: make(map[string]*entry),
		lru:     list.New(),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup returns the cached result for the input, if a live entry exists.
// The returned result is a copy with CacheHit set; the stored entry is not
// mutated. Expired entries are removed on sight and count as misses.
func (c *ResponseCache) Lookup(ctx context.Context, input string) (task.Result, bool) {
	key := task.Key(input)
	now := time.Now()

	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		c.misses++
		c.mu.Unlock()
		c.metrics.RecordLookup(ctx, string(task.TypeUnknown), false)
		return task.Result{}, false
	}

	if e.expired(now) {
		c.removeLocked(e)
		c.misses++
		taskType := e.result.Classification.Type
		c.mu.Unlock()
		c.metrics.RecordLookup(ctx, string(taskType), false)
		c.log.Debug(ctx, "expired entry removed on lookup", observe.Field{Key: "key", Value: shortKey(key)})
		return task.Result{}, false
	}

	c.lru.MoveToBack(e.elem)
	c.hits++
	res := e.result.Clone()
	c.mu.Unlock()

	res.CacheHit = true
	c.metrics.RecordLookup(ctx, string(res.Classification.Type), true)
	return res, true
}

// Store caches a successful, cache-eligible result for the input. Failed
// results and results rejected by the caching policy are dropped silently;
// storing is always a no-op rather than an error.
func (c *ResponseCache) Store(ctx context.Context, input string, res task.Result) {
	if !res.Success {
		return
	}
	if ok, reason := c.shouldCache(input, res); !ok {
		c.log.Debug(ctx, "result not cacheable",
			observe.Field{Key: "task.type", Value: string(res.Classification.Type)},
			observe.Field{Key: "reason", Value: reason},
		)
		return
	}

	ttl := c.ttlFor(res.Classification.Type)
	if ttl <= 0 {
		return
	}

	c.store(ctx, input, res, ttl)
	c.metrics.RecordStore(ctx, string(res.Classification.Type))
}

// store inserts without consulting the caching policy. Preloading uses it
// directly.
func (c *ResponseCache) store(ctx context.Context, input string, res task.Result, ttl time.Duration) {
	key := task.Key(input)
	size := entrySize(input, res)

	c.mu.Lock()
	defer c.mu.Unlock()

	// Replacing an existing entry: drop the old one first so the map and
	// the LRU list never drift apart.
	if old, ok := c.entries[key]; ok {
		c.removeLocked(old)
	}

	evicted := c.evictForLocked(ctx, size)

	e := &entry{
		key:       key,
		result:    res.Clone(),
		createdAt: time.Now(),
		ttl:       ttl,
		size:      size,
	}
	e.result.CacheHit = false
	e.elem = c.lru.PushBack(e)
	c.entries[key] = e
	c.bytes += size

	if evicted > 0 {
		c.log.Debug(ctx, "eviction pass before store",
			observe.Field{Key: "evicted", Value: evicted},
			observe.Field{Key: "entries", Value: len(c.entries)},
		)
	}
}

// GetOrCompute returns the cached result for the input or computes it with
// fn, deduplicating concurrent computations for the same key: only one caller
// runs fn, the rest share its outcome. Successful results are stored.
func (c *ResponseCache) GetOrCompute(ctx context.Context, input string, fn func(context.Context) (task.Result, error)) (task.Result, error) {
	if res, ok := c.Lookup(ctx, input); ok {
		return res, nil
	}

	v, err, _ := c.group.Do(task.Key(input), func() (any, error) {
		res, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		if res.Success {
			c.Store(ctx, input, res)
		}
		return res, nil
	})
	if err != nil {
		return task.Result{}, err
	}
	// Waiters share one singleflight value; clone so no two callers alias
	// the same Parameters map.
	return v.(task.Result).Clone(), nil
}

// Filter selects entries for bulk invalidation. Zero values match everything
// on that dimension; set dimensions combine conjunctively.
type Filter struct {
	// Type matches entries of this task type when non-empty.
	Type task.Type

	// OlderThan matches entries older than this age when positive.
	OlderThan time.Duration
}

// Invalidate removes all entries matching the filter and reports how many
// were removed.
func (c *ResponseCache) Invalidate(ctx context.Context, f Filter) int {
	now := time.Now()

	c.mu.Lock()
	var victims []*entry
	for _, e := range c.entries {
		if f.Type != "" && e.result.Classification.Type != f.Type {
			continue
		}
		if f.OlderThan > 0 && now.Sub(e.createdAt) <= f.OlderThan {
			continue
		}
		victims = append(victims, e)
	}
	for _, e := range victims {
		c.removeLocked(e)
	}
	c.mu.Unlock()

	if len(victims) > 0 {
		c.log.Info(ctx, "entries invalidated",
			observe.Field{Key: "count", Value: len(victims)},
			observe.Field{Key: "task.type", Value: string(f.Type)},
		)
	}
	return len(victims)
}

// Clear drops all entries and resets statistics.
func (c *ResponseCache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.lru.Init()
	c.bytes = 0
	c.hits = 0
	c.misses = 0
	c.evictions = 0
	c.mu.Unlock()

	c.log.Info(ctx, "cache cleared")
}

// removeLocked unlinks an entry from both the map and the LRU list.
func (c *ResponseCache) removeLocked(e *entry) {
	delete(c.entries, e.key)
	c.lru.Remove(e.elem)
	c.bytes -= e.size
}

// shortKey truncates a content key for log output.
func shortKey(key string) string {
	if len(key) > 12 {
		return key[:12]
	}
	return key
}
