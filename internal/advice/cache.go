package advice

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Veraticus/the-spice-must-advise/internal/aggregate"
	"github.com/Veraticus/the-spice-must-advise/internal/common"
	"github.com/Veraticus/the-spice-must-advise/internal/model"
)

const (
	// DefaultMaxSize is the entry bound used when none is configured.
	DefaultMaxSize = 100
	// DefaultTTL is how long advice stays valid after it is stored.
	DefaultTTL = 30 * time.Minute
	// DefaultComputeTimeout bounds a shared compute call once it is detached
	// from the caller that started it.
	DefaultComputeTimeout = 5 * time.Minute
)

// Advice is generated recommendation text and its provenance.
type Advice struct {
	GeneratedAt time.Time `json:"generated_at"`
	Content     string    `json:"content"`
	ModelID     string    `json:"model_id"`
}

// ComputeFunc produces advice on a cache miss.
type ComputeFunc func(ctx context.Context) (Advice, error)

// Stats is a point-in-time view of the cache.
type Stats struct {
	TotalEntries   int           `json:"total_entries"`
	ValidEntries   int           `json:"valid_entries"`
	ExpiredEntries int           `json:"expired_entries"`
	MaxSize        int           `json:"max_size"`
	DefaultTTL     time.Duration `json:"default_ttl"`
	Hits           int64         `json:"hits"`
	Misses         int64         `json:"misses"`
}

type entry struct {
	createdAt time.Time
	expiresAt time.Time
	advice    Advice
	recType   model.RecommendationType
	seq       uint64
}

// Cache is a bounded, TTL-based store of generated advice.
type Cache struct {
	entries   map[string]entry
	now       func() time.Time
	stopCh    chan struct{}
	group     singleflight.Group
	ttl       time.Duration
	afterMiss func(key string)
	janitor   time.Duration
	timeout   time.Duration
	maxSize   int
	seq       uint64
	hits      atomic.Int64
	misses    atomic.Int64
	mu        sync.RWMutex
	once      sync.Once
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxSize bounds the number of entries.
func WithMaxSize(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// WithTTL sets the lifetime of new entries.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithComputeTimeout bounds each shared compute call.
func WithComputeTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithJanitor purges expired entries every interval until Close is called.
func WithJanitor(interval time.Duration) Option {
	return func(c *Cache) {
		c.janitor = interval
	}
}

// NewCache creates an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
		stopCh:  make(chan struct{}),
		ttl:     DefaultTTL,
		timeout: DefaultComputeTimeout,
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.janitor > 0 {
		go c.cleanup(c.janitor)
	}

	return c
}

// Get returns valid advice for the type and snapshot. Expired entries are removed.
func (c *Cache) Get(recType model.RecommendationType, snap *aggregate.Snapshot) (Advice, bool) {
	advice, ok := c.lookup(Key(recType, snap))
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return advice, ok
}

// GetOrCompute returns cached advice, or runs compute and stores its result.
// Compute errors are returned and never cached. Concurrent callers missing on
// the same key share one compute call. That call runs detached from any single
// caller's cancellation, bounded by the compute timeout, and each caller waits
// only as long as its own context allows.
func (c *Cache) GetOrCompute(ctx context.Context, recType model.RecommendationType, snap *aggregate.Snapshot, compute ComputeFunc) (Advice, bool, error) {
	key := Key(recType, snap)

	if advice, ok := c.lookup(key); ok {
		c.hits.Add(1)
		return advice, true, nil
	}
	if c.afterMiss != nil {
		c.afterMiss(key)
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// A caller that lost the race with a previous flight may find it stored.
		if advice, ok := c.lookup(key); ok {
			return flightResult{advice: advice, cached: true}, nil
		}

		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		advice, err := compute(cctx)
		if err != nil {
			return nil, err
		}
		c.store(key, recType, advice)
		return flightResult{advice: advice}, nil
	})

	select {
	case <-ctx.Done():
		c.misses.Add(1)
		return Advice{}, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			c.misses.Add(1)
			return Advice{}, false, res.Err
		}
		fr, ok := res.Val.(flightResult)
		if !ok {
			c.misses.Add(1)
			return Advice{}, false, fmt.Errorf("%w: unexpected flight result %T", common.ErrCacheCorrupted, res.Val)
		}
		if fr.cached {
			c.hits.Add(1)
			return fr.advice, true, nil
		}
		c.misses.Add(1)
		return fr.advice, false, nil
	}
}

type flightResult struct {
	advice Advice
	cached bool
}

// Set stores advice, replacing any prior entry for the same key.
func (c *Cache) Set(recType model.RecommendationType, snap *aggregate.Snapshot, advice Advice) {
	c.store(Key(recType, snap), recType, advice)
}

// Invalidate removes every entry of one recommendation type and reports how many were removed.
func (c *Cache) Invalidate(recType model.RecommendationType) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, e := range c.entries {
		if e.recType == recType {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Clear removes all entries. Hit and miss counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Stats reports entry counts and counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	expired := 0
	for _, e := range c.entries {
		if !now.Before(e.expiresAt) {
			expired++
		}
	}

	return Stats{
		TotalEntries:   len(c.entries),
		ValidEntries:   len(c.entries) - expired,
		ExpiredEntries: expired,
		MaxSize:        c.maxSize,
		DefaultTTL:     c.ttl,
		Hits:           c.hits.Load(),
		Misses:         c.misses.Load(),
	}
}

// Purge removes expired entries and reports how many were removed.
func (c *Cache) Purge() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
			removed++
		}
	}
	return removed
}

// Close stops the janitor. It is safe to call more than once.
func (c *Cache) Close() {
	c.once.Do(func() {
		close(c.stopCh)
	})
}

func (c *Cache) lookup(key string) (Advice, bool) {
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists {
		return Advice{}, false
	}

	if !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		// Only drop the entry we saw; it may have been refreshed meanwhile.
		if cur, ok := c.entries[key]; ok && cur.seq == e.seq {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return Advice{}, false
	}

	return e.advice, true
}

func (c *Cache) store(key string, recType model.RecommendationType, advice Advice) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.maxSize {
			c.evictOldestLocked()
		}
	}

	now := c.now()
	c.seq++
	c.entries[key] = entry{
		advice:    advice,
		recType:   recType,
		createdAt: now,
		expiresAt: now.Add(c.ttl),
		seq:       c.seq,
	}
}

// evictOldestLocked removes the entry with the earliest creation time,
// breaking ties by insertion order. Callers hold c.mu.
func (c *Cache) evictOldestLocked() {
	var (
		oldestKey string
		oldest    entry
		found     bool
	)
	for key, e := range c.entries {
		if !found || e.createdAt.Before(oldest.createdAt) ||
			(e.createdAt.Equal(oldest.createdAt) && e.seq < oldest.seq) {
			oldestKey, oldest, found = key, e, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
	}
}

func (c *Cache) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.Purge()
		}
	}
}
