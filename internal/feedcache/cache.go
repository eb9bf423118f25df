// Package feedcache holds recently fetched feed windows keyed by filter
// signature.
//
// Expiry is lazy: an entry older than the TTL reads as absent, and the
// next Put for that key replaces it. There is no sweeper and no eviction,
// so a session that visits many distinct filter combinations keeps all
// of them until the process exits.
package feedcache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abelbrown/byteme/internal/logging"
	"github.com/abelbrown/byteme/internal/model"
)

// DefaultTTL is how long an entry stays valid.
const DefaultTTL = time.Hour

// Fixed keys for the variants that cannot be filtered.
const (
	KeyFollowed = "followed"
	KeySaved    = "saved"
)

// Entry is a cached page window.
type Entry struct {
	Items     []model.FeedItem
	Offset    int // next offset to fetch
	HasMore   bool
	Timestamp time.Time
}

// Persister stores entries beyond the life of the process.
// Implementations must be goroutine-safe.
type Persister interface {
	LoadSnapshot(namespace, key string) (Entry, bool, error)
	SaveSnapshot(namespace, key string, e Entry) error
}

// Cache maps a filter key to an Entry. Goroutine-safe.
type Cache struct {
	mu        sync.Mutex
	namespace string
	ttl       time.Duration
	entries   map[string]Entry
	now       func() time.Time
	persist   Persister // optional
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithPersister writes entries through to p and falls back to it on miss.
func WithPersister(p Persister) Option {
	return func(c *Cache) { c.persist = p }
}

// New creates a Cache. namespace separates variants sharing a Persister.
func New(namespace string, opts ...Option) *Cache {
	c := &Cache{
		namespace: namespace,
		ttl:       DefaultTTL,
		entries:   make(map[string]Entry),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the entry for key if it is younger than the TTL.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	c.mu.Unlock()

	if !ok && c.persist != nil {
		var err error
		e, ok, err = c.persist.LoadSnapshot(c.namespace, key)
		if err != nil {
			logging.Warn("feed snapshot load failed", "namespace", c.namespace, "key", key, "error", err)
			return Entry{}, false
		}
		if ok {
			c.mu.Lock()
			if _, raced := c.entries[key]; !raced {
				c.entries[key] = e
			}
			c.mu.Unlock()
		}
	}

	if !ok || !c.fresh(e) {
		return Entry{}, false
	}
	return clone(e), true
}

// Put stores e under key. A zero Timestamp is stamped with the clock.
func (c *Cache) Put(key string, e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = c.now()
	}
	e = clone(e)

	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()

	if c.persist != nil {
		if err := c.persist.SaveSnapshot(c.namespace, key, e); err != nil {
			logging.Warn("feed snapshot save failed", "namespace", c.namespace, "key", key, "error", err)
		}
	}
}

// Update replaces the entry for key with fn applied to it, keeping the
// original timestamp. Absent or expired entries are left alone.
func (c *Cache) Update(key string, fn func(Entry) Entry) bool {
	e, ok := c.Get(key)
	if !ok {
		return false
	}
	ts := e.Timestamp
	e = fn(e)
	e.Timestamp = ts
	c.Put(key, e)
	return true
}

// Delete drops the in-memory entry for key.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of in-memory entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// TTL returns the configured lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) fresh(e Entry) bool {
	return c.now().Sub(e.Timestamp) < c.ttl
}

func clone(e Entry) Entry {
	e.Items = append([]model.FeedItem(nil), e.Items...)
	return e
}

// Key builds the canonical signature for a set of category ids: sorted,
// comma-joined, blanks dropped. No categories yields "".
func Key(categories []string) string {
	ids := make([]string, 0, len(categories))
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			ids = append(ids, c)
		}
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}
