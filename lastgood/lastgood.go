// Package lastgood keeps the most recent successful offer list per page
// key so that a transient backend failure degrades to recent data instead
// of an empty panel. Entries go logically stale after a short TTL; stale
// entries count as misses but are never evicted — cardinality is bounded
// by the number of distinct products visited in one session.
package lastgood

import (
	"sync"
	"time"

	"github.com/hazyhaar/pricepanel/market"
)

// DefaultTTL is how long a cached offer list stays usable.
const DefaultTTL = 60 * time.Second

type entry struct {
	at     time.Time
	offers []market.Offer
}

// Cache is a per-key last-good offer cache. Safe for concurrent use.
type Cache struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]entry
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the freshness window. Default: DefaultTTL.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.ttl = d }
}

// WithClock injects a time source for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		ttl:  DefaultTTL,
		now:  time.Now,
		data: make(map[string]entry),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Put stores offers for key, overwriting any previous entry. Callers only
// Put successful, non-empty live results.
func (c *Cache) Put(key string, offers []market.Offer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry{at: c.now(), offers: offers}
}

// Get returns the cached offers for key. It is a miss when the key is
// absent or the entry's age exceeds the TTL. Expired entries are left in
// place.
func (c *Cache) Get(key string) ([]market.Offer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.data[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.at) > c.ttl {
		return nil, false
	}
	return e.offers, true
}

// Len returns the number of entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}
