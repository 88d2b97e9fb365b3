package directory

import (
	"sync"
	"time"

	"github.com/go-ldap/ldap/v3"
	gocache "github.com/patrickmn/go-cache"
)

// cacheSweepInterval is how often expired entries are purged.
const cacheSweepInterval = 5 * time.Minute

// SearchCache memoizes directory search results per query key with a
// caller-supplied TTL. Safe for concurrent use; a miss being computed
// for one key never blocks lookups for unrelated keys.
type SearchCache struct {
	store *gocache.Cache

	mu       sync.Mutex
	inflight map[string]*inflightLock
}

type inflightLock struct {
	mu   sync.Mutex
	refs int
}

// NewSearchCache creates an empty SearchCache.
func NewSearchCache() *SearchCache {
	return &SearchCache{
		store:    gocache.New(gocache.NoExpiration, cacheSweepInterval),
		inflight: make(map[string]*inflightLock),
	}
}

// GetOrCompute returns the cached entry list for key if present and
// unexpired; otherwise it invokes compute, stores the result with an
// expiry of now+ttl and returns it. Errors from compute are returned
// without being cached.
func (c *SearchCache) GetOrCompute(key string, ttl time.Duration, compute func() ([]*ldap.Entry, error)) ([]*ldap.Entry, error) {
	if entries, ok := c.get(key); ok {
		return entries, nil
	}

	lock := c.acquire(key)
	defer c.release(key, lock)

	lock.mu.Lock()
	defer lock.mu.Unlock()

	// another request may have filled the key while we waited
	if entries, ok := c.get(key); ok {
		return entries, nil
	}

	entries, err := compute()
	if err != nil {
		return nil, err
	}

	c.store.Set(key, entries, ttl)

	return entries, nil
}

// Flush drops every cached entry.
func (c *SearchCache) Flush() {
	c.store.Flush()
}

func (c *SearchCache) get(key string) ([]*ldap.Entry, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}

	entries, ok := v.([]*ldap.Entry)

	return entries, ok
}

func (c *SearchCache) acquire(key string) *inflightLock {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.inflight[key]
	if !ok {
		lock = &inflightLock{}
		c.inflight[key] = lock
	}

	lock.refs++

	return lock
}

func (c *SearchCache) release(key string, lock *inflightLock) {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(c.inflight, key)
	}
}
