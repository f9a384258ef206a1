// internal/cache/cache.go
package cache

import (
	"sort"
	"sync"
	"time"
)

// DefaultTTL is how long an entry stays readable after it was stored.
const DefaultTTL = 5 * time.Minute

// Clock supplies the current time. Tests inject a controllable one.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Entry is a stored payload and the instant it was stored.
type Entry struct {
	Key       string
	Data      any
	Timestamp time.Time
}

// Info describes the physical contents of the cache.
type Info struct {
	Size int           `json:"size"`
	TTL  time.Duration `json:"ttl"`
	Keys []string      `json:"keys"`
}

// Cache is an in-memory key/value store whose entries expire lazily on read.
// Expired entries are not evicted; they stay stored until overwritten or cleared.
// Concurrent misses for the same key are not coalesced.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	ttl     time.Duration
	clock   Clock
}

type Option func(*Cache)

// WithClock overrides the time source.
func WithClock(clock Clock) Option {
	return func(c *Cache) {
		c.clock = clock
	}
}

// New creates an empty cache. A non-positive ttl falls back to DefaultTTL.
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		entries: make(map[string]Entry),
		ttl:     ttl,
		clock:   systemClock{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the payload stored under key while it is younger than the ttl.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.clock.Now().Sub(entry.Timestamp) >= c.ttl {
		return nil, false
	}
	return entry.Data, true
}

// Set stores value under key, replacing whatever was there.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{
		Key:       key,
		Data:      value,
		Timestamp: c.clock.Now(),
	}
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Info reports stored entries, including expired ones awaiting overwrite.
func (c *Cache) Info() Info {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return Info{Size: len(c.entries), TTL: c.ttl, Keys: keys}
}

// Lookup is a typed Get. A payload of a different type counts as absent.
func Lookup[T any](c *Cache, key string) (T, bool) {
	var zero T
	if c == nil {
		return zero, false
	}
	v, ok := c.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
