package cache

import (
	"sync"
	"time"
)

// engine is the single-lock cache implementation backing the Cache interface.
//
// Storage is a map[K]*node for lookups plus an intrusive MRU↔LRU doubly
// linked list for recency ordering. The map, the list and the counters all
// share one RWMutex, which is what makes Stats() a torn-read-free snapshot
// and the whole operation history linearizable.
type engine[K comparable, V any] struct {
	mu   sync.RWMutex
	m    map[K]*node[K, V]
	head *node[K, V] // MRU
	tail *node[K, V] // LRU
	len  int
	cap  int

	// Lifetime counters. Guarded by mu; never reset (not even by Clear).
	hits      uint64
	misses    uint64
	evictions uint64 // capacity-driven removals only

	opt Options[K, V]
}

// New constructs a cache with the provided Options.
// It returns a *ConfigError (wrapping ErrInvalidCapacity or ErrInvalidTTL)
// for invalid parameters; values are never silently clamped.
func New[K comparable, V any](opt Options[K, V]) (Cache[K, V], error) {
	if err := opt.validate(); err != nil {
		return nil, err
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	return &engine[K, V]{
		m:   make(map[K]*node[K, V], opt.Capacity),
		cap: opt.Capacity,
		opt: opt,
	}, nil
}

// ---- Cache[K,V] implementation ----

// Add inserts k→v only if absent, using the default TTL if set.
// Returns false if the key already exists (no update is performed).
func (c *engine[K, V]) Add(k K, v V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.m[k]; exists {
		return false
	}
	c.insertLocked(k, v, c.defaultDeadlineLocked())
	return true
}

// Set inserts or updates k→v using the default TTL and promotes the entry.
func (c *engine[K, V]) Set(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(k, v, c.defaultDeadlineLocked())
}

// SetWithTTL inserts or updates k→v with a per-key TTL (relative duration).
// A non-positive ttl disables expiration for this entry.
func (c *engine[K, V]) SetWithTTL(k K, v V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setLocked(k, v, c.deadlineLocked(ttl))
}

// Get returns the value for k and a presence flag.
// This is the single lazy-expiration checkpoint: an entry whose deadline has
// passed is removed here and counted as a miss (not as an eviction).
func (c *engine[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	n, ok := c.m[k]
	if !ok {
		c.misses++
		c.opt.Metrics.Miss()
		return zero, false
	}
	if c.expiredLocked(n) {
		c.removeLocked(n, EvictTTL)
		c.misses++
		c.opt.Metrics.Miss()
		return zero, false
	}

	c.moveToFrontLocked(n)
	n.touched = c.nowLocked()
	c.hits++
	c.opt.Metrics.Hit()
	return n.val, true
}

// Contains reports whether k is live, without promoting it or touching the
// hit/miss counters. An expired entry found here is removed.
func (c *engine[K, V]) Contains(k K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.m[k]
	if !ok {
		return false
	}
	if c.expiredLocked(n) {
		c.removeLocked(n, EvictTTL)
		return false
	}
	return true
}

// Delete removes k if present. Returns true if an entry was removed.
func (c *engine[K, V]) Delete(k K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.m[k]
	if !ok {
		return false
	}
	c.unlinkLocked(n)
	delete(c.m, k)
	c.opt.Metrics.Size(c.len)
	return true
}

// Clear removes all entries. Counters are preserved: the hit/miss/eviction
// history of the engine outlives its contents.
func (c *engine[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.m = make(map[K]*node[K, V], c.cap)
	c.head, c.tail = nil, nil
	c.len = 0
	c.opt.Metrics.Size(0)
}

// Resize changes the capacity, evicting LRU entries until the cache fits.
// Evictions performed by a shrink are counted as capacity evictions.
func (c *engine[K, V]) Resize(n int) error {
	if n <= 0 {
		return &ConfigError{Field: "Capacity", Value: n, Err: ErrInvalidCapacity}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cap = n
	for c.len > c.cap {
		tail := c.tail
		if tail == nil {
			break
		}
		c.removeLocked(tail, EvictCapacity)
	}
	c.opt.Metrics.Size(c.len)
	return nil
}

// Len returns the number of resident entries.
func (c *engine[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.len
}

// Keys returns keys in MRU → LRU order.
func (c *engine[K, V]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]K, 0, c.len)
	for n := c.head; n != nil; n = n.next {
		out = append(out, n.key)
	}
	return out
}

// Stats returns a consistent snapshot of the counters.
func (c *engine[K, V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Size:      uint64(c.len),
	}
}

// -------------------- internals (mu held) --------------------

// setLocked is the shared insert-or-update path for Set and SetWithTTL.
// Expiry is never evaluated here: overwriting an already-expired key is a
// plain overwrite with a fresh deadline.
func (c *engine[K, V]) setLocked(k K, v V, exp int64) {
	if n, ok := c.m[k]; ok {
		// In-place update: refresh value, deadline and recency.
		// Never evicts — the entry count does not change.
		n.val = v
		n.exp = exp
		n.touched = c.nowLocked()
		c.moveToFrontLocked(n)
		c.opt.Metrics.Size(c.len)
		return
	}
	c.insertLocked(k, v, exp)
}

// insertLocked adds a new entry at MRU, evicting the LRU entry first if the
// cache is at capacity.
func (c *engine[K, V]) insertLocked(k K, v V, exp int64) {
	if c.len >= c.cap {
		if tail := c.tail; tail != nil {
			c.removeLocked(tail, EvictCapacity)
		}
	}
	n := &node[K, V]{key: k, val: v, exp: exp, touched: c.nowLocked()}
	c.m[k] = n
	c.pushFrontLocked(n)
	c.opt.Metrics.Size(c.len)
}

// removeLocked evicts a node for the given reason, updating counters and
// invoking the OnEvict callback. Only capacity evictions bump Evictions;
// TTL removals are surfaced to Metrics but stay out of the counter.
func (c *engine[K, V]) removeLocked(n *node[K, V], reason EvictReason) {
	c.unlinkLocked(n)
	delete(c.m, n.key)
	if reason == EvictCapacity {
		c.evictions++
	}
	c.opt.Metrics.Evict(reason)
	c.opt.Metrics.Size(c.len)
	if cb := c.opt.OnEvict; cb != nil {
		cb(n.key, n.val, reason)
	}
}

func (c *engine[K, V]) expiredLocked(n *node[K, V]) bool {
	if n.exp == 0 {
		return false
	}
	return c.nowLocked() >= n.exp
}

func (c *engine[K, V]) nowLocked() int64 {
	if c.opt.Clock != nil {
		return c.opt.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}

// defaultDeadlineLocked returns an absolute deadline based on Options.TTL.
func (c *engine[K, V]) defaultDeadlineLocked() int64 {
	return c.deadlineLocked(c.opt.TTL)
}

// deadlineLocked converts a relative TTL into an absolute UnixNano deadline.
// A non-positive ttl returns 0 (no expiration).
func (c *engine[K, V]) deadlineLocked(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return c.nowLocked() + int64(ttl)
}

// pushFrontLocked inserts n at MRU in O(1).
func (c *engine[K, V]) pushFrontLocked(n *node[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
	c.len++
}

// moveToFrontLocked promotes n to MRU in O(1).
func (c *engine[K, V]) moveToFrontLocked(n *node[K, V]) {
	if n == c.head {
		return
	}
	// detach
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if c.tail == n {
		c.tail = n.prev
	}
	// insert at head
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

// unlinkLocked removes n from the list and updates the length in O(1).
func (c *engine[K, V]) unlinkLocked(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if c.head == n {
		c.head = n.next
	}
	if c.tail == n {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
	c.len--
}
