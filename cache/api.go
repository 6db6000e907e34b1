package cache

import "time"

// Cache is an in-memory key/value cache with LRU eviction and optional TTL.
// All methods are safe for concurrent use by multiple goroutines.
//
// Every operation executes under one engine-wide critical section, so the
// effects of concurrent calls are linearizable: they behave as if applied in
// the order the lock was acquired. Typical cost per operation is amortized
// O(1): a map lookup plus constant-time list adjustments.
type Cache[K comparable, V any] interface {
	// Add inserts k→v only if k is not present.
	// It uses the cache's default TTL (if any).
	// Returns false if the key already exists (no update is performed).
	// Presence is checked on the raw entry; expiry is evaluated only by Get.
	Add(k K, v V) bool

	// Set inserts or updates k→v using the cache's default TTL (if any)
	// and moves the entry to the most-recently-used position.
	// Updating an existing key never triggers an eviction.
	Set(k K, v V)

	// SetWithTTL inserts or updates k→v with a per-key TTL override.
	// A non-positive ttl disables expiration for this entry.
	SetWithTTL(k K, v V, ttl time.Duration)

	// Get returns the value for k and a boolean flag indicating presence.
	// A hit promotes the entry to most-recently-used. An entry whose TTL has
	// passed is removed here (lazy expiration) and reported as a miss.
	// Every Get counts as exactly one hit or one miss in Stats.
	Get(k K) (V, bool)

	// Contains reports whether k is present and not expired.
	// Unlike Get it does not promote the entry and does not touch the
	// hit/miss counters, but it does remove an expired entry on discovery.
	Contains(k K) bool

	// Delete removes k if present and returns true on success.
	// Deletes are not counted as evictions.
	Delete(k K) bool

	// Clear removes all entries. The hit/miss/eviction counters are
	// preserved; only Size drops to zero.
	Clear()

	// Resize changes the capacity, evicting least-recently-used entries
	// until the cache fits. Returns an error wrapping ErrInvalidCapacity
	// if n <= 0.
	Resize(n int) error

	// Len returns the number of resident entries.
	// The count may include entries that expired but were not yet
	// discovered by a lookup.
	Len() int

	// Keys returns a snapshot of keys ordered from most- to
	// least-recently-used. Intended for debugging and inspection.
	Keys() []K

	// Stats returns a point-in-time snapshot of the counters.
	// The snapshot is taken under the engine lock, so the four fields are
	// always mutually consistent.
	Stats() Stats
}
