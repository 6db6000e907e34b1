package cache

import "time"

// Clock provides time in UnixNano; useful for deterministic TTL tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures the cache behavior.
//
// Capacity is required and must be positive. Everything else has a safe
// default applied in New():
//   - nil Metrics => NoopMetrics
//   - nil Clock   => time.Now()
type Options[K comparable, V any] struct {
	// Capacity is the entry count limit. Inserting a new key at capacity
	// evicts the least-recently-used entry first.
	Capacity int

	// TTL is the engine-wide default time-to-live applied by Add and Set
	// (0 = entries never expire; negative values are rejected by New).
	// SetWithTTL overrides it per entry.
	TTL time.Duration

	// OnEvict is called for every removal caused by capacity or TTL,
	// under the engine lock; keep callbacks lightweight.
	// Explicit Delete and Clear do not trigger it.
	OnEvict func(k K, v V, reason EvictReason)

	// Metrics receives Hit/Miss/Evict/Size signals. Nil => NoopMetrics.
	Metrics Metrics

	// Clock allows overriding the time source (tests). Nil => time.Now().
	Clock Clock
}

// validate checks constructor parameters, failing fast on bad input.
func (o *Options[K, V]) validate() error {
	if o.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Value: o.Capacity, Err: ErrInvalidCapacity}
	}
	if o.TTL < 0 {
		return &ConfigError{Field: "TTL", Value: o.TTL, Err: ErrInvalidTTL}
	}
	return nil
}
