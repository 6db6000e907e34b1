// Package cache provides a generic, concurrency-safe in-memory cache with
// LRU eviction, optional per-entry TTL, and lightweight metrics hooks.
//
// # Design
//
//   - Concurrency: one engine-wide RWMutex guards the map, the recency list
//     and the counters. Operations are fully serialized against each other,
//     which makes the operation history linearizable and Stats() a
//     consistent multi-field snapshot. There are no suspension points inside
//     the critical section.
//
//   - Storage: a map[K]*node for lookups and an intrusive MRU↔LRU doubly
//     linked list for ordering. All operations are O(1) expected.
//
//   - TTL: entries carry an absolute UnixNano deadline. Expiration is lazy:
//     an expired entry is discovered and removed at lookup time (Get or
//     Contains); there is no background sweeper. TTL removals are reported
//     to Metrics with reason EvictTTL but do not count as evictions in
//     Stats.
//
//   - Eviction: inserting a new key at capacity removes the current
//     least-recently-used entry first. Overwriting an existing key never
//     evicts.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; plug the metrics/prom adapter to
//     export Prometheus series.
//
//   - Callbacks: Options.OnEvict(k, v, reason) fires for every capacity or
//     TTL removal, under the engine lock.
//
// # Basic usage
//
//	c, err := cache.New[string, []byte](cache.Options[string, []byte]{Capacity: 10_000})
//	if err != nil {
//	    // invalid Options
//	}
//	c.Set("a", []byte("1"))
//	if v, ok := c.Get("a"); ok {
//	    _ = v // use value
//	}
//	c.Delete("a")
//
// # With TTL
//
//	c, _ := cache.New[string, string](cache.Options[string, string]{
//	    Capacity: 1024,
//	    TTL:      200 * time.Millisecond,
//	})
//	c.Set("tmp", "v")
//	time.Sleep(300 * time.Millisecond)
//	_, ok := c.Get("tmp") // ok == false (expired)
//
// # Testing TTL deterministically
//
// Inject a Clock to control time:
//
//	type fakeClock struct{ t int64 }
//	func (f *fakeClock) NowUnixNano() int64 { return f.t }
//
//	clk := &fakeClock{}
//	c, _ := cache.New[string, int](cache.Options[string, int]{
//	    Capacity: 8,
//	    TTL:      time.Second,
//	    Clock:    clk,
//	})
//
// For transparent function memoization on top of this engine, see the
// memoize package.
package cache
