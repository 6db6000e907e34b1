package cache

// EvictReason explains why an entry was removed.
type EvictReason int

const (
	// EvictCapacity — removed to make room for a new entry (LRU victim).
	EvictCapacity EvictReason = iota
	// EvictTTL — expired by TTL (lazy removal on access).
	// TTL removals are reported here but are NOT counted in Stats.Evictions.
	EvictTTL
)

// Metrics exposes cache-level observability hooks.
// Hooks are invoked under the engine lock; keep implementations lightweight.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
// It is safe for concurrent use and intended as the default when
// no observability backend is configured.
type NoopMetrics struct{}

func (NoopMetrics) Hit()              {}
func (NoopMetrics) Miss()             {}
func (NoopMetrics) Evict(EvictReason) {}
func (NoopMetrics) Size(entries int)  {}

// Ensure NoopMetrics implements the Metrics interface at compile time.
var _ Metrics = NoopMetrics{}
