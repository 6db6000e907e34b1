package cache

// Stats is a point-in-time snapshot of the cache counters.
//
// Hits, Misses and Evictions are monotonically non-decreasing for the
// lifetime of the cache; Clear does not reset them. Evictions counts only
// capacity-driven removals — TTL expirations and explicit deletes are
// excluded. Size is the number of resident entries at snapshot time.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Size      uint64
}

// HitRate returns the hit rate as a value between 0 and 1.
// Returns 0 if there have been no lookups.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
