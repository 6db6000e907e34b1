package cache

import (
	"math/rand"
	"runtime"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

// A mixed workload of concurrent Set/Get/SetWithTTL/Delete/Contains on
// random keys. Should pass under `-race` without detector reports, and the
// final counters must be consistent with the operations actually issued.
func TestRace_MixedWorkload(t *testing.T) {
	const capacity = 1024
	c := mustNew(t, Options[string, []byte]{Capacity: capacity})

	workers := 4 * runtime.GOMAXPROCS(0)
	keyspace := 10_000
	deadline := time.Now().Add(2 * time.Second)

	var gets uint64
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		id := w
		g.Go(func() error {
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(id)*9973))
			for time.Now().Before(deadline) {
				k := "k:" + strconv.Itoa(r.Intn(keyspace))
				switch r.Intn(100) {
				case 0, 1, 2, 3, 4: // ~5% — Delete
					c.Delete(k)
				case 5, 6, 7, 8, 9: // ~5% — SetWithTTL
					c.SetWithTTL(k, []byte("x"), time.Duration(10+r.Intn(20))*time.Millisecond)
				case 10, 11, 12, 13, 14: // ~5% — Contains
					c.Contains(k)
				case 15, 16, 17, 18, 19, 20, 21, 22, 23, 24: // ~10% — Set
					c.Set(k, []byte("x"))
				default: // ~75% — Get
					atomic.AddUint64(&gets, 1)
					c.Get(k)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}

	s := c.Stats()
	if s.Hits+s.Misses != atomic.LoadUint64(&gets) {
		t.Fatalf("hits(%d)+misses(%d) != gets issued (%d)", s.Hits, s.Misses, gets)
	}
	if n := c.Len(); n > capacity {
		t.Fatalf("Len=%d exceeds capacity %d", n, capacity)
	}
	if s.Size != uint64(c.Len()) {
		t.Fatalf("Stats.Size=%d disagrees with Len=%d", s.Size, c.Len())
	}
}

// Concurrent readers of Stats/Len/Keys against concurrent writers.
// Snapshots must never tear (hits+misses can only grow).
func TestRace_StatsSnapshots(t *testing.T) {
	c := mustNew(t, Options[int, int]{Capacity: 256})

	stop := make(chan struct{})
	var g errgroup.Group
	g.Go(func() error {
		for i := 0; ; i++ {
			select {
			case <-stop:
				return nil
			default:
			}
			c.Set(i%512, i)
			c.Get(i % 512)
		}
	})

	var last uint64
	for i := 0; i < 10_000; i++ {
		s := c.Stats()
		total := s.Hits + s.Misses
		if total < last {
			t.Fatalf("lookup total went backwards: %d -> %d", last, total)
		}
		last = total
		c.Len()
		c.Keys()
	}
	close(stop)
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}
