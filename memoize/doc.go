// Package memoize wraps arbitrary functions with a transparent result
// cache built on the cache package.
//
// Each wrapper created by Wrap owns one private cache engine with its own
// capacity, TTL and statistics; wrappers never share state. The wrapped
// function keeps its exact signature:
//
//	slow := func(a, b int) int {
//	    time.Sleep(time.Second)
//	    return a + b
//	}
//
//	m, err := memoize.Wrap(slow, memoize.WithMaxSize(1024))
//	if err != nil {
//	    // not a function / bad options
//	}
//
//	m.Fn(2, 3) // computes
//	m.Fn(2, 3) // cache hit, slow is not called
//
//	fmt.Println(m.Stats().Hits) // 1
//
// # Keys
//
// Cache keys are derived from the call's arguments by canonical, recursive
// normalization: sequences keep their order, map entries are sorted, struct
// fields are taken in declared order, pointers are followed. Two
// structurally equal arguments always produce the same key, so
//
//	m.Fn(map[string]int{"a": 1, "b": 2})
//	m.Fn(map[string]int{"b": 2, "a": 1})
//
// hit the same entry. Arguments with no stable equality notion (funcs,
// channels, unsafe pointers, cyclic structures) cannot be keyed; such calls
// fail with a *NormalizationError before the wrapped function runs —
// returned through the function's error result when it has one, panicking
// otherwise. There is no silent uncached fall-through.
//
// # Errors and races
//
// A call whose last result is a non-nil error is returned as-is and not
// cached. Concurrent misses on the same key are not coalesced: each caller
// may invoke the wrapped function, and the last store wins. Use the cache
// package's Stats to observe the effective hit rate.
package memoize
