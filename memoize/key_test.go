package memoize

import (
	"errors"
	"reflect"
	"testing"
)

// enc is a test helper canonicalizing an argument list, failing the test on
// unexpected errors.
func enc(t *testing.T, args ...any) string {
	t.Helper()
	vals := make([]reflect.Value, 0, len(args))
	for _, a := range args {
		vals = append(vals, reflect.ValueOf(a))
	}
	key, err := encodeArgs(vals)
	if err != nil {
		t.Fatalf("encodeArgs(%v): %v", args, err)
	}
	return key
}

// Two maps with identical contents must encode identically, regardless of
// construction/iteration order.
func TestKey_MapOrderInsensitive(t *testing.T) {
	t.Parallel()

	a := map[string]int{}
	a["a"] = 1
	a["b"] = 2
	a["c"] = 3

	b := map[string]int{}
	b["c"] = 3
	b["a"] = 1
	b["b"] = 2

	if enc(t, a) != enc(t, b) {
		t.Fatal("structurally equal maps must share a key")
	}
	if enc(t, a) == enc(t, map[string]int{"a": 1, "b": 2, "c": 4}) {
		t.Fatal("different map values must not share a key")
	}
}

// Sequences are order-sensitive.
func TestKey_SliceOrderSensitive(t *testing.T) {
	t.Parallel()

	if enc(t, []int{1, 2}) == enc(t, []int{2, 1}) {
		t.Fatal("element order must matter for slices")
	}
	if enc(t, []int{1, 2}) != enc(t, []int{1, 2}) {
		t.Fatal("equal slices must share a key")
	}
}

// Scalars are type-tagged: values that print alike must not collide.
func TestKey_ScalarTypeTags(t *testing.T) {
	t.Parallel()

	keys := []string{
		enc(t, 1),
		enc(t, uint(1)),
		enc(t, "1"),
		enc(t, true),
		enc(t, 1.0),
	}
	seen := map[string]int{}
	for i, k := range keys {
		if j, dup := seen[k]; dup {
			t.Fatalf("args %d and %d collide on key %q", j, i, k)
		}
		seen[k] = i
	}
}

// String encoding is length-prefixed, so concatenation boundaries cannot
// produce collisions.
func TestKey_StringBoundaries(t *testing.T) {
	t.Parallel()

	if enc(t, "ab", "c") == enc(t, "a", "bc") {
		t.Fatal(`("ab","c") and ("a","bc") must not collide`)
	}
	if enc(t, "a;b") == enc(t, "a", "b") {
		t.Fatal("separator characters inside strings must not collide")
	}
}

// Nil and empty containers are structurally equal.
func TestKey_NilContainers(t *testing.T) {
	t.Parallel()

	if enc(t, []int(nil)) != enc(t, []int{}) {
		t.Fatal("nil and empty slice must share a key")
	}
	if enc(t, map[string]int(nil)) != enc(t, map[string]int{}) {
		t.Fatal("nil and empty map must share a key")
	}
}

// Nested composites normalize recursively.
func TestKey_NestedComposites(t *testing.T) {
	t.Parallel()

	a := map[string][]int{"xs": {1, 2}, "ys": {3}}
	b := map[string][]int{"ys": {3}, "xs": {1, 2}}
	if enc(t, a) != enc(t, b) {
		t.Fatal("nested maps must normalize order-insensitively")
	}
}

// Struct fields encode in declared order, including unexported ones.
func TestKey_Structs(t *testing.T) {
	t.Parallel()

	type req struct {
		Host string
		port int
	}
	if enc(t, req{"h", 1}) != enc(t, req{"h", 1}) {
		t.Fatal("equal structs must share a key")
	}
	if enc(t, req{"h", 1}) == enc(t, req{"h", 2}) {
		t.Fatal("unexported field values must participate in the key")
	}
}

// Pointers are followed to their referents; distinct pointers to equal
// values share a key.
func TestKey_Pointers(t *testing.T) {
	t.Parallel()

	x, y := 42, 42
	if enc(t, &x) != enc(t, &y) {
		t.Fatal("pointers to equal values must share a key")
	}
	if enc(t, &x) == enc(t, x) {
		t.Fatal("a pointer and its referent are different arguments")
	}
	if enc(t, (*int)(nil)) != enc(t, (*int)(nil)) {
		t.Fatal("nil pointers must encode stably")
	}
}

// Values without a stable equality notion fail with *NormalizationError.
func TestKey_UnsupportedTypes(t *testing.T) {
	t.Parallel()

	for _, arg := range []any{
		make(chan int),
		func() {},
		map[string]any{"cb": func() {}},
	} {
		_, err := encodeArgs([]reflect.Value{reflect.ValueOf(arg)})
		var ne *NormalizationError
		if !errors.As(err, &ne) {
			t.Fatalf("%T: want *NormalizationError, got %v", arg, err)
		}
	}
}

// Cyclic structures are rejected instead of recursing forever.
func TestKey_CycleDetection(t *testing.T) {
	t.Parallel()

	a := []any{nil}
	a[0] = a

	_, err := encodeArgs([]reflect.Value{reflect.ValueOf(a)})
	var ne *NormalizationError
	if !errors.As(err, &ne) {
		t.Fatalf("want *NormalizationError for cycle, got %v", err)
	}
}
