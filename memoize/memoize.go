package memoize

import (
	"fmt"
	"reflect"
	"time"

	"github.com/Fayzan9/cachelib/cache"
)

// DefaultMaxSize is the capacity of a wrapper's private cache when
// WithMaxSize is not given.
const DefaultMaxSize = 128

var errType = reflect.TypeOf((*error)(nil)).Elem()

type config struct {
	ttl     time.Duration
	maxSize int
	clock   cache.Clock
	metrics cache.Metrics
}

// Option configures a wrapper created by Wrap.
type Option func(*config)

// WithTTL sets the time-to-live for cached results (0 = never expire).
func WithTTL(d time.Duration) Option {
	return func(c *config) { c.ttl = d }
}

// WithMaxSize sets the capacity of the wrapper's private cache.
func WithMaxSize(n int) Option {
	return func(c *config) { c.maxSize = n }
}

// WithClock overrides the time source of the private cache (tests).
func WithClock(clk cache.Clock) Option {
	return func(c *config) { c.clock = clk }
}

// WithMetrics wires a metrics backend into the private cache.
func WithMetrics(m cache.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// Memoized is a function wrapped with a private result cache.
//
// Fn has the exact signature of the original function and is a drop-in
// replacement for it. Each Memoized owns one cache engine, created at wrap
// time and never shared with other wrappers; it is exposed through Cache()
// for inspection and manual invalidation.
type Memoized[F any] struct {
	// Fn is the caching version of the wrapped function.
	Fn F

	fn     reflect.Value
	cache  cache.Cache[string, []reflect.Value]
	hasErr bool // last result of F is an error
}

// Wrap returns a memoizing version of fn.
//
// On each call through Fn the arguments are normalized into a canonical
// cache key (see the package documentation for what is normalizable). On a
// hit the stored results are returned without invoking fn; on a miss fn
// runs with the original arguments and its results are stored. If fn's last
// result is a non-nil error, nothing is cached for that call.
//
// Concurrent calls that miss on the same key may each invoke fn; the last
// completed Set wins. Misses are deliberately not coalesced.
//
// If a call's arguments cannot be normalized, fn is not invoked and a
// *NormalizationError is delivered through fn's error result. If fn has no
// error result, the wrapper panics with the *NormalizationError instead.
//
// Wrap fails if fn is not a function or if the options describe an invalid
// cache configuration.
func Wrap[F any](fn F, opts ...Option) (*Memoized[F], error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func || fv.IsNil() {
		return nil, fmt.Errorf("memoize: %T: %w", fn, ErrNotAFunction)
	}

	cfg := config{maxSize: DefaultMaxSize}
	for _, o := range opts {
		o(&cfg)
	}

	c, err := cache.New[string, []reflect.Value](cache.Options[string, []reflect.Value]{
		Capacity: cfg.maxSize,
		TTL:      cfg.ttl,
		Clock:    cfg.clock,
		Metrics:  cfg.metrics,
	})
	if err != nil {
		return nil, err
	}

	t := fv.Type()
	m := &Memoized[F]{
		fn:     fv,
		cache:  c,
		hasErr: t.NumOut() > 0 && t.Out(t.NumOut()-1) == errType,
	}
	m.Fn = reflect.MakeFunc(t, m.call).Interface().(F)
	return m, nil
}

// Cache returns the wrapper's private cache engine, e.g. for Stats() or
// Clear(). Mutating it affects only this wrapper.
func (m *Memoized[F]) Cache() cache.Cache[string, []reflect.Value] { return m.cache }

// Stats is shorthand for Cache().Stats().
func (m *Memoized[F]) Stats() cache.Stats { return m.cache.Stats() }

// Key returns the cache key the wrapper derives for the given argument
// list. For variadic functions, pass the fixed arguments followed by the
// variadic ones individually, exactly as in a call.
func (m *Memoized[F]) Key(args ...any) (string, error) {
	vals, err := m.argValues(args)
	if err != nil {
		return "", err
	}
	return encodeArgs(vals)
}

// Invalidate removes the cached result for the given argument list.
// It reports whether an entry was removed.
func (m *Memoized[F]) Invalidate(args ...any) (bool, error) {
	key, err := m.Key(args...)
	if err != nil {
		return false, err
	}
	return m.cache.Delete(key), nil
}

// call is the reflect.MakeFunc body: derive key, consult the private
// engine, run the original on a miss. The wrapped function executes
// entirely outside the engine lock.
func (m *Memoized[F]) call(args []reflect.Value) []reflect.Value {
	key, err := encodeArgs(args)
	if err != nil {
		return m.failed(err)
	}

	if outs, ok := m.cache.Get(key); ok {
		return outs
	}

	var outs []reflect.Value
	if m.fn.Type().IsVariadic() {
		outs = m.fn.CallSlice(args)
	} else {
		outs = m.fn.Call(args)
	}

	// Failed computations leave the cache untouched for this key.
	if m.hasErr && !outs[len(outs)-1].IsNil() {
		return outs
	}
	m.cache.Set(key, outs)
	return outs
}

// failed delivers a key-derivation error without invoking the wrapped
// function: through the error result when the signature has one, by
// panicking otherwise.
func (m *Memoized[F]) failed(err error) []reflect.Value {
	t := m.fn.Type()
	if !m.hasErr {
		panic(err)
	}
	outs := make([]reflect.Value, t.NumOut())
	for i := 0; i < t.NumOut()-1; i++ {
		outs[i] = reflect.Zero(t.Out(i))
	}
	ev := reflect.New(errType).Elem()
	ev.Set(reflect.ValueOf(err))
	outs[t.NumOut()-1] = ev
	return outs
}

// argValues mirrors the argument layout the wrapper sees in call: for
// variadic functions the trailing arguments are bundled into one sequence.
func (m *Memoized[F]) argValues(args []any) ([]reflect.Value, error) {
	t := m.fn.Type()

	if t.IsVariadic() {
		fixed := t.NumIn() - 1
		if len(args) < fixed {
			return nil, fmt.Errorf("memoize: got %d args, want at least %d", len(args), fixed)
		}
		vals := make([]reflect.Value, 0, t.NumIn())
		for _, a := range args[:fixed] {
			vals = append(vals, reflect.ValueOf(a))
		}
		vals = append(vals, reflect.ValueOf(args[fixed:]))
		return vals, nil
	}

	if len(args) != t.NumIn() {
		return nil, fmt.Errorf("memoize: got %d args, want %d", len(args), t.NumIn())
	}
	vals := make([]reflect.Value, 0, len(args))
	for _, a := range args {
		vals = append(vals, reflect.ValueOf(a))
	}
	return vals, nil
}
