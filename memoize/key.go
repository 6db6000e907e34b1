package memoize

import (
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Canonical key encoding.
//
// A key is a deterministic, order-sensitive encoding of the positional
// argument sequence. Composite arguments are normalized recursively:
//
//   - slices/arrays keep element order;
//   - map entries are encoded pairwise and sorted, so two structurally equal
//     maps yield the same key regardless of iteration order;
//   - struct fields are encoded in declared order under the struct type name;
//   - pointers and interfaces are followed to their referents (nil is tagged
//     distinctly);
//   - scalars are type-tagged so e.g. int(1), "1" and true cannot collide.
//
// Values with no stable equality notion (func, chan, unsafe.Pointer) and
// cyclic structures fail with a *NormalizationError.
//
// The encoding itself serves as the cache key: it is collision-free by
// construction (length-prefixed strings, unambiguous tags), so no digest
// step is needed.

// encodeArgs canonicalizes one argument list into a key string.
func encodeArgs(vals []reflect.Value) (string, error) {
	e := encoder{seen: make(map[uintptr]struct{})}
	e.b.WriteByte('(')
	for i, v := range vals {
		if err := e.encode(v, "arg["+strconv.Itoa(i)+"]"); err != nil {
			return "", err
		}
	}
	e.b.WriteByte(')')
	return e.b.String(), nil
}

type encoder struct {
	b strings.Builder

	// seen guards against cyclic pointers/maps/slices; encoding a cycle
	// would never terminate.
	seen map[uintptr]struct{}
}

func (e *encoder) encode(v reflect.Value, path string) error {
	if !v.IsValid() {
		e.b.WriteString("z;")
		return nil
	}

	switch v.Kind() {
	case reflect.Bool:
		e.b.WriteString("b:")
		e.b.WriteString(strconv.FormatBool(v.Bool()))
		e.b.WriteByte(';')

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.b.WriteString("i:")
		e.b.WriteString(strconv.FormatInt(v.Int(), 10))
		e.b.WriteByte(';')

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.b.WriteString("u:")
		e.b.WriteString(strconv.FormatUint(v.Uint(), 10))
		e.b.WriteByte(';')

	case reflect.Float32, reflect.Float64:
		// Bit-exact encoding; avoids formatting ambiguity and keeps NaN stable.
		e.b.WriteString("f:")
		e.b.WriteString(strconv.FormatUint(math.Float64bits(v.Float()), 16))
		e.b.WriteByte(';')

	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		e.b.WriteString("c:")
		e.b.WriteString(strconv.FormatUint(math.Float64bits(real(c)), 16))
		e.b.WriteByte(',')
		e.b.WriteString(strconv.FormatUint(math.Float64bits(imag(c)), 16))
		e.b.WriteByte(';')

	case reflect.String:
		// Length-prefixed so separators inside the string cannot collide
		// with the encoding's own structure.
		s := v.String()
		e.b.WriteString("s:")
		e.b.WriteString(strconv.Itoa(len(s)))
		e.b.WriteByte(':')
		e.b.WriteString(s)
		e.b.WriteByte(';')

	case reflect.Slice:
		// A nil slice is structurally an empty sequence; both encode "l[]".
		if v.IsNil() {
			e.b.WriteString("l[]")
			return nil
		}
		if err := e.enter(v.Pointer(), path); err != nil {
			return err
		}
		defer e.leave(v.Pointer())
		return e.encodeList(v, path)

	case reflect.Array:
		return e.encodeList(v, path)

	case reflect.Map:
		// A nil map is structurally an empty mapping; both encode "m{}".
		if v.IsNil() {
			e.b.WriteString("m{}")
			return nil
		}
		if err := e.enter(v.Pointer(), path); err != nil {
			return err
		}
		defer e.leave(v.Pointer())
		return e.encodeMap(v, path)

	case reflect.Struct:
		t := v.Type()
		e.b.WriteString("t:")
		e.b.WriteString(t.String())
		e.b.WriteByte('{')
		for i := 0; i < t.NumField(); i++ {
			e.b.WriteString(t.Field(i).Name)
			e.b.WriteByte('=')
			if err := e.encode(v.Field(i), path+"."+t.Field(i).Name); err != nil {
				return err
			}
		}
		e.b.WriteByte('}')

	case reflect.Pointer:
		if v.IsNil() {
			e.b.WriteString("p:nil;")
			return nil
		}
		if err := e.enter(v.Pointer(), path); err != nil {
			return err
		}
		defer e.leave(v.Pointer())
		e.b.WriteString("p:")
		return e.encode(v.Elem(), path)

	case reflect.Interface:
		if v.IsNil() {
			e.b.WriteString("z;")
			return nil
		}
		return e.encode(v.Elem(), path)

	default:
		// func, chan, unsafe.Pointer: no stable identity to key on.
		return &NormalizationError{Path: path, Type: v.Type()}
	}
	return nil
}

// encodeList writes slice/array elements in order.
func (e *encoder) encodeList(v reflect.Value, path string) error {
	e.b.WriteString("l[")
	for i := 0; i < v.Len(); i++ {
		if err := e.encode(v.Index(i), path+"["+strconv.Itoa(i)+"]"); err != nil {
			return err
		}
	}
	e.b.WriteByte(']')
	return nil
}

// encodeMap writes map entries sorted by their encoded form, making the
// result independent of Go's randomized map iteration order.
func (e *encoder) encodeMap(v reflect.Value, path string) error {
	pairs := make([]string, 0, v.Len())
	it := v.MapRange()
	for it.Next() {
		var pe encoder
		pe.seen = e.seen
		if err := pe.encode(it.Key(), path+" key"); err != nil {
			return err
		}
		pe.b.WriteByte('=')
		if err := pe.encode(it.Value(), path+" value"); err != nil {
			return err
		}
		pairs = append(pairs, pe.b.String())
	}
	sort.Strings(pairs)

	e.b.WriteString("m{")
	for _, p := range pairs {
		e.b.WriteString(p)
	}
	e.b.WriteByte('}')
	return nil
}

func (e *encoder) enter(ptr uintptr, path string) error {
	if _, ok := e.seen[ptr]; ok {
		return &NormalizationError{Path: path + " (cycle)"}
	}
	e.seen[ptr] = struct{}{}
	return nil
}

func (e *encoder) leave(ptr uintptr) { delete(e.seen, ptr) }
