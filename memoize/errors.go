package memoize

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNotAFunction is returned by Wrap when the wrapped value is not a func.
var ErrNotAFunction = errors.New("memoize: fn must be a function")

// NormalizationError reports that a stable cache key could not be derived
// from a call's arguments. It is raised at call time, before the wrapped
// function runs, so unnormalizable calls are never silently uncached.
type NormalizationError struct {
	Path string       // location within the argument list, e.g. "arg[1].Payload"
	Type reflect.Type // offending type, if known
}

func (e *NormalizationError) Error() string {
	if e.Type == nil {
		return fmt.Sprintf("memoize: cannot derive cache key at %s", e.Path)
	}
	return fmt.Sprintf("memoize: cannot derive cache key at %s: unsupported type %s", e.Path, e.Type)
}
