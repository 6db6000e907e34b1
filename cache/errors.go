package cache

import (
	"errors"
	"fmt"
)

// Sentinel causes for configuration failures. Match with errors.Is.
var (
	// ErrInvalidCapacity reports a capacity that is not a positive integer.
	ErrInvalidCapacity = errors.New("capacity must be > 0")

	// ErrInvalidTTL reports a negative TTL. Zero means "never expire".
	ErrInvalidTTL = errors.New("ttl must not be negative")
)

// ConfigError is returned by New (and Resize) for invalid parameters.
// Construction fails fast; values are never silently clamped.
type ConfigError struct {
	Field string // Options field name, e.g. "Capacity"
	Value any    // the rejected value
	Err   error  // sentinel cause, e.g. ErrInvalidCapacity
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("cache: invalid %s %v: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
