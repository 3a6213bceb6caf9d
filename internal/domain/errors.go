package domain

import (
	"errors"
	"fmt"
)

// ConfigError wraps a configuration problem with the offending field.
// The simulation refuses to start while any ConfigError is present.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

var (
	ErrNoAgents          = errors.New("agent count must be at least 1")
	ErrNoStores          = errors.New("at least one dark store is required")
	ErrDuplicateStore    = errors.New("dark store ids must be unique")
	ErrInvalidSpeed      = errors.New("agent speed must be positive")
	ErrInvalidStep       = errors.New("step length must be positive")
	ErrInvalidTraffic    = errors.New("traffic factor must be positive")
	ErrInvalidOrderRange = errors.New("invalid order range")
	ErrInvalidHourWindow = errors.New("invalid hour window")
	ErrMissingGeometry   = errors.New("missing geometry for zone type")
	ErrUnknownZoneKind   = errors.New("unknown zone kind")
	ErrInvalidRegion     = errors.New("region ring needs at least 3 vertices")
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrNotFound  = errors.New("not found")
	ErrCacheMiss = errors.New("cache miss")
)

func NewConfigError(field string, err error) error {
	return &ConfigError{Field: field, Err: err}
}
