package metadata

import (
	"errors"
	"fmt"
)

// ConfigError means the service cannot talk to upstream at all.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// UpstreamError is a non-success response or transport failure from TMDB.
// Status is 0 for transport failures and timeouts.
type UpstreamError struct {
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("tmdb %s: status %d: %v", e.Path, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("TMDB error %d: %s", e.Status, e.Body)
	default:
		return fmt.Sprintf("tmdb %s: %v", e.Path, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsConfigError reports whether err (or anything it wraps) is a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}

// IsUpstreamError reports whether err (or anything it wraps) is an UpstreamError.
func IsUpstreamError(err error) bool {
	var upErr *UpstreamError
	return errors.As(err, &upErr)
}
