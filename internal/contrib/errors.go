package contrib

import (
	"errors"
	"fmt"
)

// Kind classifies a failed load.
type Kind string

const (
	KindConfiguration Kind = "configuration"
	KindUpstream      Kind = "upstream"
	KindCache         Kind = "cache"
	KindUnknown       Kind = "unknown"
)

// ConfigurationError reports a missing or invalid subject identifier.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Msg
}

// UpstreamError reports a failed fetch: transport failure, timeout,
// non-success status or a payload without a contribution list.
type UpstreamError struct {
	Username   string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s: status %d: %v", e.Username, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream %s: %v", e.Username, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// CacheError reports an unreadable cache entry. The engine logs it and
// treats the entry as a miss.
type CacheError struct {
	Key string
	Err error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache %s: %v", e.Key, e.Err)
}

func (e *CacheError) Unwrap() error { return e.Err }

var (
	errNoContributions = errors.New("could not get contribution data for this user")
	errNoUsername      = &ConfigurationError{Msg: "no username provided"}
)

// KindOf maps an error returned by the engine to its Kind.
func KindOf(err error) Kind {
	var cfgErr *ConfigurationError
	var upErr *UpstreamError
	var cacheErr *CacheError
	switch {
	case errors.As(err, &cfgErr):
		return KindConfiguration
	case errors.As(err, &upErr):
		return KindUpstream
	case errors.As(err, &cacheErr):
		return KindCache
	default:
		return KindUnknown
	}
}
