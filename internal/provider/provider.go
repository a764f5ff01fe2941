// Package provider implements the cache+fallback envelope shared by all
// provider services: a generic ordered fallback chain over upstream
// loaders, a read-through cache helper, and the error shapes surfaced
// when a chain is exhausted.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/finsight/internal/infra"
)

// ErrNoData signals that an upstream answered but had nothing for the
// query. The chain treats it exactly like an unreachable upstream and
// moves to the next loader.
var ErrNoData = errors.New("upstream returned no data")

// ErrTotalUnavailable is surfaced when every loader in a chain failed and
// the endpoint disallows mock fallback.
type ErrTotalUnavailable struct {
	Message          string   `json:"message"`
	Details          string   `json:"details,omitempty"`
	SuggestedActions []string `json:"suggestedActions,omitempty"`
}

func (e *ErrTotalUnavailable) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Source is one loader in an ordered fallback chain. Load returns
// ErrNoData (or any other error) to pass control to the next source.
type Source[T any] struct {
	Name string
	Load func(ctx context.Context) (*T, error)
}

// First evaluates sources strictly left to right and returns the first
// non-nil result together with the winning source name. Loader errors are
// logged at warn and swallowed so the chain continues. The second source
// is never invoked while the first is outstanding.
func First[T any](ctx context.Context, log zerolog.Logger, what string, sources ...Source[T]) (*T, string) {
	for _, src := range sources {
		if ctx.Err() != nil {
			return nil, ""
		}
		result, err := src.Load(ctx)
		if err != nil {
			log.Warn().
				Str("what", what).
				Str("source", src.Name).
				Err(err).
				Msg("source failed, falling through")
			continue
		}
		if result == nil {
			continue
		}
		return result, src.Name
	}
	return nil, ""
}

// ReadThrough returns the cached value under key when fresh, otherwise
// invokes load, stores a successful result for ttl, and returns it.
// Concurrent misses may race and both load; last write wins.
func ReadThrough[T any](cache *infra.Cache, key string, ttl time.Duration, load func() (*T, error)) (*T, error) {
	if v, ok := cache.Get(key); ok {
		if typed, ok := v.(*T); ok {
			return typed, nil
		}
	}

	result, err := load()
	if err != nil {
		return nil, err
	}
	cache.SetWithTTL(key, result, ttl)
	return result, nil
}

// Key builds a namespaced cache key: "<namespace>:<part>:<part>...".
func Key(namespace string, parts ...string) string {
	key := namespace
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// Unavailable builds the standard exhausted-chain error.
func Unavailable(what, details string) *ErrTotalUnavailable {
	return &ErrTotalUnavailable{
		Message: fmt.Sprintf("No %s available", what),
		Details: details,
		SuggestedActions: []string{
			"Verify the symbol or identifier is correct",
			"Check upstream API key configuration",
			"Retry after the provider rate-limit window resets",
		},
	}
}
