package gce

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// IsNotFound checks if an error is an API reply with http.StatusNotFound.
func IsNotFound(err error) bool {
	return hasStatus(err, func(code int) bool { return code == http.StatusNotFound })
}

// IsClientError checks if an error is an API reply with a 4xx status.
// Compute Engine answers lookups of malformed names with 400 rather than 404,
// so existence probes treat every client error as "does not exist".
func IsClientError(err error) bool {
	return hasStatus(err, func(code int) bool { return code >= 400 && code < 500 })
}

func hasStatus(err error, match func(int) bool) bool {
	if err == nil {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return match(apiErr.Code)
	}
	return false
}

// ProbeState is the outcome of an existence probe.
type ProbeState int

const (
	// ProbeFound means the resource exists.
	ProbeFound ProbeState = iota
	// ProbeNotFound means the API rejected the lookup with a client error.
	ProbeNotFound
	// ProbeTransportError means the lookup failed for any other reason.
	ProbeTransportError
)

func (s ProbeState) String() string {
	switch s {
	case ProbeFound:
		return "found"
	case ProbeNotFound:
		return "not found"
	case ProbeTransportError:
		return "transport error"
	default:
		return "unknown"
	}
}

// ProbeResult holds the resource returned by a probe, or the error that
// prevented it from being returned.
type ProbeResult[T any] struct {
	Value T
	State ProbeState
	Err   error
}

// Exists collapses the result to a boolean. Transport errors count as absent.
func (r ProbeResult[T]) Exists() bool {
	return r.State == ProbeFound
}

// Probe runs a lookup and classifies its outcome.
//
// Usage example:
//
//	res := gce.Probe(ctx, func(ctx context.Context) (*compute.Network, error) {
//	    return gw.GetNetwork(ctx, project, "default")
//	})
//	if !res.Exists() { ... }
func Probe[T any](ctx context.Context, get func(context.Context) (T, error)) ProbeResult[T] {
	value, err := get(ctx)
	switch {
	case err == nil:
		return ProbeResult[T]{Value: value, State: ProbeFound}
	case IsClientError(err):
		return ProbeResult[T]{State: ProbeNotFound, Err: err}
	default:
		return ProbeResult[T]{State: ProbeTransportError, Err: err}
	}
}
