package cacheinfra

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// TextCodeBackendUnavailable marks errors raised when a cache backend cannot serve a call.
const TextCodeBackendUnavailable = "CACHE_BACKEND_UNAVAILABLE"

// backendUnavailable wraps a backend failure. Context errors are returned as is
// so callers can tell cancellation apart from a degraded backend.
func backendUnavailable(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, "cache backend unavailable: "+op).
		WithTextCode(TextCodeBackendUnavailable)
}

func dedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
