// Package domain holds contracts and sentinel errors shared between layers.
package domain

import "errors"

var (
	// ErrRateLimited signals a per-client rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrStoreUnavailable signals that the hybrid index store query failed.
	ErrStoreUnavailable = errors.New("search store unavailable")
)
