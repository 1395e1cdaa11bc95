package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ResolutionState classifies the outcome of an embedding lookup.
type ResolutionState int

const (
	// ResolutionHit means a vector is available (from cache or provider).
	ResolutionHit ResolutionState = iota
	// ResolutionMiss means no provider is configured; semantic search is off.
	ResolutionMiss
	// ResolutionUnavailable means the provider failed or timed out.
	// The query degrades to keyword+fuzzy ranking.
	ResolutionUnavailable
)

// Resolution is the outcome of resolving an embedding for a query.
// Only Hit carries a vector; Miss and Unavailable degrade the search
// to two-signal ranking instead of failing it.
type Resolution struct {
	state  ResolutionState
	vector []float32
	reason string
}

// Hit creates a resolution carrying a vector.
func Hit(vector []float32) Resolution {
	return Resolution{state: ResolutionHit, vector: vector}
}

// Miss creates a resolution for a disabled provider.
func Miss() Resolution {
	return Resolution{state: ResolutionMiss}
}

// Unavailable creates a resolution for a failed or timed-out fetch.
func Unavailable(reason string) Resolution {
	return Resolution{state: ResolutionUnavailable, reason: reason}
}

// State returns the resolution outcome.
func (r Resolution) State() ResolutionState { return r.state }

// Vector returns the embedding vector, nil unless State is ResolutionHit.
func (r Resolution) Vector() []float32 {
	if r.state != ResolutionHit {
		return nil
	}
	return r.vector
}

// Reason describes why the provider was unavailable; empty otherwise.
func (r Resolution) Reason() string { return r.reason }
