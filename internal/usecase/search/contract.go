package search

import (
	"context"

	"github.com/opencivic/sitesearch/internal/domain"
	"github.com/opencivic/sitesearch/internal/domain/search/result"
)

// Store is the external hybrid index contract: one call carrying both
// query shapes, the optional vector and the signal weights, returning
// rows ranked by combined score.
type Store interface {
	HybridSearch(
		ctx context.Context,
		displayQuery, prefixExpr string,
		vector []float32,
		weights domain.Weights,
		maxResults int,
	) ([]result.Row, error)
}

// EmbeddingResolver acquires the optional semantic vector for a query.
type EmbeddingResolver interface {
	Resolve(ctx context.Context, displayQuery string) domain.Resolution
}
