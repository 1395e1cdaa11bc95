// Package search orchestrates a site search request: normalize the
// query, resolve the optional embedding, run the single hybrid store
// call, group and cap the rows.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/opencivic/sitesearch/internal/domain"
	"github.com/opencivic/sitesearch/internal/domain/search/query"
	"github.com/opencivic/sitesearch/internal/domain/search/result"
	"github.com/opencivic/sitesearch/internal/logger"
)

// Response is the shaped search outcome returned to transport.
type Response struct {
	Results    result.Grouped
	TotalCount int
	Query      string
}

// Service handles search requests. All state is injected; the service
// itself is stateless and safe for concurrent use.
type Service struct {
	store      Store
	embeddings EmbeddingResolver
	weights    domain.Weights
	maxResults int
}

// New creates a search service.
func New(store Store, embeddings EmbeddingResolver, weights domain.Weights) *Service {
	return &Service{
		store:      store,
		embeddings: embeddings,
		weights:    weights,
		maxResults: result.MaxTotal,
	}
}

// Search runs one search request end to end. Queries below the minimum
// length return an empty grouped result without touching the store or
// the embedding provider. A store failure is the only error path; the
// semantic signal degrades silently.
func (s *Service) Search(ctx context.Context, rawQuery string) (Response, error) {
	q := query.Normalize(rawQuery)

	if q.TooShort() {
		return Response{Results: result.Empty(), Query: q.Display()}, nil
	}

	res := s.embeddings.Resolve(ctx, q.Display())
	if res.State() == domain.ResolutionUnavailable {
		logger.FromContext(ctx).Debug("semantic signal degraded",
			zap.String("reason", res.Reason()))
	}

	rows, err := s.store.HybridSearch(
		ctx, q.Display(), q.PrefixExpr(), res.Vector(), s.weights, s.maxResults,
	)
	if err != nil {
		return Response{Results: result.Empty(), Query: q.Display()},
			fmt.Errorf("hybrid search: %w", err)
	}

	grouped := result.Group(rows)
	return Response{
		Results:    grouped,
		TotalCount: grouped.TotalCount(),
		Query:      q.Display(),
	}, nil
}
