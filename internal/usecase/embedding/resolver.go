// Package embedding resolves a query embedding from the cache or the
// external provider, degrading gracefully when the provider is slow or
// down. Semantic search is an optional relevance signal: no failure
// here ever escalates to the caller.
package embedding

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/opencivic/sitesearch/internal/domain"
	"github.com/opencivic/sitesearch/internal/metrics"
)

// DefaultTimeout bounds a single provider call. The provider offers no
// latency guarantee of its own, so the bound is enforced client-side
// and cancels the outbound request, not just the wait.
const DefaultTimeout = 2 * time.Second

// Resolver acquires an embedding for a display query.
type Resolver struct {
	cache    Cache
	provider Provider
	timeout  time.Duration
	logger   *zap.Logger
}

// New creates a resolver. provider may be nil, which disables the
// semantic signal entirely (every Resolve returns Miss).
func New(cache Cache, provider Provider, timeout time.Duration, logger *zap.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Resolver{cache: cache, provider: provider, timeout: timeout, logger: logger}
}

// Resolve returns Hit with a vector from the cache or a fresh provider
// call, Miss when no provider is configured, or Unavailable when the
// fetch failed or timed out. Never retries within a request.
func (r *Resolver) Resolve(ctx context.Context, displayQuery string) domain.Resolution {
	if r.provider == nil {
		return domain.Miss()
	}

	key := strings.ToLower(displayQuery)
	if vec, ok := r.cache.Get(key); ok {
		metrics.EmbeddingCacheTotal.WithLabelValues("hit").Inc()
		return domain.Hit(vec)
	}
	metrics.EmbeddingCacheTotal.WithLabelValues("miss").Inc()

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	vec, err := r.provider.Embed(callCtx, displayQuery)
	if err != nil {
		metrics.SearchDegradedTotal.Inc()
		// A timeout is an expected condition, never logged at error.
		if errors.Is(err, context.DeadlineExceeded) {
			r.logger.Warn("embedding fetch timed out",
				zap.Duration("timeout", r.timeout))
			return domain.Unavailable("timeout")
		}
		r.logger.Warn("embedding fetch failed", zap.Error(err))
		return domain.Unavailable("provider error")
	}

	r.cache.Set(key, vec)
	return domain.Hit(vec)
}
