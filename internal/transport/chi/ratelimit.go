package chi

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/opencivic/sitesearch/internal/domain/search/result"
	"github.com/opencivic/sitesearch/internal/metrics"
	"github.com/opencivic/sitesearch/internal/repository/ratelimit"
)

// rateLimitResponse extends the error envelope with a retry hint.
type rateLimitResponse struct {
	errorResponse
	RetryAfterSec int `json:"retryAfterSec"`
}

// RateLimitMiddleware admits requests through the sliding-window
// limiter keyed by client IP. Rejections answer 429 with a Retry-After
// header; admitted requests carry X-RateLimit-Remaining.
func RateLimitMiddleware(limiter *ratelimit.Limiter) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := limiter.Allow(clientKey(r))

			if !decision.Allowed {
				metrics.RateLimitedTotal.Inc()

				retryAfter := int(math.Ceil(time.Until(decision.ResetAt).Seconds()))
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				writeJSON(w, http.StatusTooManyRequests, rateLimitResponse{
					errorResponse: errorResponse{
						Code:    codeRateLimit,
						Message: "too many requests, slow down",
						Results: result.Empty(),
						Query:   r.URL.Query().Get("q"),
					},
					RetryAfterSec: retryAfter,
				})
				return
			}

			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", decision.Remaining))
			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the caller for rate limiting: the first
// X-Forwarded-For hop when present (the service runs behind a reverse
// proxy), otherwise the remote address without the port.
func clientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
