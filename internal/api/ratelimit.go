package api

import (
	"net"
	"net/http"
	"strings"

	"github.com/shelfwise/shelfwise-server/internal/http/response"
	"github.com/shelfwise/shelfwise-server/internal/ratelimit"
)

const authPathPrefix = "/auth/"

// authRateLimit throttles /auth/ requests per client IP. Other paths pass
// through untouched.
func (s *Server) authRateLimit(limiter *ratelimit.KeyedRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, authPathPrefix) {
				next.ServeHTTP(w, r)
				return
			}

			key := getClientIP(r)
			if !limiter.Allow(key) {
				s.logger.Warn("rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
					"request_id", requestID(r.Context()),
				)
				response.TooManyRequests(w, s.logger.Logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// getClientIP returns the host part of RemoteAddr. Forwarding headers only
// count when TrustProxy put middleware.RealIP in front of this.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
