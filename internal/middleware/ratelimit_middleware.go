// Package middleware provides HTTP middleware components.
package middleware

import (
	"net"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/challecara/tsunagulink/internal/utils"
	"github.com/challecara/tsunagulink/internal/utils/ratelimit"
)

// RateLimit throttles requests per client IP within the given category.
// Login and secret verification run under tighter budgets than the rest
// of the API to slow down guessing.
func RateLimit(store *ratelimit.Store, category string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := clientIP(r)

			if !store.Allow(clientIP, category) {
				log.Warn().
					Str("client_ip", clientIP).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Str("category", category).
					Msg("Rate limit exceeded")

				w.Header().Set("Retry-After", "60")
				utils.Error(w, http.StatusTooManyRequests, "too_many_requests",
					"Rate limit exceeded. Please try again later.", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. The RealIP middleware runs
// earlier in the chain and has already resolved proxy headers.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
