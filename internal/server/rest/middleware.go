package rest

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/nileguide/api/internal/common"
	"github.com/nileguide/api/internal/server/auth"
	"github.com/nileguide/api/internal/server/rate"
)

type contextKey string

const claimsKey contextKey = "claims"

// ClaimsFromContext returns the verified token claims placed by the bearer
// middleware.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// bearerAuth verifies the Authorization header and stores the claims in the
// request context. Token state is all the middleware checks; account state
// is re-checked by the handler behind it.
func (h *Handler) bearerAuth(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				h.writeError(w, r, common.ErrInvalidToken)
				return
			}

			claims, err := issuer.Verify(token)
			if err != nil {
				h.writeError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// rateLimit charges one request per origin against the scope's budget before
// the handler runs, so over-budget requests never reach the store.
func (h *Handler) rateLimit(limiter *rate.Limiter, scope string, limit int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := limiter.Allow(r.Context(), scope, clientIP(r), limit); err != nil {
				h.writeError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP resolves the request origin, trusting the first X-Forwarded-For
// hop when a proxy set one.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
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
