package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"mindcare/internal/service"

	"go.uber.org/zap"
)

type claimsKey struct{}

// RequireAuth rejects requests without a valid bearer token with code 60401
// and HTTP 401.
func RequireAuth(tokens *service.TokenIssuer, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeJSON(w, http.StatusUnauthorized, TokenExpired("missing access token"))
				return
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				msg := "invalid access token"
				if errors.Is(err, service.ErrTokenExpired) {
					msg = "access token expired"
				}
				logger.Debug("Rejected access token", zap.String("path", r.URL.Path), zap.Error(err))
				writeJSON(w, http.StatusUnauthorized, TokenExpired(msg))
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// ClaimsFrom returns the token claims attached by RequireAuth.
func ClaimsFrom(ctx context.Context) (*service.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*service.Claims)
	return c, ok
}
