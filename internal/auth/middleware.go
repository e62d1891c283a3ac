package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
)

var errMissingBearer = errors.New("missing bearer token")

type claimsKey struct{}

// Middleware 拒绝没有有效 bearer token 的请求，通过后把 claims 放进 context
func Middleware(tokens *TokenService, logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(tokens, r)
			if err != nil {
				logger.Debug("request rejected", "path", r.URL.Path, "err", err)
				w.Header().Set("WWW-Authenticate", TokenTypeBearer)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func authenticate(tokens *TokenService, r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, TokenTypeBearer) {
		return nil, errMissingBearer
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errMissingBearer
	}
	return tokens.Verify(token)
}

func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext 取出已认证请求的 claims
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*Claims)
	return claims, ok
}
