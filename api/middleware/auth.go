package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bremray/bremray-backend/api/responses"
	pkgAuth "github.com/bremray/bremray-backend/pkg/auth"
	pkgerrors "github.com/bremray/bremray-backend/pkg/errors"
	"github.com/bremray/bremray-backend/pkg/logger"
)

// TokenVerifier checks a bearer token and returns its claims. Verification
// is total: a false second return covers malformed, tampered, and expired
// tokens alike.
type TokenVerifier interface {
	Verify(tokenString string) (*pkgAuth.SessionTokenClaims, bool)
}

// Auth validates a bearer token and seeds the request context with the claims.
func Auth(verifier TokenVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, ok := verifier.Verify(token)
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token"))
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserID, claims.UserID.String())
			ctx = context.WithValue(ctx, ctxRole, string(claims.Role))

			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{
					"user_id":    claims.UserID.String(),
					"actor_role": string(claims.Role),
				})
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
