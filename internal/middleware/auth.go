package middleware

import (
	"context"
	"lottery_backend/internal/model"
	"lottery_backend/pkg/resp"
	"lottery_backend/pkg/token"
	"net/http"
	"strings"
)

type ctxKey struct{}

// Auth - проверка Bearer токена, claims кладутся в контекст запроса
func Auth(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || raw == "" {
				resp.WriteError(w, r, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := token.VerifyToken(raw, secretKey)
			if err != nil {
				resp.WriteError(w, r, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
		})
	}
}

// RequireRole - доступ только для указанной роли, ставится после Auth
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok || claims.Role != role {
				resp.WriteError(w, r, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*model.OperatorClaims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*model.OperatorClaims)
	return claims, ok
}
