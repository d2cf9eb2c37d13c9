package middleware

import (
	"lottery_backend/internal/model"
	"lottery_backend/pkg/token"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var secret = []byte("secret")

func bearer(t *testing.T, role string) string {
	t.Helper()
	tok, err := token.GenerateAccessToken(&model.Operator{Login: "u", Role: role}, secret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestAuthAndRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, found := ClaimsFromContext(r.Context())
		require.True(t, found)
		assert.Equal(t, "u", claims.Subject)
		w.WriteHeader(http.StatusNoContent)
	})
	h := Logger(zaptest.NewLogger(t))(Auth(secret)(RequireRole(model.RoleOperator)(ok)))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "no header", want: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "wrong role", header: bearer(t, model.RoleRelay), want: http.StatusForbidden},
		{name: "operator", header: bearer(t, model.RoleOperator), want: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/admin/pot", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, r)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
