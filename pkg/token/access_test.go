package token

import (
	"lottery_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("secret")
	op := &model.Operator{Login: "admin", Role: model.RoleOperator}

	tokenStr, err := GenerateAccessToken(op, secret, time.Hour)
	require.NoError(t, err)

	claims, err := VerifyToken(tokenStr, secret)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, model.RoleOperator, claims.Role)
}

func TestVerifyTokenRejects(t *testing.T) {
	op := &model.Operator{Login: "relay", Role: model.RoleRelay}

	expired, err := GenerateAccessToken(op, []byte("secret"), -time.Minute)
	require.NoError(t, err)
	foreign, err := GenerateAccessToken(op, []byte("other"), time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expired},
		{name: "wrong key", token: foreign},
		{name: "garbage", token: "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyToken(tt.token, []byte("secret"))
			assert.Error(t, err)
		})
	}
}
