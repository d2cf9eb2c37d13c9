package token

import (
	"errors"
	"fmt"
	"lottery_backend/internal/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func GenerateAccessToken(op *model.Operator, secretKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := model.OperatorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   op.Login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: op.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(secretKey)
}

func VerifyToken(tokenStr string, secretKey []byte) (*model.OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &model.OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		_, ok := token.Method.(*jwt.SigningMethodHMAC)
		if !ok {
			return nil, errors.New("unexpected token signing method")
		}

		return secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*model.OperatorClaims)
	if !ok || claims.Subject == "" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}
