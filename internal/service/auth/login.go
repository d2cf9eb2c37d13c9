package auth

import (
	"context"
	"fmt"
	"lottery_backend/internal/model"
	"lottery_backend/pkg/pass"
	"lottery_backend/pkg/token"

	"go.uber.org/zap"
)

func (s *serv) Login(_ context.Context, login, password string) (string, error) {
	op, ok := s.operators[login]

	// Верификация пароля
	if !ok || !pass.VerifyPassword(op.PasswordHash, password) {
		s.log.Warn("rejected login attempt", zap.String("login", login))
		return "", model.ErrInvalidCredentials
	}

	// Создать access токен
	accessToken, err := token.GenerateAccessToken(
		&op,
		s.jwtConfig.AccessTokenSecretKey(),
		s.jwtConfig.AccessTokenDuration())
	if err != nil {
		return "", fmt.Errorf("auth.Login: %w", err)
	}

	s.log.Info("access token issued", zap.String("login", login), zap.String("role", op.Role))

	return accessToken, nil
}
