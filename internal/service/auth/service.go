package auth

import (
	"lottery_backend/internal/config"
	"lottery_backend/internal/model"
	"lottery_backend/internal/service"

	"go.uber.org/zap"
)

type serv struct {
	operators map[string]model.Operator
	jwtConfig config.JWTConfig
	log       *zap.Logger
}

// NewAuthService - выдача токенов операторам и ретрансляторам из config.yaml
func NewAuthService(operators []model.Operator, jwtConfig config.JWTConfig, log *zap.Logger) service.AuthService {
	byLogin := make(map[string]model.Operator, len(operators))
	for _, op := range operators {
		byLogin[op.Login] = op
	}

	return &serv{
		operators: byLogin,
		jwtConfig: jwtConfig,
		log:       log.Named("auth"),
	}
}
