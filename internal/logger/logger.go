package logger

import (
	"go.uber.org/zap"
)

// New - production-логгер для боевого окружения, development для локального
func New(env string) (*zap.Logger, error) {
	if env == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
