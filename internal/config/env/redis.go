package env

import (
	"fmt"
	"lottery_backend/internal/config"
	"os"
	"strconv"
)

const (
	redisAddressEnvName  = "REDIS_ADDRESS"
	redisPasswordEnvName = "REDIS_PASSWORD"
	redisDBEnvName       = "REDIS_DB"
)

type redisConfig struct {
	address  string
	password string
	db       int
}

// NewRedisConfig - Redis необязателен: без адреса блокировки раундов держатся в памяти процесса
func NewRedisConfig() (config.RedisConfig, error) {
	cfg := &redisConfig{
		address:  os.Getenv(redisAddressEnvName),
		password: os.Getenv(redisPasswordEnvName),
	}

	if raw := os.Getenv(redisDBEnvName); len(raw) > 0 {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid redis db: %w", err)
		}
		cfg.db = db
	}

	return cfg, nil
}

func (cfg *redisConfig) Enabled() bool {
	return len(cfg.address) > 0
}

func (cfg *redisConfig) Address() string {
	return cfg.address
}

func (cfg *redisConfig) Password() string {
	return cfg.password
}

func (cfg *redisConfig) DB() int {
	return cfg.db
}
