package env

import (
	"errors"
	"fmt"
	"lottery_backend/internal/config"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgDSNEnvName      = "PG_DSN"
	pgMaxConnsEnvName = "PG_MAX_CONNS"
)

type pgConfig struct {
	dsn  string
	pool *pgxpool.Config
}

// NewPGConfig - DSN разбирается сразу, чтобы ошибка формата всплыла до подключения
func NewPGConfig() (config.PGConfig, error) {
	dsn := os.Getenv(pgDSNEnvName)
	if len(dsn) == 0 {
		return nil, errors.New("pg dsn not found")
	}

	pool, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid pg dsn: %w", err)
	}

	if raw := os.Getenv(pgMaxConnsEnvName); len(raw) > 0 {
		maxConns, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || maxConns <= 0 {
			return nil, fmt.Errorf("invalid %s: %q", pgMaxConnsEnvName, raw)
		}
		pool.MaxConns = int32(maxConns)
	}

	return &pgConfig{
		dsn:  dsn,
		pool: pool,
	}, nil
}

func (cfg *pgConfig) DSN() string {
	return cfg.dsn
}

// PoolConfig - копия, пул может менять переданную конфигурацию
func (cfg *pgConfig) PoolConfig() *pgxpool.Config {
	return cfg.pool.Copy()
}
