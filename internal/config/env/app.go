package env

import (
	"fmt"
	"lottery_backend/internal/config"
	"os"
)

const (
	appEnvName            = "APP_ENV"
	storageEnvName        = "STORAGE"
	gameConfigPathEnvName = "GAME_CONFIG_PATH"

	EnvLocal = "local"
	EnvProd  = "prod"

	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type appConfig struct {
	env            string
	storage        string
	gameConfigPath string
}

func NewAppConfig() (config.AppConfig, error) {
	cfg := &appConfig{
		env:            os.Getenv(appEnvName),
		storage:        os.Getenv(storageEnvName),
		gameConfigPath: os.Getenv(gameConfigPathEnvName),
	}

	if len(cfg.env) == 0 {
		cfg.env = EnvLocal
	}
	if len(cfg.storage) == 0 {
		cfg.storage = StoragePostgres
	}
	if cfg.storage != StoragePostgres && cfg.storage != StorageMemory {
		return nil, fmt.Errorf("unknown storage %q", cfg.storage)
	}
	if len(cfg.gameConfigPath) == 0 {
		cfg.gameConfigPath = "config.yaml"
	}

	return cfg, nil
}

func (cfg *appConfig) Env() string {
	return cfg.env
}

func (cfg *appConfig) Storage() string {
	return cfg.storage
}

func (cfg *appConfig) GameConfigPath() string {
	return cfg.gameConfigPath
}
