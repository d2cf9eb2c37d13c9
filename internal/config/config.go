package config

import (
	"lottery_backend/internal/model"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

type AppConfig interface {
	Env() string
	Storage() string
	GameConfigPath() string
}

type RoundConfig interface {
	RoundDuration() time.Duration
	// CountdownOffsets - отметки до границы раунда, по убыванию
	CountdownOffsets() []time.Duration
	LockOffset() time.Duration
	HistoryLimit() int
	IterationPause() time.Duration
}

type BetConfig interface {
	MinBet() int64
	WinMultiplier() decimal.Decimal
	HouseRate() decimal.Decimal
	NumberMultipliers() map[int]decimal.Decimal
}

type PayoutConfig interface {
	PayoutAttempts() int
	PayoutBackoff() time.Duration
}

type FairnessConfig interface {
	Mode() string
	ForcedStrategy() string
	ForcedAttempts() int
	ClientSeed() string
}

// GameConfig - правила игры из YAML
type GameConfig interface {
	RoundConfig
	BetConfig
	PayoutConfig
	Fairness() FairnessConfig
	Operators() []model.Operator
}

type HTTPConfig interface {
	Address() string
}

type PGConfig interface {
	DSN() string
	PoolConfig() *pgxpool.Config
}

type RedisConfig interface {
	Enabled() bool
	Address() string
	Password() string
	DB() int
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
}
