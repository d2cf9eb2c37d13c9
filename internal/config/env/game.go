package env

import (
	"errors"
	"fmt"
	"lottery_backend/internal/config"
	"lottery_backend/internal/model"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	FairnessPlain      = "plain"
	FairnessVerifiable = "verifiable"

	StrategyRejection = "rejection"
	StrategyConstruct = "construct"
)

// gameFile - структура config.yaml
type gameFile struct {
	Round struct {
		Duration       time.Duration   `yaml:"duration"`
		Countdown      []time.Duration `yaml:"countdown"`
		LockAt         time.Duration   `yaml:"lock_at"`
		HistoryLimit   int             `yaml:"history_limit"`
		IterationPause time.Duration   `yaml:"iteration_pause"`
	} `yaml:"round"`
	Bets struct {
		MinBet            int64           `yaml:"min_bet"`
		WinMultiplier     float64         `yaml:"win_multiplier"`
		HouseRate         *float64        `yaml:"house_rate"`
		NumberMultipliers map[int]float64 `yaml:"number_multipliers"`
	} `yaml:"bets"`
	Payout struct {
		Attempts int           `yaml:"attempts"`
		Backoff  time.Duration `yaml:"backoff"`
	} `yaml:"payout"`
	Fairness struct {
		Mode           string `yaml:"mode"`
		ForcedStrategy string `yaml:"forced_strategy"`
		ForcedAttempts int    `yaml:"forced_attempts"`
		ClientSeed     string `yaml:"client_seed"`
	} `yaml:"fairness"`
	Operators []struct {
		Login        string `yaml:"login"`
		PasswordHash string `yaml:"password_hash"`
		Role         string `yaml:"role"`
	} `yaml:"operators"`
}

type gameConfig struct {
	roundDuration     time.Duration
	countdown         []time.Duration
	lockOffset        time.Duration
	historyLimit      int
	iterationPause    time.Duration
	minBet            int64
	winMultiplier     decimal.Decimal
	houseRate         decimal.Decimal
	numberMultipliers map[int]decimal.Decimal
	payoutAttempts    int
	payoutBackoff     time.Duration
	fairness          *fairnessConfig
	operators         []model.Operator
}

type fairnessConfig struct {
	mode           string
	forcedStrategy string
	forcedAttempts int
	clientSeed     string
}

// Таблица множителей для ставок на число по длине
var defaultNumberMultipliers = map[int]float64{
	1: 9.2,
	2: 90,
	3: 900,
	4: 9000,
	5: 80000,
	6: 100000,
}

// NewGameConfigFromYAML - загрузка правил игры из файла
func NewGameConfigFromYAML(path string) (config.GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read game config: %w", err)
	}
	return ParseGameConfig(data)
}

// ParseGameConfig - разбор YAML, отсутствующие поля получают значения по умолчанию
func ParseGameConfig(data []byte) (config.GameConfig, error) {
	var f gameFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse game config: %w", err)
	}

	cfg := &gameConfig{
		roundDuration:  orDuration(f.Round.Duration, 60*time.Second),
		countdown:      f.Round.Countdown,
		lockOffset:     orDuration(f.Round.LockAt, 5*time.Second),
		historyLimit:   orInt(f.Round.HistoryLimit, 15),
		iterationPause: orDuration(f.Round.IterationPause, time.Second),
		minBet:         f.Bets.MinBet,
		payoutAttempts: orInt(f.Payout.Attempts, 3),
		payoutBackoff:  orDuration(f.Payout.Backoff, 50*time.Millisecond),
		fairness: &fairnessConfig{
			mode:           orString(f.Fairness.Mode, FairnessVerifiable),
			forcedStrategy: orString(f.Fairness.ForcedStrategy, StrategyRejection),
			forcedAttempts: orInt(f.Fairness.ForcedAttempts, 500),
			clientSeed:     f.Fairness.ClientSeed,
		},
	}

	if cfg.minBet == 0 {
		cfg.minBet = 1000
	}
	if len(cfg.countdown) == 0 {
		cfg.countdown = []time.Duration{30 * time.Second, 10 * time.Second, 5 * time.Second}
	}
	sort.Slice(cfg.countdown, func(i, j int) bool { return cfg.countdown[i] > cfg.countdown[j] })

	winMultiplier := f.Bets.WinMultiplier
	if winMultiplier == 0 {
		winMultiplier = 1.97
	}
	cfg.winMultiplier = decimal.NewFromFloat(winMultiplier)

	houseRate := 0.03
	if f.Bets.HouseRate != nil {
		houseRate = *f.Bets.HouseRate
	}
	cfg.houseRate = decimal.NewFromFloat(houseRate)

	numbers := f.Bets.NumberMultipliers
	if len(numbers) == 0 {
		numbers = defaultNumberMultipliers
	}
	cfg.numberMultipliers = make(map[int]decimal.Decimal, len(numbers))
	for length, mult := range numbers {
		cfg.numberMultipliers[length] = decimal.NewFromFloat(mult)
	}

	for _, op := range f.Operators {
		cfg.operators = append(cfg.operators, model.Operator{
			Login:        op.Login,
			PasswordHash: op.PasswordHash,
			Role:         orString(op.Role, model.RoleRelay),
		})
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *gameConfig) validate() error {
	if c.roundDuration < time.Second || c.roundDuration%time.Second != 0 {
		return errors.New("round duration must be a whole number of seconds")
	}
	for _, off := range c.countdown {
		if off <= 0 || off >= c.roundDuration {
			return fmt.Errorf("countdown offset %s out of range", off)
		}
	}
	if c.lockOffset <= 0 || c.lockOffset >= c.roundDuration {
		return fmt.Errorf("lock offset %s out of range", c.lockOffset)
	}
	if c.minBet <= 0 {
		return errors.New("min bet must be positive")
	}
	if c.houseRate.IsNegative() {
		return errors.New("house rate must not be negative")
	}
	for length := 1; length <= model.DigitsCount; length++ {
		if _, ok := c.numberMultipliers[length]; !ok {
			return fmt.Errorf("number multiplier for length %d missing", length)
		}
	}
	switch c.fairness.mode {
	case FairnessPlain, FairnessVerifiable:
	default:
		return fmt.Errorf("unknown fairness mode %q", c.fairness.mode)
	}
	switch c.fairness.forcedStrategy {
	case StrategyRejection, StrategyConstruct:
	default:
		return fmt.Errorf("unknown forced strategy %q", c.fairness.forcedStrategy)
	}
	return nil
}

func orDuration(v, def time.Duration) time.Duration {
	if v == 0 {
		return def
	}
	return v
}

func orInt(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

func orString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (c *gameConfig) RoundDuration() time.Duration      { return c.roundDuration }
func (c *gameConfig) CountdownOffsets() []time.Duration { return c.countdown }
func (c *gameConfig) LockOffset() time.Duration         { return c.lockOffset }
func (c *gameConfig) HistoryLimit() int                 { return c.historyLimit }
func (c *gameConfig) IterationPause() time.Duration     { return c.iterationPause }
func (c *gameConfig) MinBet() int64                     { return c.minBet }
func (c *gameConfig) WinMultiplier() decimal.Decimal    { return c.winMultiplier }
func (c *gameConfig) HouseRate() decimal.Decimal        { return c.houseRate }
func (c *gameConfig) PayoutAttempts() int               { return c.payoutAttempts }
func (c *gameConfig) PayoutBackoff() time.Duration      { return c.payoutBackoff }
func (c *gameConfig) Operators() []model.Operator       { return c.operators }

func (c *gameConfig) NumberMultipliers() map[int]decimal.Decimal {
	return c.numberMultipliers
}

func (c *gameConfig) Fairness() config.FairnessConfig {
	return c.fairness
}

func (f *fairnessConfig) Mode() string           { return f.mode }
func (f *fairnessConfig) ForcedStrategy() string { return f.forcedStrategy }
func (f *fairnessConfig) ForcedAttempts() int    { return f.forcedAttempts }
func (f *fairnessConfig) ClientSeed() string     { return f.clientSeed }
