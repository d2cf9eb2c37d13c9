package fairness

import (
	"context"
	"errors"
	"fmt"
	"lottery_backend/internal/config"
	"lottery_backend/internal/config/env"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"
	"lottery_backend/internal/service"
	"lottery_backend/internal/service/outcome"
	"math/rand/v2"
)

type provider struct {
	verifiable  bool
	construct   bool
	maxAttempts int

	seeds repository.SeedRepository

	newSeed func() (string, error)
	digit   func() int
}

// NewProvider - генератор цифр в режиме plain или verifiable
func NewProvider(cfg config.FairnessConfig, seeds repository.SeedRepository) service.FairnessProvider {
	return &provider{
		verifiable:  cfg.Mode() == env.FairnessVerifiable,
		construct:   cfg.ForcedStrategy() == env.StrategyConstruct,
		maxAttempts: cfg.ForcedAttempts(),
		seeds:       seeds,
		newSeed:     GenerateServerSeed,
		digit:       func() int { return rand.IntN(10) },
	}
}

// Commit - заранее генерирует сид раунда и возвращает его хэш.
// Если сид уже сохранён другой репликой или до перезапуска, возвращается его хэш.
// В режиме plain коммита нет
func (p *provider) Commit(ctx context.Context, key model.RoundKey) (string, error) {
	if !p.verifiable {
		return "", nil
	}

	seed, err := p.newSeed()
	if err != nil {
		return "", fmt.Errorf("generate server seed: %w", err)
	}
	stored, err := p.seeds.SaveSeed(ctx, key, seed)
	if err != nil {
		return "", fmt.Errorf("save server seed: %w", err)
	}

	return Commitment(stored), nil
}

// Release - удаляет сид раунда после записи итога
func (p *provider) Release(ctx context.Context, key model.RoundKey) error {
	if !p.verifiable {
		return nil
	}
	return p.seeds.DeleteSeed(ctx, key)
}

// committedSeed - сид из коммита раунда или новый, если коммита не было
func (p *provider) committedSeed(ctx context.Context, key model.RoundKey) (string, bool, error) {
	seed, err := p.seeds.GetSeed(ctx, key)
	if err == nil {
		return seed, true, nil
	}
	if !errors.Is(err, model.ErrSeedNotFound) {
		return "", false, fmt.Errorf("read server seed: %w", err)
	}

	seed, err = p.newSeed()
	if err != nil {
		return "", false, fmt.Errorf("generate server seed: %w", err)
	}
	return seed, false, nil
}

// Draw - генерирует цифры раунда с учётом принудительного исхода
func (p *provider) Draw(ctx context.Context, key model.RoundKey, clientSeed string, forced *model.ForcedOutcome) (model.Draw, error) {
	if !p.verifiable {
		return p.drawPlain(forced), nil
	}

	committed, wasCommitted, err := p.committedSeed(ctx, key)
	if err != nil {
		return model.Draw{}, err
	}

	if forced == nil {
		return p.verifiableDraw(key, clientSeed, committed, wasCommitted), nil
	}

	if p.construct {
		draw := p.constructed(*forced)
		draw.Fairness.ClientSeed = clientSeed
		draw.Fairness.Commitment = Commitment(committed)
		return draw, nil
	}

	// Перебор сидов: первым пробуется опубликованный, тогда раунд остаётся доказуемым
	seed, fromCommit := committed, wasCommitted
	var draw model.Draw
	for attempt := 1; attempt <= max(p.maxAttempts, 1); attempt++ {
		draw = p.verifiableDraw(key, clientSeed, seed, fromCommit)
		draw.Attempts = attempt
		draw.Fairness.Strategy = env.StrategyRejection
		if p.maxAttempts > 0 && outcome.Satisfies(*forced, draw.Digits) {
			draw.ForcedSatisfied = true
			return draw, nil
		}

		seed, err = p.newSeed()
		if err != nil {
			return model.Draw{}, fmt.Errorf("generate server seed: %w", err)
		}
		fromCommit = false
	}

	// Попытки исчерпаны: остаётся последний свободный тираж
	return draw, nil
}

func (p *provider) verifiableDraw(key model.RoundKey, clientSeed, seed string, fromCommit bool) model.Draw {
	return model.Draw{
		Digits: DeriveDigits(seed, key.RoundID(), clientSeed),
		Fairness: model.Fairness{
			ServerSeed: seed,
			Commitment: Commitment(seed),
			ClientSeed: clientSeed,
			Provable:   fromCommit,
		},
		Attempts: 1,
	}
}

func (p *provider) drawPlain(forced *model.ForcedOutcome) model.Draw {
	if forced == nil {
		return model.Draw{Digits: p.freeDigits(), Attempts: 1}
	}
	if p.construct {
		return p.constructed(*forced)
	}

	var d model.Digits
	for attempt := 1; attempt <= max(p.maxAttempts, 1); attempt++ {
		d = p.freeDigits()
		if p.maxAttempts > 0 && outcome.Satisfies(*forced, d) {
			return model.Draw{
				Digits:          d,
				ForcedSatisfied: true,
				Attempts:        attempt,
				Fairness:        model.Fairness{Strategy: env.StrategyRejection},
			}
		}
	}
	return model.Draw{Digits: d, Attempts: max(p.maxAttempts, 1), Fairness: model.Fairness{Strategy: env.StrategyRejection}}
}

// constructed - фиксирует определяющую цифру, остальные случайны. Такой раунд недоказуем
func (p *provider) constructed(f model.ForcedOutcome) model.Draw {
	d := p.freeDigits()

	switch f.Kind {
	case model.ForcedSmall:
		d[model.DigitsCount-1] = p.digit() % 6
	case model.ForcedBig:
		d[model.DigitsCount-1] = 6 + p.digit()%4
	case model.ForcedEven:
		d[model.DigitsCount-1] = (p.digit() % 5) * 2
	case model.ForcedOdd:
		d[model.DigitsCount-1] = (p.digit()%5)*2 + 1
	case model.ForcedFirstDigit:
		d[0] = f.Digit
	}

	return model.Draw{
		Digits:          d,
		ForcedSatisfied: outcome.Satisfies(f, d),
		Attempts:        1,
		Fairness:        model.Fairness{Strategy: env.StrategyConstruct},
	}
}

func (p *provider) freeDigits() model.Digits {
	var d model.Digits
	for i := range d {
		d[i] = p.digit()
	}
	return d
}
