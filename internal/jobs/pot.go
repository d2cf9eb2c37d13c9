package jobs

import (
	"context"
	"lottery_backend/internal/metrics"
	"time"

	"go.uber.org/zap"
)

type potReader interface {
	Pot(ctx context.Context) (int64, error)
}

// PotSampler - периодически выгружает размер банка в метрику
type PotSampler struct {
	pot      potReader
	interval time.Duration
	log      *zap.Logger
}

func NewPotSampler(pot potReader, interval time.Duration, log *zap.Logger) *PotSampler {
	return &PotSampler{pot: pot, interval: interval, log: log}
}

func (p *PotSampler) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.sample(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *PotSampler) sample(ctx context.Context) {
	amount, err := p.pot.Pot(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.log.Warn("failed to sample pot", zap.Error(err))
		}
		return
	}
	metrics.PotAmount.Set(float64(amount))
}
