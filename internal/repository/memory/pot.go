package memory

import (
	"context"
	"lottery_backend/internal/repository"
	"sync/atomic"
)

type PotRepo struct {
	amount atomic.Int64
}

func NewPotRepository() *PotRepo {
	return &PotRepo{}
}

var _ repository.PotRepository = (*PotRepo)(nil)

func (r *PotRepo) AddToPot(ctx context.Context, amount int64) error {
	r.amount.Add(amount)
	onRollback(ctx, func() { r.amount.Add(-amount) })
	return nil
}

func (r *PotRepo) PotAmount(_ context.Context) (int64, error) {
	return r.amount.Load(), nil
}
