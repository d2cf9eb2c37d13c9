package memory

import (
	"context"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"
	"sync"
)

type SeedRepo struct {
	mtx   sync.Mutex
	seeds map[model.RoundKey]string
}

func NewSeedRepository() *SeedRepo {
	return &SeedRepo{seeds: make(map[model.RoundKey]string)}
}

var _ repository.SeedRepository = (*SeedRepo)(nil)

func (r *SeedRepo) SaveSeed(_ context.Context, key model.RoundKey, seed string) (string, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if stored, ok := r.seeds[key]; ok {
		return stored, nil
	}
	r.seeds[key] = seed
	return seed, nil
}

func (r *SeedRepo) GetSeed(_ context.Context, key model.RoundKey) (string, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	seed, ok := r.seeds[key]
	if !ok {
		return "", model.ErrSeedNotFound
	}
	return seed, nil
}

func (r *SeedRepo) DeleteSeed(_ context.Context, key model.RoundKey) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	delete(r.seeds, key)
	return nil
}
