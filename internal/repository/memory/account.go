package memory

import (
	"context"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"
	"sort"
	"sync"
)

// AccountRepo - счета в памяти, все изменения под одним мьютексом
type AccountRepo struct {
	mtx      sync.RWMutex
	accounts map[int64]*model.Account
}

func NewAccountRepository() *AccountRepo {
	return &AccountRepo{accounts: make(map[int64]*model.Account)}
}

var _ repository.AccountRepository = (*AccountRepo)(nil)

func (r *AccountRepo) GetAccount(_ context.Context, id int64) (*model.Account, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	acc, ok := r.accounts[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	cp := *acc
	return &cp, nil
}

func (r *AccountRepo) EnsureAccount(_ context.Context, id int64) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.accounts[id]; !ok {
		r.accounts[id] = &model.Account{ID: id}
	}
	return nil
}

func (r *AccountRepo) Debit(ctx context.Context, id int64, amount int64) (int64, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return 0, model.ErrAccountNotFound
	}
	if acc.Balance < amount {
		return acc.Balance, model.ErrInsufficientBalance
	}
	acc.Balance -= amount
	acc.TotalBetVolume += amount
	onRollback(ctx, func() {
		r.mtx.Lock()
		acc.Balance += amount
		acc.TotalBetVolume -= amount
		r.mtx.Unlock()
	})
	return acc.Balance, nil
}

func (r *AccountRepo) Credit(ctx context.Context, id int64, amount int64) (int64, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return 0, model.ErrAccountNotFound
	}
	acc.Balance += amount
	onRollback(ctx, func() {
		r.mtx.Lock()
		acc.Balance -= amount
		r.mtx.Unlock()
	})
	return acc.Balance, nil
}

func (r *AccountRepo) RecordStreak(_ context.Context, id int64, won bool) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	acc, ok := r.accounts[id]
	if !ok {
		return model.ErrAccountNotFound
	}
	if !won {
		acc.CurrentStreak = 0
		return nil
	}
	acc.CurrentStreak++
	if acc.CurrentStreak > acc.BestStreak {
		acc.BestStreak = acc.CurrentStreak
	}
	return nil
}

func (r *AccountRepo) TopBalances(_ context.Context, limit int) ([]model.Account, error) {
	r.mtx.RLock()
	accounts := make([]model.Account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		accounts = append(accounts, *acc)
	}
	r.mtx.RUnlock()

	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Balance != accounts[j].Balance {
			return accounts[i].Balance > accounts[j].Balance
		}
		return accounts[i].ID < accounts[j].ID
	})
	if len(accounts) > limit {
		accounts = accounts[:limit]
	}
	return accounts, nil
}
