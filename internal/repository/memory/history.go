package memory

import (
	"context"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"
	"sync"
)

type HistoryRepo struct {
	mtx     sync.RWMutex
	results map[model.RoundKey]model.RoundResult
	// order - ключи комнаты в порядке записи
	order map[int64][]model.RoundKey
}

func NewHistoryRepository() *HistoryRepo {
	return &HistoryRepo{
		results: make(map[model.RoundKey]model.RoundResult),
		order:   make(map[int64][]model.RoundKey),
	}
}

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

func (r *HistoryRepo) SaveResult(_ context.Context, res *model.RoundResult) (bool, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if _, ok := r.results[res.Key]; ok {
		return false, nil
	}
	r.results[res.Key] = *res
	r.order[res.Key.RoomID] = append(r.order[res.Key.RoomID], res.Key)
	return true, nil
}

func (r *HistoryRepo) GetResult(_ context.Context, key model.RoundKey) (*model.RoundResult, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	res, ok := r.results[key]
	if !ok {
		return nil, model.ErrRoundNotFound
	}
	return &res, nil
}

// Recent - последние итоги комнаты, новые первыми
func (r *HistoryRepo) Recent(_ context.Context, roomID int64, limit int) ([]model.RoundResult, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	keys := r.order[roomID]
	res := make([]model.RoundResult, 0, min(limit, len(keys)))
	for i := len(keys) - 1; i >= 0 && len(res) < limit; i-- {
		res = append(res, r.results[keys[i]])
	}
	return res, nil
}
