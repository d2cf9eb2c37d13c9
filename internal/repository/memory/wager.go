package memory

import (
	"context"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type wagerRecord struct {
	wager   model.Wager
	settled bool
}

type WagerRepo struct {
	mtx    sync.RWMutex
	rounds map[model.RoundKey][]*wagerRecord
	byID   map[uuid.UUID]*wagerRecord
}

func NewWagerRepository() *WagerRepo {
	return &WagerRepo{
		rounds: make(map[model.RoundKey][]*wagerRecord),
		byID:   make(map[uuid.UUID]*wagerRecord),
	}
}

var _ repository.WagerRepository = (*WagerRepo)(nil)

func (r *WagerRepo) CreateWager(ctx context.Context, w *model.Wager) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	rec := &wagerRecord{wager: *w}
	r.rounds[w.Key()] = append(r.rounds[w.Key()], rec)
	r.byID[w.ID] = rec
	onRollback(ctx, func() {
		r.mtx.Lock()
		r.remove(w.Key(), map[uuid.UUID]bool{w.ID: true})
		r.mtx.Unlock()
	})
	return nil
}

func (r *WagerRepo) Pending(_ context.Context, key model.RoundKey) ([]model.Wager, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	var res []model.Wager
	for _, rec := range r.rounds[key] {
		if !rec.settled {
			res = append(res, rec.wager)
		}
	}
	return res, nil
}

// MarkSettled - отмечает все ставки или ни одной, если хотя бы одна уже рассчитана
func (r *WagerRepo) MarkSettled(ctx context.Context, ids []uuid.UUID) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	for _, id := range ids {
		if rec, ok := r.byID[id]; !ok || rec.settled {
			return model.ErrWagerSettled
		}
	}
	for _, id := range ids {
		r.byID[id].settled = true
	}

	onRollback(ctx, func() {
		r.mtx.Lock()
		defer r.mtx.Unlock()
		for _, id := range ids {
			if rec, ok := r.byID[id]; ok {
				rec.settled = false
			}
		}
	})
	return nil
}

// ClearRound - удаляет из раунда только переданные ставки
func (r *WagerRepo) ClearRound(_ context.Context, key model.RoundKey, ids []uuid.UUID) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	r.remove(key, drop)
	return nil
}

func (r *WagerRepo) remove(key model.RoundKey, drop map[uuid.UUID]bool) {
	kept := r.rounds[key][:0]
	for _, rec := range r.rounds[key] {
		if drop[rec.wager.ID] {
			delete(r.byID, rec.wager.ID)
			continue
		}
		kept = append(kept, rec)
	}
	if len(kept) == 0 {
		delete(r.rounds, key)
		return
	}
	r.rounds[key] = kept
}

func (r *WagerRepo) PendingEpochs(_ context.Context, roomID, before int64) ([]int64, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	var epochs []int64
	for key, recs := range r.rounds {
		if key.RoomID != roomID || key.Epoch >= before {
			continue
		}
		for _, rec := range recs {
			if !rec.settled {
				epochs = append(epochs, key.Epoch)
				break
			}
		}
	}
	sort.Slice(epochs, func(i, j int) bool { return epochs[i] < epochs[j] })
	return epochs, nil
}
