package memory

import (
	"context"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"
	"sync"
)

// RoundLocker - захват раундов в пределах одного процесса
type RoundLocker struct {
	mtx  sync.Mutex
	held map[model.RoundKey]struct{}
}

func NewRoundLocker() *RoundLocker {
	return &RoundLocker{held: make(map[model.RoundKey]struct{})}
}

var _ repository.RoundLocker = (*RoundLocker)(nil)

func (l *RoundLocker) Acquire(_ context.Context, key model.RoundKey) (bool, error) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	if _, ok := l.held[key]; ok {
		return false, nil
	}
	// Захваты старых эпох комнаты больше не понадобятся
	for k := range l.held {
		if k.RoomID == key.RoomID && k.Epoch < key.Epoch-1 {
			delete(l.held, k)
		}
	}
	l.held[key] = struct{}{}
	return true, nil
}

func (l *RoundLocker) Release(_ context.Context, key model.RoundKey) error {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	delete(l.held, key)
	return nil
}
