package clock

import (
	"context"
	"time"
)

// Clock - источник времени для планировщика и реестра ставок
type Clock interface {
	Now() time.Time
	// Sleep - ожидание с учётом отмены контекста
	Sleep(ctx context.Context, d time.Duration) error
}

type system struct{}

func New() Clock {
	return system{}
}

func (system) Now() time.Time {
	return time.Now()
}

func (system) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
