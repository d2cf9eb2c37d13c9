package scheduler

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"lottery_backend/internal/clock"
	"lottery_backend/internal/config"
	"lottery_backend/internal/event"
	"lottery_backend/internal/metrics"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"
	"lottery_backend/internal/service"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Scheduler - цикл раундов: открытие, отсчёт, блокировка и расчёт на границе
type Scheduler struct {
	rooms      service.RoomService
	settlement service.SettlementService
	locker     repository.RoundLocker
	publisher  service.Publisher
	cfg        config.RoundConfig
	clock      clock.Clock
	log        *zap.Logger

	fanout sync.WaitGroup
}

func New(
	rooms service.RoomService,
	settlement service.SettlementService,
	locker repository.RoundLocker,
	publisher service.Publisher,
	cfg config.RoundConfig,
	clk clock.Clock,
	log *zap.Logger,
) *Scheduler {
	return &Scheduler{
		rooms:      rooms,
		settlement: settlement,
		locker:     locker,
		publisher:  publisher,
		cfg:        cfg,
		clock:      clk,
		log:        log.Named("scheduler"),
	}
}

// NextBoundary - ближайшая граница раунда строго после now
func NextBoundary(now time.Time, round time.Duration) time.Time {
	epoch := model.EpochAt(now, round)
	return time.Unix(0, 0).Add(time.Duration(epoch+1) * round)
}

func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("round scheduler started", zap.Duration("round", s.cfg.RoundDuration()))

	for ctx.Err() == nil {
		err := s.iterate(ctx)
		if err == nil || ctx.Err() != nil {
			continue
		}

		metrics.SchedulerErrors.Inc()
		s.log.Error("scheduler iteration failed", zap.Error(err))
		_ = s.clock.Sleep(ctx, s.cfg.IterationPause())
	}

	s.fanout.Wait()
	s.log.Info("round scheduler stopped")
}

// iterate - один раунд: от текущего момента до расчёта на ближайшей границе
func (s *Scheduler) iterate(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	round := s.cfg.RoundDuration()
	boundary := NextBoundary(s.clock.Now(), round)
	epoch := model.EpochAt(boundary, round)

	rooms, err := s.rooms.ActiveRooms(ctx)
	if err != nil {
		return fmt.Errorf("active rooms: %w", err)
	}

	s.open(ctx, rooms, epoch)

	for _, offset := range s.marks() {
		at := boundary.Add(-offset)
		if s.clock.Now().After(at) && offset != s.cfg.LockOffset() {
			continue
		}
		if err := s.clock.Sleep(ctx, at.Sub(s.clock.Now())); err != nil {
			return err
		}
		s.countdown(rooms, epoch, offset)
	}

	if err := s.clock.Sleep(ctx, boundary.Sub(s.clock.Now())); err != nil {
		return err
	}
	s.fanout.Wait()

	// Комнаты, включённые посреди раунда, тоже рассчитываются
	if current, err := s.rooms.ActiveRooms(ctx); err == nil {
		for _, id := range current {
			if !slices.Contains(rooms, id) {
				rooms = append(rooms, id)
			}
		}
	} else {
		s.log.Warn("failed to refresh active rooms", zap.Error(err))
	}

	return s.settle(ctx, rooms, epoch)
}

// marks - отметки отсчёта по убыванию, отметка блокировки всегда среди них
func (s *Scheduler) marks() []time.Duration {
	marks := slices.Clone(s.cfg.CountdownOffsets())
	if lock := s.cfg.LockOffset(); lock > 0 && !slices.Contains(marks, lock) {
		marks = append(marks, lock)
	}
	slices.SortFunc(marks, func(a, b time.Duration) int { return cmp.Compare(b, a) })
	return marks
}

func (s *Scheduler) open(ctx context.Context, rooms []int64, epoch int64) {
	for _, id := range rooms {
		key := model.RoundKey{RoomID: id, Epoch: epoch}
		commitment, err := s.settlement.OpenRound(ctx, key)
		if err != nil {
			s.log.Warn("failed to open round", zap.String("round_id", key.RoundID()), zap.Error(err))
			continue
		}
		s.publisher.Publish(event.EventRoundOpened, event.RoundOpened{
			RoomID:     id,
			Epoch:      epoch,
			RoundID:    key.RoundID(),
			Commitment: commitment,
		})
	}
}

// countdown - рассылка отметки не задерживает цикл
func (s *Scheduler) countdown(rooms []int64, epoch int64, offset time.Duration) {
	lock := offset == s.cfg.LockOffset()

	s.fanout.Add(1)
	go func() {
		defer s.fanout.Done()
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("countdown fan-out panicked", zap.Any("panic", r))
			}
		}()

		for _, id := range rooms {
			s.publisher.Publish(event.EventCountdownTick, event.CountdownTick{
				RoomID:           id,
				Epoch:            epoch,
				SecondsRemaining: int(offset / time.Second),
			})
			if lock {
				s.publisher.Publish(event.EventLockRequested, event.LockRequested{RoomID: id, Epoch: epoch})
			}
		}
	}()
}

// settle - все комнаты параллельно, ожидание всех
func (s *Scheduler) settle(ctx context.Context, rooms []int64, epoch int64) error {
	var g errgroup.Group
	for _, id := range rooms {
		g.Go(func() error {
			return s.settleRoom(ctx, id, epoch)
		})
	}
	return g.Wait()
}

// settleRoom - сначала просроченные раунды по возрастанию, затем текущий
func (s *Scheduler) settleRoom(ctx context.Context, roomID, epoch int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("room %d: panic: %v", roomID, r)
		}
		s.publisher.Publish(event.EventUnlockRequested, event.UnlockRequested{RoomID: roomID, Epoch: epoch})
	}()

	epochs, err := s.settlement.PendingRounds(ctx, roomID, epoch)
	if err != nil {
		s.log.Warn("failed to list overdue rounds", zap.Int64("room_id", roomID), zap.Error(err))
		epochs = nil
	}
	if len(epochs) > 0 {
		s.log.Warn("settling overdue rounds", zap.Int64("room_id", roomID), zap.Int64s("epochs", epochs))
	}

	var errs []error
	for _, e := range append(epochs, epoch) {
		if err := s.settleRound(ctx, model.RoundKey{RoomID: roomID, Epoch: e}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) settleRound(ctx context.Context, key model.RoundKey) error {
	claimed, err := s.locker.Acquire(ctx, key)
	if err != nil {
		return fmt.Errorf("claim %s: %w", key, err)
	}
	if !claimed {
		s.log.Debug("round claimed by another instance", zap.String("round_id", key.RoundID()))
		return nil
	}

	// Начатый расчёт доводится до конца даже при остановке процесса
	settleCtx := context.WithoutCancel(ctx)
	if _, err := s.settlement.SettleRound(settleCtx, key); err != nil {
		if relErr := s.locker.Release(settleCtx, key); relErr != nil {
			s.log.Warn("failed to release round claim", zap.String("round_id", key.RoundID()), zap.Error(relErr))
		}
		return fmt.Errorf("settle %s: %w", key, err)
	}
	return nil
}
