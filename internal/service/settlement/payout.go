package settlement

import (
	"context"
	"errors"
	"lottery_backend/internal/metrics"
	"lottery_backend/internal/model"
	"lottery_backend/internal/service/outcome"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// payout - проигравшие ставки уходят в банк одним обновлением,
// победителю начисляется полный выигрыш, доля дома от ставки добавляется в банк.
// Каждая ставка сначала отмечается рассчитанной, поэтому параллельный расчёт того же раунда
// не начислит её второй раз. Возвращает id ставок, которые можно удалить из раунда
func (s *serv) payout(ctx context.Context, log *zap.Logger, st *model.Settlement, wagers []model.Wager) []uuid.UUID {
	res := st.Result
	outcomes := make([]model.BettorOutcome, len(wagers))
	handled := make([]bool, len(wagers))
	var done []uuid.UUID

	var (
		losers      []uuid.UUID
		losersIdx   []int
		losersTotal int64
	)
	for i, w := range wagers {
		won, mult := outcome.Matches(w, res.Digits, res.Size, res.Parity, s.payouts)
		outcomes[i] = model.BettorOutcome{
			WagerID:   w.ID.String(),
			AccountID: w.AccountID,
			Kind:      w.Kind,
			Value:     w.Value,
			Stake:     w.Stake,
			Won:       won,
		}
		if won {
			outcomes[i].Payout = outcome.Amount(w.Stake, mult)
			continue
		}
		losersTotal += w.Stake
		losers = append(losers, w.ID)
		losersIdx = append(losersIdx, i)
	}

	if len(losers) > 0 {
		err := s.moveToPot(ctx, losers, losersTotal)
		switch {
		case err == nil:
			st.LosersTotal = losersTotal
			done = append(done, losers...)
			for _, i := range losersIdx {
				handled[i] = true
			}
			metrics.WagersSettled.WithLabelValues("lost").Add(float64(len(losers)))
		case errors.Is(err, model.ErrWagerSettled):
			// Часть ставок рассчитал другой проход, остальные переносятся по одной
			log.Warn("losing wagers partly settled by another run", zap.Int("wagers", len(losers)))
			for _, i := range losersIdx {
				w := wagers[i]
				err := s.moveToPot(ctx, []uuid.UUID{w.ID}, w.Stake)
				switch {
				case err == nil:
					st.LosersTotal += w.Stake
					done = append(done, w.ID)
					handled[i] = true
					metrics.WagersSettled.WithLabelValues("lost").Inc()
				case errors.Is(err, model.ErrWagerSettled):
					done = append(done, w.ID)
				default:
					metrics.PayoutFailures.Inc()
					log.Error("CRITICAL: failed to move losing stake to pot, wager left pending",
						zap.String("wager_id", w.ID.String()),
						zap.Int64("amount", w.Stake),
						zap.Error(err),
					)
				}
			}
		default:
			// Ставки остаются нерассчитанными, их подберёт следующий проход по просроченным раундам
			metrics.PayoutFailures.Inc()
			log.Error("CRITICAL: failed to move losing stakes to pot, wagers left pending",
				zap.Int64("amount", losersTotal),
				zap.Int("wagers", len(losers)),
				zap.Error(err),
			)
		}
	}

	for i, w := range wagers {
		o := &outcomes[i]
		if !o.Won {
			continue
		}

		house := outcome.Amount(w.Stake, s.payouts.House)
		err := s.withRetry(ctx, func(ctx context.Context) error {
			return s.txManager.Do(ctx, func(txCtx context.Context) error {
				if err := s.wagerRepo.MarkSettled(txCtx, []uuid.UUID{w.ID}); err != nil {
					return err
				}
				if _, err := s.accountRepo.Credit(txCtx, w.AccountID, o.Payout); err != nil {
					return err
				}
				return s.potRepo.AddToPot(txCtx, house)
			})
		})
		done = append(done, w.ID)

		if errors.Is(err, model.ErrWagerSettled) {
			log.Warn("winning wager already settled by another run", zap.String("wager_id", o.WagerID))
			continue
		}

		handled[i] = true
		if err != nil {
			st.Failed++
			metrics.PayoutFailures.Inc()
			metrics.WagersSettled.WithLabelValues("unpaid").Inc()
			log.Error("CRITICAL: payout failed, manual remediation required",
				zap.String("wager_id", o.WagerID),
				zap.Int64("account_id", w.AccountID),
				zap.Int64("payout", o.Payout),
				zap.Error(err),
			)
			continue
		}

		o.Paid = true
		st.PaidTotal += o.Payout
		st.HouseTotal += house
		metrics.WagersSettled.WithLabelValues("won").Inc()
	}

	for i := range outcomes {
		if handled[i] {
			st.Outcomes = append(st.Outcomes, outcomes[i])
		}
	}
	return done
}

// moveToPot - отметка проигравших ставок и пополнение банка в одной транзакции
func (s *serv) moveToPot(ctx context.Context, ids []uuid.UUID, amount int64) error {
	return s.withRetry(ctx, func(ctx context.Context) error {
		return s.txManager.Do(ctx, func(txCtx context.Context) error {
			if err := s.wagerRepo.MarkSettled(txCtx, ids); err != nil {
				return err
			}
			return s.potRepo.AddToPot(txCtx, amount)
		})
	})
}

// withRetry - ограниченное число попыток с линейной паузой.
// Отсутствующий счёт не повторяется
func (s *serv) withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := max(s.cfg.PayoutAttempts(), 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if permanent(err) || attempt == attempts {
			break
		}

		s.log.Warn("storage operation failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		if sleepErr := s.clock.Sleep(ctx, s.cfg.PayoutBackoff()*time.Duration(attempt)); sleepErr != nil {
			break
		}
	}
	return err
}

func permanent(err error) bool {
	return errors.Is(err, model.ErrAccountNotFound) ||
		errors.Is(err, model.ErrWagerSettled) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// updateStreaks - серия растёт, если игроку выплачен хотя бы один выигрыш в раунде, иначе обнуляется
func (s *serv) updateStreaks(ctx context.Context, log *zap.Logger, outcomes []model.BettorOutcome) {
	var order []int64
	won := make(map[int64]bool)
	for _, o := range outcomes {
		if _, seen := won[o.AccountID]; !seen {
			order = append(order, o.AccountID)
			won[o.AccountID] = false
		}
		if o.Paid {
			won[o.AccountID] = true
		}
	}

	for _, id := range order {
		if err := s.accountRepo.RecordStreak(ctx, id, won[id]); err != nil {
			log.Warn("failed to update streak", zap.Int64("account_id", id), zap.Error(err))
		}
	}
}
