package settlement

import (
	"context"
	"errors"
	"fmt"
	"lottery_backend/internal/event"
	"lottery_backend/internal/metrics"
	"lottery_backend/internal/model"
	"lottery_backend/internal/service/outcome"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// SettleRound - расчёт одного раунда одной комнаты.
// Итог записывается до выплат; повторный вызов не находит нерассчитанных ставок и ничего не начисляет
func (s *serv) SettleRound(ctx context.Context, key model.RoundKey) (*model.Settlement, error) {
	const op = "settlement.SettleRound"

	started := time.Now()
	log := s.log.With(zap.String("round_id", key.RoundID()))

	wagers, err := s.wagerRepo.Pending(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%s: pending wagers: %w", op, err)
	}

	result, err := s.resolve(ctx, key, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	st := &model.Settlement{Result: *result}
	settled := s.payout(ctx, log, st, wagers)
	s.updateStreaks(ctx, log, st.Outcomes)

	if err := s.wagerRepo.ClearRound(ctx, key, settled); err != nil {
		metrics.ClearFailures.Inc()
		log.Error("round not cleared cleanly", zap.Error(err))
	}

	history, err := s.historyRepo.Recent(ctx, key.RoomID, s.cfg.HistoryLimit())
	if err != nil {
		log.Warn("failed to load history block", zap.Error(err))
	} else {
		st.History = history
	}

	metrics.RoundsSettled.WithLabelValues(
		string(result.Size), string(result.Parity), strconv.FormatBool(result.Forced != nil),
	).Inc()
	metrics.SettlementDuration.Observe(time.Since(started).Seconds())

	s.publisher.Publish(event.EventRoundSettled, event.RoundSettled{Settlement: st})

	log.Info("round settled",
		zap.String("digits", result.Digits.String()),
		zap.String("size", string(result.Size)),
		zap.String("parity", string(result.Parity)),
		zap.Int("wagers", len(wagers)),
		zap.Int64("losers_total", st.LosersTotal),
		zap.Int64("paid_total", st.PaidTotal),
		zap.Int64("house_total", st.HouseTotal),
		zap.Int("failed", st.Failed),
	)

	return st, nil
}

// resolve - итог раунда: записанный ранее или новый тираж
func (s *serv) resolve(ctx context.Context, key model.RoundKey, log *zap.Logger) (*model.RoundResult, error) {
	existing, err := s.historyRepo.GetResult(ctx, key)
	if err == nil {
		log.Warn("round result already recorded, reusing it")
		return existing, nil
	}
	if !errors.Is(err, model.ErrRoundNotFound) {
		return nil, fmt.Errorf("read result: %w", err)
	}

	// Директива снимается в любом случае, даже если тираж её не выполнит
	forced, err := s.roomRepo.TakeForced(ctx, key.RoomID)
	if err != nil && !errors.Is(err, model.ErrRoomNotFound) {
		return nil, fmt.Errorf("take forced outcome: %w", err)
	}

	draw, err := s.fairness.Draw(ctx, key, s.cfg.Fairness().ClientSeed(), forced)
	if err != nil {
		return nil, fmt.Errorf("draw: %w", err)
	}

	if forced != nil {
		log.Warn("forced outcome applied",
			zap.String("outcome", forced.String()),
			zap.Bool("satisfied", draw.ForcedSatisfied),
			zap.Int("attempts", draw.Attempts),
			zap.String("strategy", draw.Fairness.Strategy),
		)
	}

	size, parity := outcome.Classify(draw.Digits)
	res := &model.RoundResult{
		Key:             key,
		Digits:          draw.Digits,
		Size:            size,
		Parity:          parity,
		Forced:          forced,
		ForcedSatisfied: draw.ForcedSatisfied,
		Fairness:        draw.Fairness,
		SettledAt:       s.clock.Now().UTC(),
	}

	saved, err := s.historyRepo.SaveResult(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}

	// Сид уже раскрыт в истории раунда
	if err := s.fairness.Release(ctx, key); err != nil {
		log.Warn("failed to release round seed", zap.Error(err))
	}

	if !saved {
		// Параллельный расчёт успел записать свой итог
		log.Warn("round result written concurrently, using stored one")
		return s.historyRepo.GetResult(ctx, key)
	}

	return res, nil
}
