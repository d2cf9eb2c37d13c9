package ledger

import (
	"context"
	"fmt"
	"lottery_backend/internal/metrics"
	"lottery_backend/internal/model"
	"lottery_backend/internal/service/outcome"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PlaceWager - принимает ставку на ближайший раунд комнаты.
// Сумма списывается сразу, расчёт только начисляет выигрыш
func (s *serv) PlaceWager(ctx context.Context, req model.PlaceWager) (*model.Wager, error) {
	const op = "ledger.PlaceWager"

	if err := validateWager(req.Kind, req.Value); err != nil {
		return nil, err
	}
	if req.Stake < s.cfg.MinBet() {
		return nil, model.ErrBelowMinimumStake
	}

	active, err := s.rooms.IsActive(ctx, req.RoomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !active {
		return nil, model.ErrRoomInactive
	}

	now := s.clock.Now()
	epoch := model.EpochAt(now, s.cfg.RoundDuration()) + 1
	closesAt := model.BoundaryOf(epoch, s.cfg.RoundDuration())
	w := &model.Wager{
		ID:        uuid.New(),
		RoomID:    req.RoomID,
		Epoch:     epoch,
		AccountID: req.AccountID,
		Kind:      req.Kind,
		Value:     req.Value,
		Stake:     req.Stake,
		CreatedAt: now,
	}

	// Списание и запись ставки в одной транзакции. Если граница раунда прошла,
	// пока транзакция шла, ставка откатывается
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.accountRepo.Debit(txCtx, req.AccountID, req.Stake); err != nil {
			return err
		}
		if err := s.wagerRepo.CreateWager(txCtx, w); err != nil {
			return err
		}
		if !s.clock.Now().Before(closesAt) {
			return model.ErrRoundClosed
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	metrics.WagersPlaced.WithLabelValues(string(w.Kind)).Inc()
	s.log.Debug("wager placed",
		zap.String("wager_id", w.ID.String()),
		zap.String("round_id", w.Key().RoundID()),
		zap.Int64("account_id", w.AccountID),
		zap.String("kind", string(w.Kind)),
		zap.String("value", w.Value),
		zap.Int64("stake", w.Stake),
	)

	return w, nil
}

func validateWager(kind model.WagerKind, value string) error {
	switch kind {
	case model.WagerSize:
		if model.Size(value) == model.SizeSmall || model.Size(value) == model.SizeBig {
			return nil
		}
	case model.WagerParity:
		if model.Parity(value) == model.ParityEven || model.Parity(value) == model.ParityOdd {
			return nil
		}
	case model.WagerNumber:
		if outcome.ValidNumber(value) {
			return nil
		}
		return model.ErrInvalidValueLength
	}
	return model.ErrInvalidWager
}
