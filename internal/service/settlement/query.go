package settlement

import (
	"context"
	"fmt"
	"lottery_backend/internal/model"
	"lottery_backend/internal/service/fairness"
)

// OpenRound - коммит сида до начала раунда
func (s *serv) OpenRound(ctx context.Context, key model.RoundKey) (string, error) {
	commitment, err := s.fairness.Commit(ctx, key)
	if err != nil {
		return "", fmt.Errorf("settlement.OpenRound: %w", err)
	}
	return commitment, nil
}

// PendingRounds - просроченные раунды комнаты, в которых остались ставки
func (s *serv) PendingRounds(ctx context.Context, roomID, beforeEpoch int64) ([]int64, error) {
	epochs, err := s.wagerRepo.PendingEpochs(ctx, roomID, beforeEpoch)
	if err != nil {
		return nil, fmt.Errorf("settlement.PendingRounds: %w", err)
	}
	return epochs, nil
}

func (s *serv) Result(ctx context.Context, key model.RoundKey) (*model.RoundResult, error) {
	res, err := s.historyRepo.GetResult(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("settlement.Result: %w", err)
	}
	return res, nil
}

func (s *serv) History(ctx context.Context, roomID int64, limit int) ([]model.RoundResult, error) {
	if limit <= 0 || limit > s.cfg.HistoryLimit() {
		limit = s.cfg.HistoryLimit()
	}
	res, err := s.historyRepo.Recent(ctx, roomID, limit)
	if err != nil {
		return nil, fmt.Errorf("settlement.History: %w", err)
	}
	return res, nil
}

func (s *serv) VerifyResult(ctx context.Context, key model.RoundKey) (*model.RoundResult, bool, error) {
	res, err := s.Result(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if res.Fairness.ServerSeed == "" {
		return res, false, nil
	}
	ok := fairness.Verify(res.Fairness.ServerSeed, key.RoundID(), res.Fairness.ClientSeed, res.Digits)
	return res, ok, nil
}
