package ledger

import (
	"context"
	"fmt"
	"lottery_backend/internal/model"

	"go.uber.org/zap"
)

const (
	defaultTopLimit = 50
	maxTopLimit     = 500
)

// Credit - ручное пополнение счёта оператором. Счёт создаётся при первом пополнении
func (s *serv) Credit(ctx context.Context, accountID, amount int64) (int64, error) {
	const op = "ledger.Credit"

	if amount <= 0 {
		return 0, model.ErrInvalidAmount
	}

	var balance int64
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.accountRepo.EnsureAccount(txCtx, accountID); err != nil {
			return err
		}
		var err error
		balance, err = s.accountRepo.Credit(txCtx, accountID, amount)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("account credited", zap.Int64("account_id", accountID), zap.Int64("amount", amount))
	return balance, nil
}

func (s *serv) Account(ctx context.Context, accountID int64) (*model.Account, error) {
	acc, err := s.accountRepo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("ledger.Account: %w", err)
	}
	return acc, nil
}

func (s *serv) Pot(ctx context.Context) (int64, error) {
	amount, err := s.potRepo.PotAmount(ctx)
	if err != nil {
		return 0, fmt.Errorf("ledger.Pot: %w", err)
	}
	return amount, nil
}

func (s *serv) TopBalances(ctx context.Context, limit int) ([]model.Account, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}

	accounts, err := s.accountRepo.TopBalances(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("ledger.TopBalances: %w", err)
	}
	return accounts, nil
}
