package account_repo

import (
	"context"
	"errors"
	"fmt"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table            = "accounts"
	colID            = "id"
	colBalance       = "balance"
	colBetVolume     = "total_bet_volume"
	colCurrentStreak = "current_streak"
	colBestStreak    = "best_streak"
)

type repo struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewAccountRepository(db *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.AccountRepository {
	return &repo{
		db:     db,
		getter: getter,
	}
}

// GetAccount - баланс, оборот и серии игрока
func (r *repo) GetAccount(ctx context.Context, id int64) (*model.Account, error) {
	const op = "account_repo.GetAccount"

	query := sq.Select(colID, colBalance, colBetVolume, colCurrentStreak, colBestStreak).
		From(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var acc model.Account
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).
		Scan(&acc.ID, &acc.Balance, &acc.TotalBetVolume, &acc.CurrentStreak, &acc.BestStreak)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAccountNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &acc, nil
}

// EnsureAccount - создаёт счёт, если его ещё нет
func (r *repo) EnsureAccount(ctx context.Context, id int64) error {
	const op = "account_repo.EnsureAccount"

	query := sq.Insert(table).
		Columns(colID, colBalance).
		Values(id, 0).
		Suffix("ON CONFLICT (" + colID + ") DO NOTHING").
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err = r.getter.DefaultTrOrDB(ctx, r.db).Exec(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Debit - списание одним UPDATE с проверкой баланса, без чтения-изменения-записи
func (r *repo) Debit(ctx context.Context, id int64, amount int64) (int64, error) {
	const op = "account_repo.Debit"

	query := sq.Update(table).
		Set(colBalance, sq.Expr(colBalance+" - ?", amount)).
		Set(colBetVolume, sq.Expr(colBetVolume+" + ?", amount)).
		Where(sq.Eq{colID: id}).
		Where(sq.GtOrEq{colBalance: amount}).
		Suffix("RETURNING " + colBalance).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var balance int64
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	// Строка не обновилась: либо счёта нет, либо не хватает средств
	acc, err := r.GetAccount(ctx, id)
	if err != nil {
		return 0, err
	}
	return acc.Balance, model.ErrInsufficientBalance
}

// Credit - атомарное начисление
func (r *repo) Credit(ctx context.Context, id int64, amount int64) (int64, error) {
	const op = "account_repo.Credit"

	query := sq.Update(table).
		Set(colBalance, sq.Expr(colBalance+" + ?", amount)).
		Where(sq.Eq{colID: id}).
		Suffix("RETURNING " + colBalance).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var balance int64
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrAccountNotFound
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return balance, nil
}

func (r *repo) RecordStreak(ctx context.Context, id int64, won bool) error {
	const op = "account_repo.RecordStreak"

	query := sq.Update(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	if won {
		// В правой части SET видны старые значения строки
		query = query.
			Set(colCurrentStreak, sq.Expr(colCurrentStreak+" + 1")).
			Set(colBestStreak, sq.Expr("GREATEST("+colBestStreak+", "+colCurrentStreak+" + 1)"))
	} else {
		query = query.Set(colCurrentStreak, 0)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.RowsAffected() == 0 {
		return model.ErrAccountNotFound
	}
	return nil
}

// TopBalances - счета с наибольшим балансом
func (r *repo) TopBalances(ctx context.Context, limit int) ([]model.Account, error) {
	const op = "account_repo.TopBalances"

	query := sq.Select(colID, colBalance, colBetVolume, colCurrentStreak, colBestStreak).
		From(table).
		OrderBy(colBalance+" DESC", colID).
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.db).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var acc model.Account
		if err := rows.Scan(&acc.ID, &acc.Balance, &acc.TotalBetVolume, &acc.CurrentStreak, &acc.BestStreak); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return accounts, nil
}
