package pot_repo

import (
	"context"
	"errors"
	"fmt"
	"lottery_backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table     = "pot"
	colID     = "id"
	colAmount = "amount"

	// potID - банк один на весь процесс
	potID = 1
)

type repo struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewPotRepository(db *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.PotRepository {
	return &repo{
		db:     db,
		getter: getter,
	}
}

// AddToPot - атомарное приращение банка
func (r *repo) AddToPot(ctx context.Context, amount int64) error {
	const op = "pot_repo.AddToPot"

	if amount == 0 {
		return nil
	}

	query := sq.Insert(table).
		Columns(colID, colAmount).
		Values(potID, amount).
		Suffix("ON CONFLICT (" + colID + ") DO UPDATE SET " + colAmount + " = " + table + "." + colAmount + " + EXCLUDED." + colAmount).
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

func (r *repo) PotAmount(ctx context.Context) (int64, error) {
	const op = "pot_repo.PotAmount"

	query := sq.Select(colAmount).
		From(table).
		Where(sq.Eq{colID: potID}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var amount int64
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return amount, nil
}
