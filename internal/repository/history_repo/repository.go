package history_repo

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
	table              = "round_history"
	colRoomID          = "room_id"
	colEpoch           = "epoch"
	colDigits          = "digits"
	colSize            = "size"
	colParity          = "parity"
	colForced          = "forced"
	colForcedSatisfied = "forced_satisfied"
	colServerSeed      = "server_seed"
	colCommitment      = "commitment"
	colClientSeed      = "client_seed"
	colProvable        = "provable"
	colStrategy        = "strategy"
	colSettledAt       = "settled_at"
)

var columns = []string{
	colRoomID, colEpoch, colDigits, colSize, colParity, colForced, colForcedSatisfied,
	colServerSeed, colCommitment, colClientSeed, colProvable, colStrategy, colSettledAt,
}

type repo struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewHistoryRepository(db *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.HistoryRepository {
	return &repo{
		db:     db,
		getter: getter,
	}
}

// SaveResult - запись итога раунда. Повторная запись того же ключа игнорируется
func (r *repo) SaveResult(ctx context.Context, res *model.RoundResult) (bool, error) {
	const op = "history_repo.SaveResult"

	var forced *string
	if res.Forced != nil {
		s := res.Forced.String()
		forced = &s
	}

	query := sq.Insert(table).
		Columns(columns...).
		Values(
			res.Key.RoomID, res.Key.Epoch, res.Digits.String(), string(res.Size), string(res.Parity),
			forced, res.ForcedSatisfied,
			res.Fairness.ServerSeed, res.Fairness.Commitment, res.Fairness.ClientSeed,
			res.Fairness.Provable, res.Fairness.Strategy, res.SettledAt,
		).
		Suffix("ON CONFLICT (" + colRoomID + ", " + colEpoch + ") DO NOTHING").
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.getter.DefaultTrOrDB(ctx, r.db).Exec(ctx, sqlStr, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repo) GetResult(ctx context.Context, key model.RoundKey) (*model.RoundResult, error) {
	const op = "history_repo.GetResult"

	query := sq.Select(columns...).
		From(table).
		Where(sq.Eq{colRoomID: key.RoomID, colEpoch: key.Epoch}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	res, err := scanResult(r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRoundNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// Recent - блок истории комнаты, новые раунды первыми
func (r *repo) Recent(ctx context.Context, roomID int64, limit int) ([]model.RoundResult, error) {
	const op = "history_repo.Recent"

	query := sq.Select(columns...).
		From(table).
		Where(sq.Eq{colRoomID: roomID}).
		OrderBy(colEpoch + " DESC").
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

	var results []model.RoundResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		results = append(results, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return results, nil
}

func scanResult(row pgx.Row) (*model.RoundResult, error) {
	var (
		res          model.RoundResult
		digits       string
		size, parity string
		forced       *string
	)

	err := row.Scan(
		&res.Key.RoomID, &res.Key.Epoch, &digits, &size, &parity, &forced, &res.ForcedSatisfied,
		&res.Fairness.ServerSeed, &res.Fairness.Commitment, &res.Fairness.ClientSeed,
		&res.Fairness.Provable, &res.Fairness.Strategy, &res.SettledAt,
	)
	if err != nil {
		return nil, err
	}

	res.Digits, err = model.ParseDigits(digits)
	if err != nil {
		return nil, err
	}
	res.Size = model.Size(size)
	res.Parity = model.Parity(parity)

	if forced != nil {
		f, err := model.ParseForcedOutcome(*forced)
		if err != nil {
			return nil, err
		}
		res.Forced = &f
	}

	return &res, nil
}
