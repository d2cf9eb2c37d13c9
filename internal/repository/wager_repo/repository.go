package wager_repo

import (
	"context"
	"fmt"
	"lottery_backend/internal/model"
	"lottery_backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table        = "wagers"
	colID        = "id"
	colRoomID    = "room_id"
	colEpoch     = "epoch"
	colAccountID = "account_id"
	colKind      = "kind"
	colValue     = "value"
	colStake     = "stake"
	colCreatedAt = "created_at"
	colSettledAt = "settled_at"
)

type repo struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewWagerRepository(db *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.WagerRepository {
	return &repo{
		db:     db,
		getter: getter,
	}
}

func (r *repo) CreateWager(ctx context.Context, w *model.Wager) error {
	const op = "wager_repo.CreateWager"

	query := sq.Insert(table).
		Columns(colID, colRoomID, colEpoch, colAccountID, colKind, colValue, colStake, colCreatedAt).
		Values(w.ID, w.RoomID, w.Epoch, w.AccountID, string(w.Kind), w.Value, w.Stake, w.CreatedAt).
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

// Pending - ставки раунда, ещё не отмеченные как рассчитанные
func (r *repo) Pending(ctx context.Context, key model.RoundKey) ([]model.Wager, error) {
	const op = "wager_repo.Pending"

	query := sq.Select(colID, colRoomID, colEpoch, colAccountID, colKind, colValue, colStake, colCreatedAt).
		From(table).
		Where(sq.Eq{colRoomID: key.RoomID, colEpoch: key.Epoch, colSettledAt: nil}).
		OrderBy(colCreatedAt).
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

	var wagers []model.Wager
	for rows.Next() {
		var (
			w    model.Wager
			kind string
		)
		if err := rows.Scan(&w.ID, &w.RoomID, &w.Epoch, &w.AccountID, &kind, &w.Value, &w.Stake, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		w.Kind = model.WagerKind(kind)
		wagers = append(wagers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return wagers, nil
}

// MarkSettled - отмечает ставки рассчитанными. Если хотя бы одна уже отмечена или удалена,
// возвращает ErrWagerSettled, и транзакция вызывающего должна откатиться
func (r *repo) MarkSettled(ctx context.Context, ids []uuid.UUID) error {
	const op = "wager_repo.MarkSettled"

	if len(ids) == 0 {
		return nil
	}

	query := sq.Update(table).
		Set(colSettledAt, sq.Expr("now()")).
		Where(sq.Eq{colID: ids, colSettledAt: nil}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := r.getter.DefaultTrOrDB(ctx, r.db).Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return model.ErrWagerSettled
	}
	return nil
}

// ClearRound - удаляет из раунда только ставки из снимка расчёта.
// Ставки, записанные после снимка, остаются до следующего расчёта
func (r *repo) ClearRound(ctx context.Context, key model.RoundKey, ids []uuid.UUID) error {
	const op = "wager_repo.ClearRound"

	if len(ids) == 0 {
		return nil
	}

	query := sq.Delete(table).
		Where(sq.Eq{colRoomID: key.RoomID, colEpoch: key.Epoch, colID: ids}).
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

func (r *repo) PendingEpochs(ctx context.Context, roomID, before int64) ([]int64, error) {
	const op = "wager_repo.PendingEpochs"

	query := sq.Select(colEpoch).
		Distinct().
		From(table).
		Where(sq.Eq{colRoomID: roomID, colSettledAt: nil}).
		Where(sq.Lt{colEpoch: before}).
		OrderBy(colEpoch).
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

	var epochs []int64
	for rows.Next() {
		var epoch int64
		if err := rows.Scan(&epoch); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		epochs = append(epochs, epoch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return epochs, nil
}
