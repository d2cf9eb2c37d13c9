package seed_repo

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
	table         = "round_seeds"
	colRoomID     = "room_id"
	colEpoch      = "epoch"
	colServerSeed = "server_seed"
)

type repo struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewSeedRepository(db *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.SeedRepository {
	return &repo{
		db:     db,
		getter: getter,
	}
}

// SaveSeed - первая реплика, открывшая раунд, задаёт сид; остальные получают его же
func (r *repo) SaveSeed(ctx context.Context, key model.RoundKey, seed string) (string, error) {
	const op = "seed_repo.SaveSeed"

	// Пустое обновление нужно, чтобы RETURNING вернул уже записанный сид
	query := sq.Insert(table).
		Columns(colRoomID, colEpoch, colServerSeed).
		Values(key.RoomID, key.Epoch, seed).
		Suffix("ON CONFLICT (" + colRoomID + ", " + colEpoch + ") DO UPDATE SET " +
			colRoomID + " = EXCLUDED." + colRoomID + " RETURNING " + colServerSeed).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var stored string
	if err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&stored); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return stored, nil
}

func (r *repo) GetSeed(ctx context.Context, key model.RoundKey) (string, error) {
	const op = "seed_repo.GetSeed"

	query := sq.Select(colServerSeed).
		From(table).
		Where(sq.Eq{colRoomID: key.RoomID, colEpoch: key.Epoch}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var seed string
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).Scan(&seed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", model.ErrSeedNotFound
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return seed, nil
}

func (r *repo) DeleteSeed(ctx context.Context, key model.RoundKey) error {
	const op = "seed_repo.DeleteSeed"

	query := sq.Delete(table).
		Where(sq.Eq{colRoomID: key.RoomID, colEpoch: key.Epoch}).
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
