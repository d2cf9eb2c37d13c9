package room_repo

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
	table        = "rooms"
	colID        = "id"
	colTitle     = "title"
	colActive    = "active"
	colForced    = "forced_outcome"
	colUpdatedAt = "updated_at"
)

// takeForcedSQL - чтение и сброс директивы одним оператором, под блокировкой строки
const takeForcedSQL = `UPDATE rooms r SET forced_outcome = NULL, updated_at = now()
FROM (SELECT id, forced_outcome FROM rooms WHERE id = $1 FOR UPDATE) old
WHERE r.id = old.id
RETURNING old.forced_outcome`

type repo struct {
	db     *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewRoomRepository(db *pgxpool.Pool, getter *trmpgx.CtxGetter) repository.RoomRepository {
	return &repo{
		db:     db,
		getter: getter,
	}
}

func (r *repo) GetRoom(ctx context.Context, id int64) (*model.Room, error) {
	const op = "room_repo.GetRoom"

	query := sq.Select(colID, colTitle, colActive, colForced, colUpdatedAt).
		From(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		room   model.Room
		forced *string
	)
	err = r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, sqlStr, args...).
		Scan(&room.ID, &room.Title, &room.Active, &forced, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRoomNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	room.Forced, err = parseForced(forced)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &room, nil
}

// SetActive - включает или выключает комнату, создавая её при первом обращении
func (r *repo) SetActive(ctx context.Context, id int64, title string, active bool) error {
	const op = "room_repo.SetActive"

	query := sq.Insert(table).
		Columns(colID, colTitle, colActive).
		Values(id, title, active).
		Suffix("ON CONFLICT (" + colID + ") DO UPDATE SET " +
			colActive + " = EXCLUDED." + colActive + ", " +
			colTitle + " = COALESCE(NULLIF(EXCLUDED." + colTitle + ", ''), " + table + "." + colTitle + "), " +
			colUpdatedAt + " = now()").
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

func (r *repo) ActiveRooms(ctx context.Context) ([]int64, error) {
	const op = "room_repo.ActiveRooms"

	query := sq.Select(colID).
		From(table).
		Where(sq.Eq{colActive: true}).
		OrderBy(colID).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.db).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}

// SetForced - nil сбрасывает директиву
func (r *repo) SetForced(ctx context.Context, id int64, forced *model.ForcedOutcome) error {
	const op = "room_repo.SetForced"

	var value *string
	if forced != nil {
		s := forced.String()
		value = &s
	}

	query := sq.Update(table).
		Set(colForced, value).
		Set(colUpdatedAt, sq.Expr("now()")).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	res, err := r.getter.DefaultTrOrDB(ctx, r.db).Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if res.RowsAffected() == 0 {
		return model.ErrRoomNotFound
	}
	return nil
}

func (r *repo) TakeForced(ctx context.Context, id int64) (*model.ForcedOutcome, error) {
	const op = "room_repo.TakeForced"

	var forced *string
	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRow(ctx, takeForcedSQL, id).Scan(&forced)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRoomNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f, err := parseForced(forced)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return f, nil
}

func parseForced(raw *string) (*model.ForcedOutcome, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	f, err := model.ParseForcedOutcome(*raw)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
