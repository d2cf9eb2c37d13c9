package repository

import (
	"context"
	"lottery_backend/internal/model"

	"github.com/google/uuid"
)

type AccountRepository interface {
	GetAccount(ctx context.Context, id int64) (*model.Account, error)
	// EnsureAccount - создаёт счёт с нулевым балансом, если его нет
	EnsureAccount(ctx context.Context, id int64) error
	// Debit - атомарно списывает сумму при достаточном балансе и учитывает оборот ставок
	Debit(ctx context.Context, id int64, amount int64) (balance int64, err error)
	// Credit - атомарно начисляет сумму
	Credit(ctx context.Context, id int64, amount int64) (balance int64, err error)
	RecordStreak(ctx context.Context, id int64, won bool) error
	// TopBalances - счета по убыванию баланса, не больше limit
	TopBalances(ctx context.Context, limit int) ([]model.Account, error)
}

type WagerRepository interface {
	CreateWager(ctx context.Context, w *model.Wager) error
	// Pending - нерассчитанные ставки раунда
	Pending(ctx context.Context, key model.RoundKey) ([]model.Wager, error)
	// MarkSettled - все ставки или ни одной; уже рассчитанная даёт ErrWagerSettled
	MarkSettled(ctx context.Context, ids []uuid.UUID) error
	// ClearRound - удаляет ставки раунда с переданными id
	ClearRound(ctx context.Context, key model.RoundKey, ids []uuid.UUID) error
	// PendingEpochs - эпохи комнаты раньше before, в которых остались ставки
	PendingEpochs(ctx context.Context, roomID, before int64) ([]int64, error)
}

type RoomRepository interface {
	GetRoom(ctx context.Context, id int64) (*model.Room, error)
	// SetActive - создаёт комнату при первой активации
	SetActive(ctx context.Context, id int64, title string, active bool) error
	ActiveRooms(ctx context.Context) ([]int64, error)
	SetForced(ctx context.Context, id int64, forced *model.ForcedOutcome) error
	// TakeForced - атомарно читает и сбрасывает принудительный исход
	TakeForced(ctx context.Context, id int64) (*model.ForcedOutcome, error)
}

type HistoryRepository interface {
	// SaveResult - false, если итог раунда уже записан
	SaveResult(ctx context.Context, res *model.RoundResult) (bool, error)
	GetResult(ctx context.Context, key model.RoundKey) (*model.RoundResult, error)
	Recent(ctx context.Context, roomID int64, limit int) ([]model.RoundResult, error)
}

type PotRepository interface {
	AddToPot(ctx context.Context, amount int64) error
	PotAmount(ctx context.Context) (int64, error)
}

// SeedRepository - серверные сиды раундов, закоммиченные до приёма ставок
type SeedRepository interface {
	// SaveSeed - записывает сид, если для раунда его ещё нет, и возвращает сохранённый
	SaveSeed(ctx context.Context, key model.RoundKey, seed string) (string, error)
	GetSeed(ctx context.Context, key model.RoundKey) (string, error)
	DeleteSeed(ctx context.Context, key model.RoundKey) error
}

// RoundLocker - захват раунда на расчёт, не более одного расчёта на ключ
type RoundLocker interface {
	Acquire(ctx context.Context, key model.RoundKey) (bool, error)
	Release(ctx context.Context, key model.RoundKey) error
}
