package service

import (
	"context"
	"lottery_backend/internal/model"
)

// TxManager - обёртка транзакций, реализуется trm.Manager
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Publisher - отправка событий внешним получателям
type Publisher interface {
	Publish(event string, payload interface{})
}

type FairnessProvider interface {
	// Commit - сид раунда сохраняется в общем хранилище, все реплики публикуют один коммит
	Commit(ctx context.Context, key model.RoundKey) (commitment string, err error)
	Draw(ctx context.Context, key model.RoundKey, clientSeed string, forced *model.ForcedOutcome) (model.Draw, error)
	// Release - сид больше не нужен после записи итога раунда
	Release(ctx context.Context, key model.RoundKey) error
}

type LedgerService interface {
	PlaceWager(ctx context.Context, req model.PlaceWager) (*model.Wager, error)
	Credit(ctx context.Context, accountID, amount int64) (int64, error)
	Account(ctx context.Context, accountID int64) (*model.Account, error)
	Pot(ctx context.Context) (int64, error)
	// TopBalances - счета с наибольшим балансом для оператора
	TopBalances(ctx context.Context, limit int) ([]model.Account, error)
}

type RoomService interface {
	ActivateRoom(ctx context.Context, roomID int64, title string) error
	DeactivateRoom(ctx context.Context, roomID int64) error
	SetForcedOutcome(ctx context.Context, roomID int64, forced model.ForcedOutcome) error
	ClearForcedOutcome(ctx context.Context, roomID int64) error
	IsActive(ctx context.Context, roomID int64) (bool, error)
	ActiveRooms(ctx context.Context) ([]int64, error)
}

type SettlementService interface {
	OpenRound(ctx context.Context, key model.RoundKey) (commitment string, err error)
	SettleRound(ctx context.Context, key model.RoundKey) (*model.Settlement, error)
	PendingRounds(ctx context.Context, roomID, beforeEpoch int64) ([]int64, error)
	Result(ctx context.Context, key model.RoundKey) (*model.RoundResult, error)
	History(ctx context.Context, roomID int64, limit int) ([]model.RoundResult, error)
	// VerifyResult - пересчёт цифр по раскрытому сиду
	VerifyResult(ctx context.Context, key model.RoundKey) (*model.RoundResult, bool, error)
}

type AuthService interface {
	Login(ctx context.Context, login, password string) (accessToken string, err error)
}
