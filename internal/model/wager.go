package model

import (
	"time"

	"github.com/google/uuid"
)

type WagerKind string

const (
	WagerSize   WagerKind = "size"
	WagerParity WagerKind = "parity"
	WagerNumber WagerKind = "number"
)

// Wager - ставка на конкретный раунд. Сумма списана с баланса при создании
type Wager struct {
	ID        uuid.UUID
	RoomID    int64
	Epoch     int64
	AccountID int64
	Kind      WagerKind
	Value     string
	Stake     int64
	CreatedAt time.Time
}

func (w Wager) Key() RoundKey {
	return RoundKey{RoomID: w.RoomID, Epoch: w.Epoch}
}

// PlaceWager - запрос на размещение ставки
type PlaceWager struct {
	RoomID    int64
	AccountID int64
	Kind      WagerKind
	Value     string
	Stake     int64
}
