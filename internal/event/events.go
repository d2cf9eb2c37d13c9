package event

import "lottery_backend/internal/model"

const (
	EventRoundOpened     = "round.opened"
	EventCountdownTick   = "round.countdown"
	EventLockRequested   = "room.lock"
	EventUnlockRequested = "room.unlock"
	EventRoundSettled    = "round.settled"
)

// All - все события ядра, в порядке жизненного цикла раунда
var All = []string{
	EventRoundOpened,
	EventCountdownTick,
	EventLockRequested,
	EventUnlockRequested,
	EventRoundSettled,
}

type RoundOpened struct {
	RoomID     int64  `json:"room_id"`
	Epoch      int64  `json:"epoch"`
	RoundID    string `json:"round_id"`
	Commitment string `json:"commitment,omitempty"`
}

type CountdownTick struct {
	RoomID           int64 `json:"room_id"`
	Epoch            int64 `json:"epoch"`
	SecondsRemaining int   `json:"seconds_remaining"`
}

type LockRequested struct {
	RoomID int64 `json:"room_id"`
	Epoch  int64 `json:"epoch"`
}

type UnlockRequested struct {
	RoomID int64 `json:"room_id"`
	Epoch  int64 `json:"epoch"`
}

type RoundSettled struct {
	Settlement *model.Settlement `json:"settlement"`
}
