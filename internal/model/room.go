package model

import "time"

// Room - игровая комната (чат)
type Room struct {
	ID        int64
	Title     string
	Active    bool
	Forced    *ForcedOutcome
	UpdatedAt time.Time
}
