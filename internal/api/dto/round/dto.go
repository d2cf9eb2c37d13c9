package round

import "time"

type ResultResponse struct {
	RoomID          int64     `json:"room_id"`
	Epoch           int64     `json:"epoch"`
	RoundID         string    `json:"round_id"`
	Digits          string    `json:"digits"`
	Size            string    `json:"size"`
	Parity          string    `json:"parity"`
	Forced          string    `json:"forced_outcome,omitempty"`
	ForcedSatisfied bool      `json:"forced_satisfied,omitempty"`
	ServerSeed      string    `json:"server_seed,omitempty"`
	Commitment      string    `json:"commitment,omitempty"`
	ClientSeed      string    `json:"client_seed,omitempty"`
	Provable        bool      `json:"provable"`
	Strategy        string    `json:"strategy,omitempty"`
	SettledAt       time.Time `json:"settled_at"`
	Verified        *bool     `json:"verified,omitempty"`
}

type HistoryResponse struct {
	RoomID  int64            `json:"room_id"`
	Results []ResultResponse `json:"results"`
}

type VerifyRequest struct {
	ServerSeed string `json:"server_seed" validate:"required"`
	RoundID    string `json:"round_id" validate:"required"`
	ClientSeed string `json:"client_seed"`
	Digits     string `json:"digits" validate:"required,len=6,numeric"`
}

type VerifyResponse struct {
	Valid      bool   `json:"valid"`
	Expected   string `json:"expected_digits"`
	Commitment string `json:"commitment"`
}

type OutcomeResponse struct {
	WagerID   string `json:"wager_id"`
	AccountID int64  `json:"account_id"`
	Kind      string `json:"kind"`
	Value     string `json:"value"`
	Stake     int64  `json:"stake"`
	Payout    int64  `json:"payout"`
	Won       bool   `json:"won"`
	Paid      bool   `json:"paid"`
}

// SettledEvent - итог раунда для ретрансляторов
type SettledEvent struct {
	Result      ResultResponse    `json:"result"`
	Outcomes    []OutcomeResponse `json:"outcomes"`
	LosersTotal int64             `json:"losers_total"`
	HouseTotal  int64             `json:"house_total"`
	PaidTotal   int64             `json:"paid_total"`
	Failed      int               `json:"failed"`
	History     []ResultResponse  `json:"history"`
}
