package wager

type PlaceWagerRequest struct {
	AccountID int64  `json:"account_id" validate:"required"`
	Kind      string `json:"kind" validate:"required,oneof=size parity number"`
	Value     string `json:"value" validate:"required"`
	Stake     int64  `json:"stake" validate:"required,gt=0"`
}

type PlaceWagerResponse struct {
	ID        string `json:"id"`
	RoomID    int64  `json:"room_id"`
	Epoch     int64  `json:"epoch"`
	RoundID   string `json:"round_id"`
	AccountID int64  `json:"account_id"`
	Kind      string `json:"kind"`
	Value     string `json:"value"`
	Stake     int64  `json:"stake"`
}
