package room

type ActivateRequest struct {
	Title string `json:"title" validate:"max=255"`
}

// ForcedOutcomeRequest - small, big, even, odd или first:N
type ForcedOutcomeRequest struct {
	Outcome string `json:"outcome" validate:"required"`
}

type StatusResponse struct {
	RoomID int64  `json:"room_id"`
	Active bool   `json:"active"`
	Forced string `json:"forced_outcome,omitempty"`
}
