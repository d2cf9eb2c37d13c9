package converter

import (
	"lottery_backend/internal/api/dto/wager"
	"lottery_backend/internal/model"
)

func ToPlaceWager(roomID int64, req wager.PlaceWagerRequest) model.PlaceWager {
	return model.PlaceWager{
		RoomID:    roomID,
		AccountID: req.AccountID,
		Kind:      model.WagerKind(req.Kind),
		Value:     req.Value,
		Stake:     req.Stake,
	}
}

func ToPlaceWagerResponse(w *model.Wager) wager.PlaceWagerResponse {
	return wager.PlaceWagerResponse{
		ID:        w.ID.String(),
		RoomID:    w.RoomID,
		Epoch:     w.Epoch,
		RoundID:   w.Key().RoundID(),
		AccountID: w.AccountID,
		Kind:      string(w.Kind),
		Value:     w.Value,
		Stake:     w.Stake,
	}
}
