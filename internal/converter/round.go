package converter

import (
	"lottery_backend/internal/api/dto/round"
	"lottery_backend/internal/model"
)

func ToResultResponse(res *model.RoundResult) round.ResultResponse {
	out := round.ResultResponse{
		RoomID:          res.Key.RoomID,
		Epoch:           res.Key.Epoch,
		RoundID:         res.Key.RoundID(),
		Digits:          res.Digits.String(),
		Size:            string(res.Size),
		Parity:          string(res.Parity),
		ForcedSatisfied: res.ForcedSatisfied,
		ServerSeed:      res.Fairness.ServerSeed,
		Commitment:      res.Fairness.Commitment,
		ClientSeed:      res.Fairness.ClientSeed,
		Provable:        res.Fairness.Provable,
		Strategy:        res.Fairness.Strategy,
		SettledAt:       res.SettledAt,
	}
	if res.Forced != nil {
		out.Forced = res.Forced.String()
	}
	return out
}

func ToHistoryResponse(roomID int64, results []model.RoundResult) round.HistoryResponse {
	out := round.HistoryResponse{
		RoomID:  roomID,
		Results: make([]round.ResultResponse, 0, len(results)),
	}
	for i := range results {
		out.Results = append(out.Results, ToResultResponse(&results[i]))
	}
	return out
}

func ToSettledEvent(st *model.Settlement) round.SettledEvent {
	out := round.SettledEvent{
		Result:      ToResultResponse(&st.Result),
		Outcomes:    make([]round.OutcomeResponse, 0, len(st.Outcomes)),
		LosersTotal: st.LosersTotal,
		HouseTotal:  st.HouseTotal,
		PaidTotal:   st.PaidTotal,
		Failed:      st.Failed,
		History:     make([]round.ResultResponse, 0, len(st.History)),
	}
	for _, o := range st.Outcomes {
		out.Outcomes = append(out.Outcomes, round.OutcomeResponse{
			WagerID:   o.WagerID,
			AccountID: o.AccountID,
			Kind:      string(o.Kind),
			Value:     o.Value,
			Stake:     o.Stake,
			Payout:    o.Payout,
			Won:       o.Won,
			Paid:      o.Paid,
		})
	}
	for i := range st.History {
		out.History = append(out.History, ToResultResponse(&st.History[i]))
	}
	return out
}
