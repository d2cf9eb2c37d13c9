package wager

import (
	"lottery_backend/internal/api"
	dto "lottery_backend/internal/api/dto/wager"
	"lottery_backend/internal/converter"
	"lottery_backend/internal/service"
	"lottery_backend/pkg/req"
	"lottery_backend/pkg/resp"
	"net/http"

	"go.uber.org/zap"
)

type HandlerDeps struct {
	Serv service.LedgerService
	Log  *zap.Logger
}

type Handler struct {
	serv service.LedgerService
	log  *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, log: deps.Log}
}

// Place принимает ставку на ближайший раунд комнаты
func (h *Handler) Place(w http.ResponseWriter, r *http.Request) {
	roomID, ok := api.IDParam(r, "roomID")
	if !ok {
		resp.WriteError(w, r, http.StatusBadRequest, "invalid room id")
		return
	}

	payload, err := req.Decode[dto.PlaceWagerRequest](r.Body)
	if err != nil {
		resp.WriteDecodeError(w, r, err)
		return
	}

	placed, err := h.serv.PlaceWager(r.Context(), converter.ToPlaceWager(roomID, payload))
	if err != nil {
		api.WriteServiceError(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, r, http.StatusCreated, converter.ToPlaceWagerResponse(placed))
}
