package round

import (
	"lottery_backend/internal/api"
	dto "lottery_backend/internal/api/dto/round"
	"lottery_backend/internal/converter"
	"lottery_backend/internal/model"
	"lottery_backend/internal/service"
	"lottery_backend/internal/service/fairness"
	"lottery_backend/pkg/req"
	"lottery_backend/pkg/resp"
	"net/http"

	"go.uber.org/zap"
)

type HandlerDeps struct {
	Serv service.SettlementService
	Log  *zap.Logger
}

type Handler struct {
	serv service.SettlementService
	log  *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, log: deps.Log}
}

// History последние итоги комнаты, новые первыми
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	roomID, ok := api.IDParam(r, "roomID")
	if !ok {
		resp.WriteError(w, r, http.StatusBadRequest, "invalid room id")
		return
	}

	limit, ok := api.LimitParam(r)
	if !ok {
		resp.WriteError(w, r, http.StatusBadRequest, "invalid limit")
		return
	}

	results, err := h.serv.History(r.Context(), roomID, limit)
	if err != nil {
		api.WriteServiceError(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, r, http.StatusOK, converter.ToHistoryResponse(roomID, results))
}

// Get итог раунда с пересчётом цифр по раскрытому сиду
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	roomID, ok := api.IDParam(r, "roomID")
	if !ok {
		resp.WriteError(w, r, http.StatusBadRequest, "invalid room id")
		return
	}
	epoch, ok := api.IDParam(r, "epoch")
	if !ok {
		resp.WriteError(w, r, http.StatusBadRequest, "invalid epoch")
		return
	}

	res, verified, err := h.serv.VerifyResult(r.Context(), model.RoundKey{RoomID: roomID, Epoch: epoch})
	if err != nil {
		api.WriteServiceError(w, r, h.log, err)
		return
	}

	out := converter.ToResultResponse(res)
	if res.Fairness.ServerSeed != "" {
		out.Verified = &verified
	}

	resp.WriteJSONResponse(w, r, http.StatusOK, out)
}

// Verify независимая проверка тиража по присланным материалам
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.VerifyRequest](r.Body)
	if err != nil {
		resp.WriteDecodeError(w, r, err)
		return
	}

	digits, err := model.ParseDigits(payload.Digits)
	if err != nil {
		resp.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	expected := fairness.DeriveDigits(payload.ServerSeed, payload.RoundID, payload.ClientSeed)

	resp.WriteJSONResponse(w, r, http.StatusOK, dto.VerifyResponse{
		Valid:      fairness.Verify(payload.ServerSeed, payload.RoundID, payload.ClientSeed, digits),
		Expected:   expected.String(),
		Commitment: fairness.Commitment(payload.ServerSeed),
	})
}
