package room

import (
	"errors"
	"io"
	"lottery_backend/internal/api"
	dto "lottery_backend/internal/api/dto/room"
	"lottery_backend/internal/model"
	"lottery_backend/internal/service"
	"lottery_backend/pkg/req"
	"lottery_backend/pkg/resp"
	"net/http"

	"go.uber.org/zap"
)

type HandlerDeps struct {
	Serv service.RoomService
	Log  *zap.Logger
}

type Handler struct {
	serv service.RoomService
	log  *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, log: deps.Log}
}

// Activate включает комнату, тело с названием необязательно
func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	roomID, ok := api.IDParam(r, "roomID")
	if !ok {
		resp.WriteError(w, r, http.StatusBadRequest, "invalid room id")
		return
	}

	payload, err := req.Decode[dto.ActivateRequest](r.Body)
	if err != nil && !errors.Is(err, io.EOF) {
		resp.WriteDecodeError(w, r, err)
		return
	}

	if err := h.serv.ActivateRoom(r.Context(), roomID, payload.Title); err != nil {
		api.WriteServiceError(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, r, http.StatusOK, dto.StatusResponse{RoomID: roomID, Active: true})
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	roomID, ok := api.IDParam(r, "roomID")
	if !ok {
		resp.WriteError(w, r, http.StatusBadRequest, "invalid room id")
		return
	}

	if err := h.serv.DeactivateRoom(r.Context(), roomID); err != nil {
		api.WriteServiceError(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, r, http.StatusOK, dto.StatusResponse{RoomID: roomID, Active: false})
}

// SetForced задаёт исход следующего раунда комнаты
func (h *Handler) SetForced(w http.ResponseWriter, r *http.Request) {
	roomID, ok := api.IDParam(r, "roomID")
	if !ok {
		resp.WriteError(w, r, http.StatusBadRequest, "invalid room id")
		return
	}

	payload, err := req.Decode[dto.ForcedOutcomeRequest](r.Body)
	if err != nil {
		resp.WriteDecodeError(w, r, err)
		return
	}

	forced, err := model.ParseForcedOutcome(payload.Outcome)
	if err != nil {
		api.WriteServiceError(w, r, h.log, err)
		return
	}

	if err := h.serv.SetForcedOutcome(r.Context(), roomID, forced); err != nil {
		api.WriteServiceError(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, r, http.StatusOK, dto.StatusResponse{RoomID: roomID, Active: true, Forced: forced.String()})
}

func (h *Handler) ClearForced(w http.ResponseWriter, r *http.Request) {
	roomID, ok := api.IDParam(r, "roomID")
	if !ok {
		resp.WriteError(w, r, http.StatusBadRequest, "invalid room id")
		return
	}

	if err := h.serv.ClearForcedOutcome(r.Context(), roomID); err != nil {
		api.WriteServiceError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
