package api

import (
	"errors"
	"lottery_backend/internal/model"
	"lottery_backend/pkg/resp"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// WriteServiceError - доменная ошибка в HTTP статус, остальное 500 с записью в журнал
func WriteServiceError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, model.ErrInsufficientBalance),
		errors.Is(err, model.ErrBelowMinimumStake),
		errors.Is(err, model.ErrInvalidValueLength),
		errors.Is(err, model.ErrInvalidWager),
		errors.Is(err, model.ErrInvalidAmount),
		errors.Is(err, model.ErrInvalidForcedOutcome):
		resp.WriteError(w, r, http.StatusUnprocessableEntity, rootMessage(err))
	case errors.Is(err, model.ErrRoomInactive):
		resp.WriteError(w, r, http.StatusConflict, model.ErrRoomInactive.Error())
	case errors.Is(err, model.ErrRoundClosed):
		resp.WriteError(w, r, http.StatusConflict, model.ErrRoundClosed.Error())
	case errors.Is(err, model.ErrAccountNotFound),
		errors.Is(err, model.ErrRoomNotFound),
		errors.Is(err, model.ErrRoundNotFound):
		resp.WriteError(w, r, http.StatusNotFound, rootMessage(err))
	case errors.Is(err, model.ErrInvalidCredentials):
		resp.WriteError(w, r, http.StatusUnauthorized, model.ErrInvalidCredentials.Error())
	default:
		log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		resp.WriteError(w, r, http.StatusInternalServerError, "internal error")
	}
}

var domainErrors = []error{
	model.ErrInsufficientBalance,
	model.ErrBelowMinimumStake,
	model.ErrInvalidValueLength,
	model.ErrInvalidWager,
	model.ErrInvalidAmount,
	model.ErrInvalidForcedOutcome,
	model.ErrAccountNotFound,
	model.ErrRoomNotFound,
	model.ErrRoundNotFound,
}

// rootMessage - текст доменной ошибки без префиксов обёрток
func rootMessage(err error) string {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

// IDParam - целочисленный параметр пути
func IDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// LimitParam - необязательный параметр limit; 0, если не задан
func LimitParam(r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, false
	}
	return limit, true
}
