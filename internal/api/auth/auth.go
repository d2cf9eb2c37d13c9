package auth

import (
	"lottery_backend/internal/api"
	dto "lottery_backend/internal/api/dto/auth"
	"lottery_backend/internal/service"
	"lottery_backend/pkg/req"
	"lottery_backend/pkg/resp"
	"net/http"

	"go.uber.org/zap"
)

type HandlerDeps struct {
	Serv service.AuthService
	Log  *zap.Logger
}

type Handler struct {
	serv service.AuthService
	log  *zap.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, log: deps.Log}
}

// Token выдаёт access_token оператору или ретранслятору
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	requestBody, err := req.Decode[dto.LoginRequest](r.Body)
	if err != nil {
		resp.WriteDecodeError(w, r, err)
		return
	}

	accessToken, err := h.serv.Login(r.Context(), requestBody.Login, requestBody.Password)
	if err != nil {
		api.WriteServiceError(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, r, http.StatusOK, dto.LoginResponse{AccessToken: accessToken})
}
