package account

import (
	"lottery_backend/internal/api"
	dto "lottery_backend/internal/api/dto/account"
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

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	accountID, ok := api.IDParam(r, "accountID")
	if !ok {
		resp.WriteError(w, r, http.StatusBadRequest, "invalid account id")
		return
	}

	acc, err := h.serv.Account(r.Context(), accountID)
	if err != nil {
		api.WriteServiceError(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, r, http.StatusOK, converter.ToAccountResponse(acc))
}

// Credit пополняет счёт, создавая его при первом пополнении
func (h *Handler) Credit(w http.ResponseWriter, r *http.Request) {
	accountID, ok := api.IDParam(r, "accountID")
	if !ok {
		resp.WriteError(w, r, http.StatusBadRequest, "invalid account id")
		return
	}

	payload, err := req.Decode[dto.CreditRequest](r.Body)
	if err != nil {
		resp.WriteDecodeError(w, r, err)
		return
	}

	balance, err := h.serv.Credit(r.Context(), accountID, payload.Amount)
	if err != nil {
		api.WriteServiceError(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, r, http.StatusOK, dto.CreditResponse{AccountID: accountID, Balance: balance})
}

func (h *Handler) Pot(w http.ResponseWriter, r *http.Request) {
	amount, err := h.serv.Pot(r.Context())
	if err != nil {
		api.WriteServiceError(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, r, http.StatusOK, dto.PotResponse{Amount: amount})
}

// Top - крупнейшие балансы, limit необязателен
func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	limit, ok := api.LimitParam(r)
	if !ok {
		resp.WriteError(w, r, http.StatusBadRequest, "invalid limit")
		return
	}

	accounts, err := h.serv.TopBalances(r.Context(), limit)
	if err != nil {
		api.WriteServiceError(w, r, h.log, err)
		return
	}

	resp.WriteJSONResponse(w, r, http.StatusOK, converter.ToAccountsResponse(accounts))
}
