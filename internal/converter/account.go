package converter

import (
	"lottery_backend/internal/api/dto/account"
	"lottery_backend/internal/model"
)

func ToAccountResponse(acc *model.Account) account.AccountResponse {
	return account.AccountResponse{
		ID:             acc.ID,
		Balance:        acc.Balance,
		TotalBetVolume: acc.TotalBetVolume,
		CurrentStreak:  acc.CurrentStreak,
		BestStreak:     acc.BestStreak,
	}
}

func ToAccountsResponse(accounts []model.Account) account.AccountsResponse {
	out := account.AccountsResponse{Accounts: make([]account.AccountResponse, 0, len(accounts))}
	for i := range accounts {
		out.Accounts = append(out.Accounts, ToAccountResponse(&accounts[i]))
	}
	return out
}
