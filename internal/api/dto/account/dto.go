package account

type AccountResponse struct {
	ID             int64 `json:"id"`
	Balance        int64 `json:"balance"`
	TotalBetVolume int64 `json:"total_bet_volume"`
	CurrentStreak  int   `json:"current_streak"`
	BestStreak     int   `json:"best_streak"`
}

type CreditRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type CreditResponse struct {
	AccountID int64 `json:"account_id"`
	Balance   int64 `json:"balance"`
}

type PotResponse struct {
	Amount int64 `json:"amount"`
}

type AccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
