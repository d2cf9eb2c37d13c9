package model

import "errors"

// Ошибки размещения ставки
var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrBelowMinimumStake   = errors.New("stake below minimum")
	ErrInvalidValueLength  = errors.New("number value must be 1-6 digits")
	ErrInvalidWager        = errors.New("invalid wager kind or value")
	ErrRoomInactive        = errors.New("room is not active")
	ErrRoundClosed         = errors.New("round is closed for wagers")
	ErrInvalidAmount       = errors.New("amount must be positive")
)

// Ошибки хранилища
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrRoundNotFound        = errors.New("round result not found")
	ErrInvalidForcedOutcome = errors.New("invalid forced outcome")
	ErrSeedNotFound         = errors.New("round seed not found")
	// ErrWagerSettled - ставка уже рассчитана другим расчётом или удалена
	ErrWagerSettled = errors.New("wager already settled")
)

var ErrInvalidCredentials = errors.New("invalid login or password")
