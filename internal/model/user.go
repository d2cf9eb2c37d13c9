package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// Account - баланс игрока и счётчики серий
type Account struct {
	ID             int64
	Balance        int64
	TotalBetVolume int64
	CurrentStreak  int
	BestStreak     int
}

// Роли операторов API
const (
	RoleOperator = "operator"
	RoleRelay    = "relay"
)

// Operator - учётная запись оператора или ретранслятора
type Operator struct {
	Login        string
	PasswordHash string
	Role         string
}

type OperatorClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}
