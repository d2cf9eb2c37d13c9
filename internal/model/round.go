package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DigitsCount - количество цифр в тираже
const DigitsCount = 6

type Size string

const (
	SizeSmall Size = "small"
	SizeBig   Size = "big"
)

type Parity string

const (
	ParityEven Parity = "even"
	ParityOdd  Parity = "odd"
)

// Digits - шесть выпавших цифр, каждая 0-9
type Digits [DigitsCount]int

func (d Digits) String() string {
	var b strings.Builder
	for _, v := range d {
		b.WriteByte(byte('0' + v))
	}
	return b.String()
}

// Last - последняя цифра, по ней определяется исход
func (d Digits) Last() int {
	return d[DigitsCount-1]
}

// ParseDigits - разбор строки вида "457891"
func ParseDigits(s string) (Digits, error) {
	var d Digits
	if len(s) != DigitsCount {
		return d, fmt.Errorf("digits must be %d characters, got %d", DigitsCount, len(s))
	}
	for i := 0; i < DigitsCount; i++ {
		if s[i] < '0' || s[i] > '9' {
			return d, fmt.Errorf("invalid digit %q at %d", s[i], i)
		}
		d[i] = int(s[i] - '0')
	}
	return d, nil
}

// RoundKey - идентификатор раунда (комната, эпоха)
type RoundKey struct {
	RoomID int64
	Epoch  int64
}

// RoundID - строковый идентификатор раунда, участвует в HMAC
func (k RoundKey) RoundID() string {
	return strconv.FormatInt(k.RoomID, 10) + "_" + strconv.FormatInt(k.Epoch, 10)
}

func (k RoundKey) String() string {
	return k.RoundID()
}

// EpochAt - номер эпохи для момента времени
func EpochAt(t time.Time, round time.Duration) int64 {
	return t.Unix() / int64(round/time.Second)
}

// BoundaryOf - момент окончания приёма ставок и розыгрыша эпохи
func BoundaryOf(epoch int64, round time.Duration) time.Time {
	return time.Unix(epoch*int64(round/time.Second), 0)
}

// Fairness - материалы для проверки честности тиража
type Fairness struct {
	ServerSeed string
	Commitment string
	ClientSeed string
	// Provable - раскрытый сид совпадает с опубликованным коммитом, а цифры получены из него
	Provable bool
	Strategy string
}

// Draw - результат генерации цифр
type Draw struct {
	Digits          Digits
	Fairness        Fairness
	ForcedSatisfied bool
	Attempts        int
}

// RoundResult - неизменяемый итог раунда
type RoundResult struct {
	Key             RoundKey
	Digits          Digits
	Size            Size
	Parity          Parity
	Forced          *ForcedOutcome
	ForcedSatisfied bool
	Fairness        Fairness
	SettledAt       time.Time
}

// BettorOutcome - итог одной ставки
type BettorOutcome struct {
	WagerID   string
	AccountID int64
	Kind      WagerKind
	Value     string
	Stake     int64
	Payout    int64
	Won       bool
	Paid      bool
}

// Settlement - итог расчёта раунда
type Settlement struct {
	Result      RoundResult
	Outcomes    []BettorOutcome
	LosersTotal int64
	HouseTotal  int64
	PaidTotal   int64
	Failed      int
	History     []RoundResult
}
