package model

import (
	"fmt"
	"strconv"
	"strings"
)

type ForcedKind string

const (
	ForcedSmall      ForcedKind = "small"
	ForcedBig        ForcedKind = "big"
	ForcedEven       ForcedKind = "even"
	ForcedOdd        ForcedKind = "odd"
	ForcedFirstDigit ForcedKind = "first"
)

// ForcedOutcome - одноразовое ограничение на исход следующего раунда комнаты
type ForcedOutcome struct {
	Kind  ForcedKind
	Digit int
}

// ParseForcedOutcome - разбор "small", "big", "even", "odd" или "first:N"
func ParseForcedOutcome(s string) (ForcedOutcome, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch ForcedKind(s) {
	case ForcedSmall, ForcedBig, ForcedEven, ForcedOdd:
		return ForcedOutcome{Kind: ForcedKind(s)}, nil
	}

	prefix := string(ForcedFirstDigit) + ":"
	if strings.HasPrefix(s, prefix) {
		d, err := strconv.Atoi(strings.TrimPrefix(s, prefix))
		if err != nil || d < 0 || d > 9 {
			return ForcedOutcome{}, fmt.Errorf("%w: first digit must be 0-9", ErrInvalidForcedOutcome)
		}
		return ForcedOutcome{Kind: ForcedFirstDigit, Digit: d}, nil
	}

	return ForcedOutcome{}, fmt.Errorf("%w: %q", ErrInvalidForcedOutcome, s)
}

func (f ForcedOutcome) String() string {
	if f.Kind == ForcedFirstDigit {
		return string(f.Kind) + ":" + strconv.Itoa(f.Digit)
	}
	return string(f.Kind)
}
