package outcome

import (
	"lottery_backend/internal/config"
	"lottery_backend/internal/model"
	"strings"

	"github.com/shopspring/decimal"
)

// Payouts - таблица множителей выигрыша
type Payouts struct {
	Win     decimal.Decimal
	Numbers map[int]decimal.Decimal
	House   decimal.Decimal
}

func NewPayouts(cfg config.BetConfig) Payouts {
	return Payouts{
		Win:     cfg.WinMultiplier(),
		Numbers: cfg.NumberMultipliers(),
		House:   cfg.HouseRate(),
	}
}

// Classify - размер и чётность определяются только последней цифрой
func Classify(d model.Digits) (model.Size, model.Parity) {
	last := d.Last()

	size := model.SizeBig
	if last <= 5 {
		size = model.SizeSmall
	}

	parity := model.ParityOdd
	if last%2 == 0 {
		parity = model.ParityEven
	}

	return size, parity
}

// Matches - сыграла ли ставка и с каким множителем.
// Ставка на число выигрывает, если совпадает с хвостом выпавшей последовательности
func Matches(w model.Wager, d model.Digits, size model.Size, parity model.Parity, p Payouts) (bool, decimal.Decimal) {
	switch w.Kind {
	case model.WagerSize:
		if model.Size(w.Value) == size {
			return true, p.Win
		}
	case model.WagerParity:
		if model.Parity(w.Value) == parity {
			return true, p.Win
		}
	case model.WagerNumber:
		if ValidNumber(w.Value) && strings.HasSuffix(d.String(), w.Value) {
			return true, p.Numbers[len(w.Value)]
		}
	}
	return false, decimal.Zero
}

// Satisfies - выполнено ли принудительное условие
func Satisfies(f model.ForcedOutcome, d model.Digits) bool {
	size, parity := Classify(d)
	switch f.Kind {
	case model.ForcedSmall:
		return size == model.SizeSmall
	case model.ForcedBig:
		return size == model.SizeBig
	case model.ForcedEven:
		return parity == model.ParityEven
	case model.ForcedOdd:
		return parity == model.ParityOdd
	case model.ForcedFirstDigit:
		return d[0] == f.Digit
	}
	return false
}

// ValidNumber - строка из 1-6 цифр
func ValidNumber(v string) bool {
	if len(v) < 1 || len(v) > model.DigitsCount {
		return false
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return false
		}
	}
	return true
}

// Amount - ставка, умноженная на коэффициент, с округлением до целых
func Amount(stake int64, mult decimal.Decimal) int64 {
	return decimal.NewFromInt(stake).Mul(mult).Round(0).IntPart()
}
