package outcome

import (
	"lottery_backend/internal/config/env"
	"lottery_backend/internal/model"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayouts(t *testing.T) Payouts {
	cfg, err := env.ParseGameConfig(nil)
	require.NoError(t, err)
	return NewPayouts(cfg)
}

func TestClassifyUsesLastDigit(t *testing.T) {
	for last := 0; last <= 9; last++ {
		for _, prefix := range []model.Digits{{0, 0, 0, 0, 0}, {9, 8, 7, 6, 5}, {1, 3, 5, 7, 9}} {
			d := prefix
			d[5] = last

			size, parity := Classify(d)

			assert.Equal(t, last <= 5, size == model.SizeSmall, "digits %s", d)
			assert.Equal(t, last%2 == 0, parity == model.ParityEven, "digits %s", d)
		}
	}
}

func TestMatchesNumberSuffix(t *testing.T) {
	p := testPayouts(t)
	drawn := model.Digits{1, 9, 1, 0, 0, 0}
	size, parity := Classify(drawn)

	cases := []struct {
		value string
		won   bool
		mult  string
	}{
		{value: "0", won: true, mult: "9.2"},
		{value: "00", won: true, mult: "90"},
		{value: "1000", won: true, mult: "9000"},
		{value: "191000", won: true, mult: "100000"},
		{value: "1", won: false},
		{value: "19", won: false},
		{value: "91", won: false},
		{value: "291000", won: false},
		{value: "", won: false},
		{value: "1910000", won: false},
		{value: "a0", won: false},
	}

	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			w := model.Wager{Kind: model.WagerNumber, Value: tc.value}
			won, mult := Matches(w, drawn, size, parity, p)
			assert.Equal(t, tc.won, won)
			if tc.won {
				assert.True(t, decimal.RequireFromString(tc.mult).Equal(mult), "got %s", mult)
			} else {
				assert.True(t, mult.IsZero())
			}
		})
	}
}

func TestMatchesNumberEverySuffixLength(t *testing.T) {
	p := testPayouts(t)
	drawn := model.Digits{4, 5, 7, 8, 9, 1}
	size, parity := Classify(drawn)
	s := drawn.String()

	for l := 1; l <= model.DigitsCount; l++ {
		won, _ := Matches(model.Wager{Kind: model.WagerNumber, Value: s[len(s)-l:]}, drawn, size, parity, p)
		assert.True(t, won, "suffix length %d", l)

		won, _ = Matches(model.Wager{Kind: model.WagerNumber, Value: s[:l]}, drawn, size, parity, p)
		assert.Equal(t, l == model.DigitsCount, won, "prefix length %d", l)
	}
}

func TestMatchesSizeAndParity(t *testing.T) {
	p := testPayouts(t)
	drawn := model.Digits{4, 5, 7, 8, 9, 3}
	size, parity := Classify(drawn)

	cases := []struct {
		kind  model.WagerKind
		value string
		won   bool
	}{
		{model.WagerSize, "small", true},
		{model.WagerSize, "big", false},
		{model.WagerParity, "odd", true},
		{model.WagerParity, "even", false},
	}

	for _, tc := range cases {
		won, mult := Matches(model.Wager{Kind: tc.kind, Value: tc.value}, drawn, size, parity, p)
		assert.Equal(t, tc.won, won, "%s=%s", tc.kind, tc.value)
		if tc.won {
			assert.True(t, p.Win.Equal(mult))
		}
	}
}

func TestSatisfies(t *testing.T) {
	d := model.Digits{7, 0, 0, 0, 0, 8}

	assert.True(t, Satisfies(model.ForcedOutcome{Kind: model.ForcedBig}, d))
	assert.False(t, Satisfies(model.ForcedOutcome{Kind: model.ForcedSmall}, d))
	assert.True(t, Satisfies(model.ForcedOutcome{Kind: model.ForcedEven}, d))
	assert.False(t, Satisfies(model.ForcedOutcome{Kind: model.ForcedOdd}, d))
	assert.True(t, Satisfies(model.ForcedOutcome{Kind: model.ForcedFirstDigit, Digit: 7}, d))
	assert.False(t, Satisfies(model.ForcedOutcome{Kind: model.ForcedFirstDigit, Digit: 8}, d))
}

func TestAmount(t *testing.T) {
	assert.Equal(t, int64(1970), Amount(1000, decimal.RequireFromString("1.97")))
	assert.Equal(t, int64(30), Amount(1000, decimal.RequireFromString("0.03")))
	assert.Equal(t, int64(90000), Amount(1000, decimal.NewFromInt(90)))
	assert.Equal(t, int64(9200), Amount(1000, decimal.RequireFromString("9.2")))
	assert.Equal(t, int64(15), Amount(500, decimal.RequireFromString("0.03")))
}
