package offering_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staybook/internal/domain/offering"
	"staybook/internal/domain/shared/money"
)

func inr(amount int64) money.Money {
	return money.Must(amount, "INR")
}

func TestRateForHeadcount_BracketsOverrideFlat(t *testing.T) {
	rates := offering.RateTable{
		Flat:  inr(2000),
		One:   inr(1500),
		Two:   inr(1800),
		Extra: inr(600),
	}

	cases := []struct {
		headcount int
		want      int64
	}{
		{1, 1500},
		{2, 1800},
		{3, 600},
		{7, 600},
	}
	for _, tc := range cases {
		got, err := rates.RateForHeadcount(tc.headcount)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.Amount, "headcount %d", tc.headcount)
	}
}

func TestRateForHeadcount_AbsentBracketFallsBack(t *testing.T) {
	rates := offering.RateTable{
		Flat: inr(2000),
		One:  inr(1500),
	}

	got, err := rates.RateForHeadcount(2)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), got.Amount)
}

func TestRateForHeadcount_NoRatesAtAll(t *testing.T) {
	_, err := offering.RateTable{}.RateForHeadcount(1)
	assert.ErrorIs(t, err, offering.ErrNoRates)
}

func TestRateForHeadcount_FlatOnly(t *testing.T) {
	got, err := offering.RateTable{Flat: inr(900)}.RateForHeadcount(5)
	require.NoError(t, err)
	assert.Equal(t, int64(900), got.Amount)
}

func TestNew_Validation(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	base := offering.CreateParams{
		ID:        "villa-1",
		Name:      "Riverside Villa",
		Kind:      offering.KindProperty,
		Capacity:  1,
		Rates:     offering.RateTable{Flat: inr(1000)},
		CreatedAt: now,
	}

	t.Run("valid", func(t *testing.T) {
		off, err := offering.New(base)
		require.NoError(t, err)
		assert.Equal(t, "INR", off.Currency())
	})

	t.Run("missing name", func(t *testing.T) {
		params := base
		params.Name = "  "
		_, err := offering.New(params)
		assert.ErrorIs(t, err, offering.ErrNameRequired)
	})

	t.Run("unknown kind", func(t *testing.T) {
		params := base
		params.Kind = "campsite"
		_, err := offering.New(params)
		assert.ErrorIs(t, err, offering.ErrInvalidKind)
	})

	t.Run("zero capacity", func(t *testing.T) {
		params := base
		params.Capacity = 0
		_, err := offering.New(params)
		assert.ErrorIs(t, err, offering.ErrInvalidCapacity)
	})

	t.Run("discount out of range", func(t *testing.T) {
		params := base
		params.DiscountPercent = 120
		_, err := offering.New(params)
		assert.ErrorIs(t, err, offering.ErrInvalidDiscount)
	})

	t.Run("no rates fails fast", func(t *testing.T) {
		params := base
		params.Rates = offering.RateTable{}
		_, err := offering.New(params)
		assert.ErrorIs(t, err, offering.ErrNoRates)
	})
}
