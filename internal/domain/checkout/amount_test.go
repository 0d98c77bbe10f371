//go:build unit

package checkout_test

import (
	"testing"

	"tour-checkout/internal/domain/checkout"
	"tour-checkout/tests/common/builder"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverter(t *testing.T) {
	conv := builder.NewConverter()

	t.Run("quote scenario: 3,000,000 x 2 at 24,500", func(t *testing.T) {
		totals, err := conv.Convert(decimal.NewFromInt(3_000_000), 2)
		require.NoError(t, err)
		assert.Equal(t, "6000000", totals.Local.String())
		assert.Equal(t, "244.90", totals.Settlement.StringFixed(2))
		assert.Equal(t, int64(24490), totals.SettlementMinorUnits())
		assert.Equal(t, "usd", totals.Currency)
		assert.Equal(t, "test", totals.RateVersion)
	})

	t.Run("ceiling scenario: 30,000,000,000 x 1 exceeds gateway limit", func(t *testing.T) {
		_, err := conv.Convert(decimal.NewFromInt(30_000_000_000), 1)
		assert.ErrorIs(t, err, checkout.ErrAmountExceedsGatewayLimit)
	})

	t.Run("exactly at ceiling is accepted", func(t *testing.T) {
		price := decimal.RequireFromString("999999.99").Mul(decimal.NewFromInt(24_500))
		totals, err := conv.Convert(price, 1)
		require.NoError(t, err)
		assert.True(t, totals.Settlement.Equal(builder.DefaultCeiling()))
	})

	t.Run("local total is exact price times party size", func(t *testing.T) {
		prices := []int64{24_500, 99_999, 1_234_567, 3_000_000, 987_654_321}
		for _, p := range prices {
			for n := 1; n <= 12; n++ {
				totals, err := conv.Convert(decimal.NewFromInt(p), n)
				require.NoError(t, err)
				assert.True(t, totals.Local.Equal(decimal.NewFromInt(p*int64(n))), "price=%d n=%d", p, n)
				assert.LessOrEqual(t, totals.Settlement.Exponent(), int32(0))
				assert.GreaterOrEqual(t, totals.Settlement.Exponent(), int32(-2), "settlement keeps at most 2 decimals")
			}
		}
	})

	t.Run("decimal prices keep exact local totals", func(t *testing.T) {
		totals, err := conv.Convert(decimal.RequireFromString("1234567.1"), 3)
		require.NoError(t, err)
		assert.Equal(t, "3703701.3", totals.Local.String())
		assert.Equal(t, "151.17", totals.Settlement.StringFixed(2))
	})

	t.Run("invalid amounts", func(t *testing.T) {
		cases := []struct {
			name  string
			price decimal.Decimal
			n     int
		}{
			{name: "zero price", price: decimal.Zero, n: 1},
			{name: "negative price", price: decimal.NewFromInt(-5), n: 1},
			{name: "zero party", price: decimal.NewFromInt(100_000), n: 0},
			{name: "settlement rounds to zero", price: decimal.NewFromInt(10), n: 1},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := conv.Convert(tc.price, tc.n)
				assert.ErrorIs(t, err, checkout.ErrInvalidAmount)
			})
		}
	})
}

func TestNewConverter(t *testing.T) {
	_, err := checkout.NewExchangeRate("v1", "vnd", "usd", decimal.Zero)
	assert.ErrorIs(t, err, checkout.ErrInvalidExchangeRate)

	_, err = checkout.NewConverter(builder.DefaultRate(), decimal.Zero)
	assert.ErrorIs(t, err, checkout.ErrInvalidAmount)

	rate, err := checkout.NewExchangeRate("v2", "VND", "USD", decimal.NewFromInt(25_000))
	require.NoError(t, err)
	assert.Equal(t, "vnd", rate.Local)
	assert.Equal(t, "usd", rate.Settlement)
}
