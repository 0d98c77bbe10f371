//go:build unit

package checkout_test

import (
	"testing"
	"time"

	"tour-checkout/internal/domain/checkout"
	"tour-checkout/internal/pkg/clock"
	"tour-checkout/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftBuilder() *checkout.DraftBuilder {
	return checkout.NewDraftBuilder(clock.NewMockClock(builder.Today), builder.NewConverter())
}

func TestDraftBuilder_Build(t *testing.T) {
	t.Run("valid card draft", func(t *testing.T) {
		b := builder.NewCheckoutBuilder()

		draft, err := b.BuildDraft(newDraftBuilder())

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, draft.Key)
		assert.Equal(t, b.TourID, draft.TourID)
		assert.Equal(t, b.UserID, draft.UserID)
		assert.Equal(t, "2026-06-01", checkout.FormatDate(draft.StartDate))
		assert.Equal(t, "2026-06-04", checkout.FormatDate(draft.EndDate))
		assert.Equal(t, 2, draft.PartySize)
		assert.Equal(t, checkout.MethodCard, draft.PaymentMethod)
		assert.Equal(t, checkout.ModeInline, draft.Mode())
		assert.Equal(t, "244.90", draft.Totals.Settlement.StringFixed(2))
	})

	t.Run("redirect method", func(t *testing.T) {
		draft, err := builder.NewCheckoutBuilder().WithPaymentMethod("iDEAL").BuildDraft(newDraftBuilder())

		require.NoError(t, err)
		assert.Equal(t, checkout.MethodIDEAL, draft.PaymentMethod)
		assert.Equal(t, checkout.ModeRedirect, draft.Mode())
	})

	t.Run("start date today is accepted", func(t *testing.T) {
		_, err := builder.NewCheckoutBuilder().WithStartDate("2026-05-10").BuildDraft(newDraftBuilder())
		assert.NoError(t, err)
	})

	t.Run("every build gets a fresh key", func(t *testing.T) {
		db := newDraftBuilder()
		first, err := builder.NewCheckoutBuilder().BuildDraft(db)
		require.NoError(t, err)
		second, err := builder.NewCheckoutBuilder().BuildDraft(db)
		require.NoError(t, err)
		assert.NotEqual(t, first.Key, second.Key)
	})

	errCases := []struct {
		name    string
		mutate  func(*builder.CheckoutBuilder)
		wantErr error
	}{
		{
			name:    "past start date",
			mutate:  func(b *builder.CheckoutBuilder) { b.StartDate = "2026-05-09" },
			wantErr: checkout.ErrInvalidDate,
		},
		{
			name:    "malformed start date",
			mutate:  func(b *builder.CheckoutBuilder) { b.StartDate = "06/01/2026" },
			wantErr: checkout.ErrInvalidDate,
		},
		{
			name:    "end date overflows",
			mutate:  func(b *builder.CheckoutBuilder) { b.StartDate = "9999-12-30" },
			wantErr: checkout.ErrInvalidDate,
		},
		{
			name:    "zero party size",
			mutate:  func(b *builder.CheckoutBuilder) { b.PartySize = 0 },
			wantErr: checkout.ErrPartySizeOutOfRange,
		},
		{
			name:    "party larger than remaining seats",
			mutate:  func(b *builder.CheckoutBuilder) { b.PartySize = 7 },
			wantErr: checkout.ErrPartySizeOutOfRange,
		},
		{
			name: "party larger than max people",
			mutate: func(b *builder.CheckoutBuilder) {
				b.RemainingSeats = 50
				b.PartySize = 11
			},
			wantErr: checkout.ErrPartySizeOutOfRange,
		},
		{
			name:    "unsupported method",
			mutate:  func(b *builder.CheckoutBuilder) { b.PaymentMethod = "paypal" },
			wantErr: checkout.ErrUnsupportedPaymentMethod,
		},
		{
			name: "amount above gateway ceiling",
			mutate: func(b *builder.CheckoutBuilder) {
				b.WithPrice(30_000_000_000).WithPartySize(1)
			},
			wantErr: checkout.ErrAmountExceedsGatewayLimit,
		},
		{
			name:    "missing tour id",
			mutate:  func(b *builder.CheckoutBuilder) { b.TourID = "" },
			wantErr: checkout.ErrInvalidTour,
		},
		{
			name: "date checked before party size",
			mutate: func(b *builder.CheckoutBuilder) {
				b.StartDate = "2020-01-01"
				b.PartySize = 0
			},
			wantErr: checkout.ErrInvalidDate,
		},
	}

	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			draft, err := builder.NewCheckoutBuilder().With(tc.mutate).BuildDraft(newDraftBuilder())

			assert.Nil(t, draft)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestParseDate(t *testing.T) {
	d, err := checkout.ParseDate(" 2026-07-15 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = checkout.ParseDate("2026-02-30")
	assert.ErrorIs(t, err, checkout.ErrInvalidDate)
}
