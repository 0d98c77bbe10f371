//go:build unit

package payment_test

import (
	"testing"
	"time"

	"tour-checkout/internal/domain/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPendingRecord(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("valid record keeps millisecond timestamp", func(t *testing.T) {
		rec, err := payment.NewPendingRecord(" bk_1 ", payment.RecordPaid, now)
		require.NoError(t, err)
		assert.Equal(t, "bk_1", rec.BookingID)
		assert.Equal(t, now.UnixMilli(), rec.Timestamp)
		assert.True(t, rec.CreatedAt().Equal(now))
	})

	t.Run("invalid inputs", func(t *testing.T) {
		_, err := payment.NewPendingRecord("", payment.RecordPaid, now)
		assert.ErrorIs(t, err, payment.ErrInvalidPendingRecord)

		_, err = payment.NewPendingRecord("bk_1", payment.RecordStatus("refunded"), now)
		assert.ErrorIs(t, err, payment.ErrInvalidPendingRecord)
	})
}

func TestPendingRecordIsStale(t *testing.T) {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rec, err := payment.NewPendingRecord("bk_1", payment.RecordPaid, created)
	require.NoError(t, err)
	window := 5 * time.Minute

	tests := []struct {
		name  string
		now   time.Time
		stale bool
	}{
		{name: "fresh", now: created.Add(time.Minute), stale: false},
		{name: "exactly at window", now: created.Add(window), stale: false},
		{name: "past window", now: created.Add(window + time.Millisecond), stale: true},
		{name: "far future timestamp", now: created.Add(-window - time.Second), stale: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.stale, rec.IsStale(tt.now, window))
		})
	}
}

func TestIntentIDFromSecret(t *testing.T) {
	id, err := payment.IntentIDFromSecret("pi_3Mtw_secret_YrKJUKribcBjcG8HVhfZluoGH")
	require.NoError(t, err)
	assert.Equal(t, "pi_3Mtw", id)

	for _, bad := range []string{"", "pi_123", "_secret_abc", "pi_123_secret_"} {
		_, err := payment.IntentIDFromSecret(bad)
		assert.ErrorIs(t, err, payment.ErrMalformedClientSecret, bad)
	}
}

func TestResolutionKey(t *testing.T) {
	assert.Equal(t, "booking:bk_1", payment.ResolutionKey("bk_1", "pi_1"))
	assert.Equal(t, "intent:pi_1", payment.ResolutionKey("", "pi_1"))
}
