//go:build unit

package bridge_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tour-checkout/internal/domain/payment"
	"tour-checkout/internal/infra/memstore"
	"tour-checkout/internal/pkg/clock"
	"tour-checkout/internal/pkg/jwt"
	"tour-checkout/internal/usecase/bridge"
	"tour-checkout/tests/common/fakes"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSlot struct{}

func (failingSlot) Put(context.Context, string, []byte, time.Duration) error {
	return errors.New("redis down")
}

func (failingSlot) Take(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("redis down")
}

var now = time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

func newBridge(t *testing.T) (*bridge.Bridge, *memstore.Store) {
	t.Helper()
	store := memstore.New(clock.NewMockClock(now))
	return bridge.New(store, jwt.NewStateSealer("state-secret", clock.NewMockClock(now)), time.Hour), store
}

func record(t *testing.T, bookingID string, status payment.RecordStatus) payment.PendingRecord {
	t.Helper()
	rec, err := payment.NewPendingRecord(bookingID, status, now)
	require.NoError(t, err)
	return rec
}

func TestBridge_StashConsume(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip deletes before returning", func(t *testing.T) {
		b, _ := newBridge(t)
		carrier := &fakes.Carrier{}
		rec := record(t, "bk_1", payment.RecordPaid)

		require.NoError(t, b.Stash(ctx, "sid", carrier, rec))
		assert.True(t, carrier.Present)

		got, ok := b.Consume(ctx, "sid", carrier)
		require.True(t, ok)
		assert.Equal(t, rec, got)
		assert.True(t, carrier.Cleared)

		_, ok = b.Consume(ctx, "sid", carrier)
		assert.False(t, ok)
	})

	t.Run("single slot keeps the latest record", func(t *testing.T) {
		b, _ := newBridge(t)
		require.NoError(t, b.Stash(ctx, "sid", nil, record(t, "bk_1", payment.RecordPending)))
		require.NoError(t, b.Stash(ctx, "sid", nil, record(t, "bk_2", payment.RecordPaid)))

		got, ok := b.Consume(ctx, "sid", nil)
		require.True(t, ok)
		assert.Equal(t, "bk_2", got.BookingID)
	})

	t.Run("carrier fills in for an empty slot", func(t *testing.T) {
		b, _ := newBridge(t)
		carrier := &fakes.Carrier{}
		rec := record(t, "bk_1", payment.RecordPending)
		require.NoError(t, b.Stash(ctx, "sid", carrier, rec))

		other, _ := newBridge(t) // fresh store, same secret
		got, ok := other.Consume(ctx, "sid", carrier)
		require.True(t, ok)
		assert.Equal(t, rec, got)
	})

	t.Run("carrier from another session is discarded", func(t *testing.T) {
		b, _ := newBridge(t)
		carrier := &fakes.Carrier{}
		require.NoError(t, b.Stash(ctx, "sid-a", carrier, record(t, "bk_1", payment.RecordPaid)))

		_, ok := b.Consume(ctx, "sid-b", carrier)
		assert.False(t, ok)
		assert.True(t, carrier.Cleared)
	})

	t.Run("disagreeing payloads are both discarded", func(t *testing.T) {
		b, _ := newBridge(t)
		carrier := &fakes.Carrier{}
		require.NoError(t, b.Stash(ctx, "sid", carrier, record(t, "bk_1", payment.RecordPaid)))
		require.NoError(t, b.Stash(ctx, "sid", nil, record(t, "bk_2", payment.RecordPaid)))

		_, ok := b.Consume(ctx, "sid", carrier)
		assert.False(t, ok)

		_, ok = b.Consume(ctx, "sid", carrier)
		assert.False(t, ok)
	})

	t.Run("malformed slot content is discarded", func(t *testing.T) {
		b, store := newBridge(t)
		require.NoError(t, store.Put(ctx, "sid", []byte(`{"status":"maybe"}`), time.Hour))

		_, ok := b.Consume(ctx, "sid", nil)
		assert.False(t, ok)
	})

	t.Run("forged token is discarded", func(t *testing.T) {
		b, _ := newBridge(t)
		carrier := &fakes.Carrier{Token: "not-a-jwt", Present: true}

		_, ok := b.Consume(ctx, "sid", carrier)
		assert.False(t, ok)
	})

	t.Run("invalid record is not stashed", func(t *testing.T) {
		b, _ := newBridge(t)
		err := b.Stash(ctx, "sid", nil, payment.PendingRecord{Status: payment.RecordPaid})
		assert.ErrorIs(t, err, bridge.ErrStashFailed)
	})

	t.Run("slot outage surfaces on stash and falls back on consume", func(t *testing.T) {
		b := bridge.New(failingSlot{}, jwt.NewStateSealer("state-secret", clock.NewMockClock(now)), time.Hour)
		carrier := &fakes.Carrier{}
		err := b.Stash(ctx, "sid", carrier, record(t, "bk_1", payment.RecordPaid))
		assert.ErrorIs(t, err, bridge.ErrStashFailed)

		good, _ := newBridge(t)
		require.NoError(t, good.Stash(ctx, "sid", carrier, record(t, "bk_1", payment.RecordPaid)))
		got, ok := b.Consume(ctx, "sid", carrier)
		require.True(t, ok)
		assert.Equal(t, "bk_1", got.BookingID)
	})
}
