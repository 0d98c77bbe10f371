// Package bridge carries the pending-payment record across a full navigation
// away from the application: one slot per checkout session in the store,
// mirrored in a signed cookie.
package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"tour-checkout/internal/domain/payment"
	"tour-checkout/internal/pkg/errs"
)

var ErrStashFailed = errs.New("failed to stash pending payment record")

type Slot interface {
	Put(ctx context.Context, sessionID string, data []byte, ttl time.Duration) error
	// Take deletes the slot and returns what it held.
	Take(ctx context.Context, sessionID string) ([]byte, bool, error)
}

type Sealer interface {
	Seal(sessionID string, rec payment.PendingRecord, ttl time.Duration) (string, error)
	Open(sessionID, token string) (payment.PendingRecord, error)
}

// StateCarrier is the per-request mirror of the slot (a cookie in HTTP).
type StateCarrier interface {
	Load() (string, bool)
	Store(token string, maxAge time.Duration)
	Clear()
}

type Bridge struct {
	slot      Slot
	sealer    Sealer
	retention time.Duration
}

func New(slot Slot, sealer Sealer, retention time.Duration) *Bridge {
	return &Bridge{slot: slot, sealer: sealer, retention: retention}
}

// Stash overwrites the session's slot and, when a carrier is given, its
// mirrored state.
func (b *Bridge) Stash(ctx context.Context, sessionID string, carrier StateCarrier, rec payment.PendingRecord) error {
	if err := rec.Validate(); err != nil {
		return errs.Mark(err, ErrStashFailed)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return errs.Mark(errs.Wrap(err, "marshal pending record"), ErrStashFailed)
	}
	if err := b.slot.Put(ctx, sessionID, data, b.retention); err != nil {
		return errs.Mark(err, ErrStashFailed)
	}

	if carrier != nil {
		token, err := b.sealer.Seal(sessionID, rec, b.retention)
		if err != nil {
			slog.Warn("failed to seal pending record", "booking_id", rec.BookingID, "error", err)
			return nil
		}
		carrier.Store(token, b.retention)
	}
	return nil
}

// Consume deletes the record before returning it, so a second entry finds
// nothing. The carrier is used when the slot is empty; when both hold a
// record and they disagree, neither is trusted.
func (b *Bridge) Consume(ctx context.Context, sessionID string, carrier StateCarrier) (payment.PendingRecord, bool) {
	fromSlot, inSlot := b.takeSlot(ctx, sessionID)
	fromCarrier, inCarrier := b.takeCarrier(sessionID, carrier)

	switch {
	case inSlot && inCarrier:
		if !fromSlot.Equal(fromCarrier) {
			slog.Warn("pending record mismatch, discarding",
				"session_id", sessionID,
				"slot_booking_id", fromSlot.BookingID,
				"carrier_booking_id", fromCarrier.BookingID)
			return payment.PendingRecord{}, false
		}
		return fromSlot, true
	case inSlot:
		return fromSlot, true
	case inCarrier:
		return fromCarrier, true
	default:
		return payment.PendingRecord{}, false
	}
}

func (b *Bridge) takeSlot(ctx context.Context, sessionID string) (payment.PendingRecord, bool) {
	data, ok, err := b.slot.Take(ctx, sessionID)
	if err != nil {
		slog.Warn("failed to read pending record slot", "session_id", sessionID, "error", err)
		return payment.PendingRecord{}, false
	}
	if !ok {
		return payment.PendingRecord{}, false
	}

	var rec payment.PendingRecord
	if err := json.Unmarshal(data, &rec); err != nil || rec.Validate() != nil {
		slog.Warn("discarding malformed pending record", "session_id", sessionID)
		return payment.PendingRecord{}, false
	}
	return rec, true
}

func (b *Bridge) takeCarrier(sessionID string, carrier StateCarrier) (payment.PendingRecord, bool) {
	if carrier == nil {
		return payment.PendingRecord{}, false
	}
	token, ok := carrier.Load()
	if !ok {
		return payment.PendingRecord{}, false
	}
	carrier.Clear()

	rec, err := b.sealer.Open(sessionID, token)
	if err != nil {
		slog.Warn("discarding unverifiable pending record", "session_id", sessionID, "error", err)
		return payment.PendingRecord{}, false
	}
	return rec, true
}
