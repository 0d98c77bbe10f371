package payment

import (
	"errors"
	"strings"
	"time"
)

var ErrInvalidPendingRecord = errors.New("invalid pending payment record")

// RecordStatus is the outcome a PendingRecord declares.
type RecordStatus string

const (
	RecordPaid   RecordStatus = "paid"
	RecordFailed RecordStatus = "failed"
	// RecordPending is written before a redirect challenge; it only carries the
	// booking id across the navigation and is never trusted as an outcome.
	RecordPending RecordStatus = "pending"
)

func (s RecordStatus) IsValid() bool {
	switch s {
	case RecordPaid, RecordFailed, RecordPending:
		return true
	default:
		return false
	}
}

func (s RecordStatus) IsTerminal() bool {
	return s == RecordPaid || s == RecordFailed
}

// PendingRecord is the single-slot mailbox message that survives a full
// navigation away from the application. JSON shape is the storage contract.
type PendingRecord struct {
	Status    RecordStatus `json:"status"`
	BookingID string       `json:"bookingId"`
	Timestamp int64        `json:"timestamp"` // unix millis
}

func NewPendingRecord(bookingID string, status RecordStatus, now time.Time) (PendingRecord, error) {
	rec := PendingRecord{
		Status:    status,
		BookingID: strings.TrimSpace(bookingID),
		Timestamp: now.UnixMilli(),
	}
	if err := rec.Validate(); err != nil {
		return PendingRecord{}, err
	}
	return rec, nil
}

func (r PendingRecord) Validate() error {
	if r.BookingID == "" || !r.Status.IsValid() || r.Timestamp <= 0 {
		return ErrInvalidPendingRecord
	}
	return nil
}

func (r PendingRecord) CreatedAt() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// IsStale is true past the trust window, and for timestamps further in the
// future than the window (clock skew or tampering).
func (r PendingRecord) IsStale(now time.Time, window time.Duration) bool {
	age := now.Sub(r.CreatedAt())
	return age > window || age < -window
}

func (r PendingRecord) Equal(other PendingRecord) bool {
	return r.BookingID == other.BookingID && r.Status == other.Status && r.Timestamp == other.Timestamp
}
