package checkout

import (
	"time"

	"github.com/google/uuid"
)

// Booking is owned by the booking service; this service only creates it and
// reports payment outcomes for it.
type Booking struct {
	ID            string
	TourID        string
	UserID        uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	PartySize     int
	Status        BookingStatus
	PaymentStatus PaymentStatus
}

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	default:
		return false
	}
}

func (s PaymentStatus) String() string {
	return string(s)
}
