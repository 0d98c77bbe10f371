package commands

import (
	"context"
	"time"

	"tour-checkout/internal/domain/checkout"
	"tour-checkout/internal/domain/payment"
	"tour-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/commands/ports.go -package=commandsmock

type TourCatalog interface {
	GetTour(ctx context.Context, tourID string) (checkout.Tour, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, req BookingRequest) (BookingCreated, error)
	UpdatePaymentStatus(ctx context.Context, bookingID string, status checkout.PaymentStatus) error
	RemoveSavedTour(ctx context.Context, tourID string) error
}

// BookingRequest is what the booking service needs to create a pending booking.
// IdempotencyKey makes a retried create return the same booking.
type BookingRequest struct {
	IdempotencyKey  uuid.UUID
	TourID          string
	UserID          uuid.UUID
	StartDate       time.Time
	EndDate         time.Time
	PartySize       int
	PaymentMethod   checkout.PaymentMethod
	TotalSettlement decimal.Decimal
	Currency        string
}

type BookingCreated struct {
	Booking checkout.Booking
	// ClientSecret is set when the booking service already created the intent.
	ClientSecret string
}

// PaymentGateway is the only component that talks to the payment gateway.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, req IntentRequest) (payment.Intent, error)
	ConfirmInline(ctx context.Context, clientSecret string, card CardInput) (payment.TerminalStatus, error)
	ConfirmRedirect(ctx context.Context, clientSecret string, in RedirectInput) (string, error)
	RetrieveStatus(ctx context.Context, clientSecret string) (payment.IntentStatus, error)
}

type IntentRequest struct {
	BookingID string
	UserID    uuid.UUID
	Amount    int64 // minor units
	Currency  string
	Method    checkout.PaymentMethod
}

type CardInput struct {
	PaymentMethodID string
}

type RedirectInput struct {
	PaymentMethodID string
	ReturnURL       string
}

type AttemptStore interface {
	GetAttempt(ctx context.Context, sessionID string) (*checkout.Attempt, error)
	SaveAttempt(ctx context.Context, a *checkout.Attempt, ttl time.Duration) error
	DeleteAttempt(ctx context.Context, sessionID string) error
}

type SubmissionLock interface {
	Acquire(ctx context.Context, sessionID string, ttl time.Duration) (string, bool, error)
	Release(ctx context.Context, sessionID, token string) error
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error)
	Complete(ctx context.Context, key, userID uuid.UUID, response []byte, bookingID string) error
	Release(ctx context.Context, key, userID uuid.UUID) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
}
