package shared

import (
	"time"

	"github.com/google/uuid"
)

const (
	IdempotencyProcessing = "processing"
	IdempotencyCompleted  = "completed"
)

type IdempotencyRecord struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	Endpoint        string
	Status          string
	RequestHash     string
	Response        []byte
	ResultBookingID string
	ExpiresAt       time.Time
}

const (
	JobQueued = "queued"
	JobSent   = "sent"
	JobFailed = "failed"
)

// NotificationJob is an outbox row; Key becomes the Kafka message key.
type NotificationJob struct {
	ID       uuid.UUID
	Kind     string
	Topic    string
	Key      string
	Payload  []byte
	Attempts int
	RunAt    time.Time
}
