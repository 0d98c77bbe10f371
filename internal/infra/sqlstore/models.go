package sqlstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyKeys struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	Endpoint        string
	RequestHash     string
	Status          string
	ResponseBody    []byte
	ResultBookingID pgtype.Text
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

type PaymentOutcomes struct {
	ResolutionKey string
	BookingID     string
	IntentID      string
	Result        string
	Message       string
	Source        string
	ResolvedAt    time.Time
}

type NotificationJobs struct {
	ID        uuid.UUID
	Kind      string
	Topic     string
	MsgKey    string
	Payload   []byte
	Status    string
	Attempts  int32
	LastError pgtype.Text
	RunAt     time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
