package shared

import (
	"context"
	"time"

	"tour-checkout/internal/domain/payment"
	"tour-checkout/internal/infra/sqlstore"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

type Tx interface {
	Outcomes() OutcomeRepository
	Notifications() NotificationRepository
	DB() sqlstore.DBTX
}

type OutcomeRepository interface {
	// Insert reports false when the outcome's resolution key already exists.
	Insert(ctx context.Context, tx sqlstore.DBTX, outcome payment.Outcome) (bool, error)
	FindByKey(ctx context.Context, tx sqlstore.DBTX, key string) (*payment.Outcome, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx sqlstore.DBTX, job NotificationJob) error
	ClaimQueued(ctx context.Context, tx sqlstore.DBTX, limit int) ([]NotificationJob, error)
	MarkSent(ctx context.Context, tx sqlstore.DBTX, jobID uuid.UUID) error
	MarkFailed(ctx context.Context, tx sqlstore.DBTX, jobID uuid.UUID, lastError string, retryAt *time.Time) error
}
