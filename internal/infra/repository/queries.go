package repository

import (
	"context"

	"tour-checkout/internal/infra/sqlstore"
)

//go:generate mockgen -source=queries.go -destination=../../../tests/mock/repository/queries.go -package=repositorymock

type IdempotencyQueries interface {
	TryInsertIdempotencyKey(ctx context.Context, db sqlstore.DBTX, arg sqlstore.TryInsertIdempotencyKeyParams) (int64, error)
	GetIdempotencyKey(ctx context.Context, db sqlstore.DBTX, arg sqlstore.GetIdempotencyKeyParams) (sqlstore.IdempotencyKeys, error)
	UpdateIdempotencyKeyCompleted(ctx context.Context, db sqlstore.DBTX, arg sqlstore.UpdateIdempotencyKeyCompletedParams) error
	DeleteIdempotencyKey(ctx context.Context, db sqlstore.DBTX, arg sqlstore.DeleteIdempotencyKeyParams) error
	DeleteExpiredIdempotencyKeys(ctx context.Context, db sqlstore.DBTX) (int64, error)
}

type OutcomeQueries interface {
	InsertPaymentOutcome(ctx context.Context, db sqlstore.DBTX, arg sqlstore.InsertPaymentOutcomeParams) (int64, error)
	GetPaymentOutcome(ctx context.Context, db sqlstore.DBTX, resolutionKey string) (sqlstore.PaymentOutcomes, error)
}

type NotificationQueries interface {
	CreateNotificationJob(ctx context.Context, db sqlstore.DBTX, arg sqlstore.CreateNotificationJobParams) error
	ClaimQueuedNotificationJobs(ctx context.Context, db sqlstore.DBTX, limit int32) ([]sqlstore.NotificationJobs, error)
	UpdateNotificationJobStatus(ctx context.Context, db sqlstore.DBTX, arg sqlstore.UpdateNotificationJobStatusParams) error
}
