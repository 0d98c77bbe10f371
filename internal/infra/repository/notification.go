package repository

import (
	"context"
	"time"

	"tour-checkout/internal/infra"
	"tour-checkout/internal/infra/sqlstore"
	"tour-checkout/internal/pkg/pgconv"
	"tour-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

type NotificationRepository struct {
	queries NotificationQueries
}

func NewNotificationRepository(queries NotificationQueries) *NotificationRepository {
	return &NotificationRepository{queries: queries}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, tx sqlstore.DBTX, job shared.NotificationJob) error {
	params := sqlstore.CreateNotificationJobParams{
		Kind:    job.Kind,
		Topic:   job.Topic,
		MsgKey:  job.Key,
		Payload: job.Payload,
		RunAt:   job.RunAt,
		Status:  shared.JobQueued,
	}

	if err := r.queries.CreateNotificationJob(ctx, tx, params); err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}

	return nil
}

// ClaimQueued locks due jobs for the rest of tx; other relays skip them.
func (r *NotificationRepository) ClaimQueued(ctx context.Context, tx sqlstore.DBTX, limit int) ([]shared.NotificationJob, error) {
	rows, err := r.queries.ClaimQueuedNotificationJobs(ctx, tx, int32(limit)) // #nosec G115 -- batch size from config
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}

	jobs := make([]shared.NotificationJob, 0, len(rows))
	for _, row := range rows {
		jobs = append(jobs, shared.NotificationJob{
			ID:       row.ID,
			Kind:     row.Kind,
			Topic:    row.Topic,
			Key:      row.MsgKey,
			Payload:  row.Payload,
			Attempts: int(row.Attempts),
			RunAt:    row.RunAt,
		})
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, tx sqlstore.DBTX, jobID uuid.UUID) error {
	params := sqlstore.UpdateNotificationJobStatusParams{
		ID:     jobID,
		Status: shared.JobSent,
		RunAt:  time.Now(),
	}
	if err := r.queries.UpdateNotificationJobStatus(ctx, tx, params); err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}
	return nil
}

// MarkFailed re-queues the job at retryAt, or fails it for good when nil.
func (r *NotificationRepository) MarkFailed(ctx context.Context, tx sqlstore.DBTX, jobID uuid.UUID, lastError string, retryAt *time.Time) error {
	params := sqlstore.UpdateNotificationJobStatusParams{
		ID:        jobID,
		Status:    shared.JobFailed,
		LastError: pgconv.StringToPgtype(lastError),
		RunAt:     time.Now(),
	}
	if retryAt != nil {
		params.Status = shared.JobQueued
		params.RunAt = *retryAt
	}

	if err := r.queries.UpdateNotificationJobStatus(ctx, tx, params); err != nil {
		return infra.WrapRepoErr("failed to update notification job status", err)
	}
	return nil
}
