package sqlstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createNotificationJob = `
INSERT INTO notification_jobs (kind, topic, msg_key, payload, run_at, status)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreateNotificationJobParams struct {
	Kind    string
	Topic   string
	MsgKey  string
	Payload []byte
	RunAt   time.Time
	Status  string
}

func (q *Queries) CreateNotificationJob(ctx context.Context, db DBTX, arg CreateNotificationJobParams) error {
	_, err := db.Exec(ctx, createNotificationJob, arg.Kind, arg.Topic, arg.MsgKey, arg.Payload, arg.RunAt, arg.Status)
	return err
}

const claimQueuedNotificationJobs = `
SELECT id, kind, topic, msg_key, payload, status, attempts, last_error, run_at, created_at, updated_at
FROM notification_jobs
WHERE status = 'queued' AND run_at <= now()
ORDER BY run_at
LIMIT $1
FOR UPDATE SKIP LOCKED
`

func (q *Queries) ClaimQueuedNotificationJobs(ctx context.Context, db DBTX, limit int32) ([]NotificationJobs, error) {
	rows, err := db.Query(ctx, claimQueuedNotificationJobs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []NotificationJobs
	for rows.Next() {
		var i NotificationJobs
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.Topic,
			&i.MsgKey,
			&i.Payload,
			&i.Status,
			&i.Attempts,
			&i.LastError,
			&i.RunAt,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateNotificationJobStatus = `
UPDATE notification_jobs
SET status = $2, last_error = $3, attempts = attempts + 1, run_at = $4, updated_at = now()
WHERE id = $1
`

type UpdateNotificationJobStatusParams struct {
	ID        uuid.UUID
	Status    string
	LastError pgtype.Text
	RunAt     time.Time
}

func (q *Queries) UpdateNotificationJobStatus(ctx context.Context, db DBTX, arg UpdateNotificationJobStatusParams) error {
	_, err := db.Exec(ctx, updateNotificationJobStatus, arg.ID, arg.Status, arg.LastError, arg.RunAt)
	return err
}
