package sqlstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const tryInsertIdempotencyKey = `
INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
VALUES ($1, $2, $3, $4, 'processing', $5)
ON CONFLICT (key, user_id) DO NOTHING
`

type TryInsertIdempotencyKeyParams struct {
	Key         uuid.UUID
	UserID      uuid.UUID
	Endpoint    string
	RequestHash string
	ExpiresAt   time.Time
}

// TryInsertIdempotencyKey returns the number of rows inserted (0 or 1).
func (q *Queries) TryInsertIdempotencyKey(ctx context.Context, db DBTX, arg TryInsertIdempotencyKeyParams) (int64, error) {
	tag, err := db.Exec(ctx, tryInsertIdempotencyKey, arg.Key, arg.UserID, arg.Endpoint, arg.RequestHash, arg.ExpiresAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getIdempotencyKey = `
SELECT key, user_id, endpoint, request_hash, status, response_body, result_booking_id, created_at, expires_at
FROM idempotency_keys
WHERE key = $1 AND user_id = $2
`

type GetIdempotencyKeyParams struct {
	Key    uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) GetIdempotencyKey(ctx context.Context, db DBTX, arg GetIdempotencyKeyParams) (IdempotencyKeys, error) {
	row := db.QueryRow(ctx, getIdempotencyKey, arg.Key, arg.UserID)
	var i IdempotencyKeys
	err := row.Scan(
		&i.Key,
		&i.UserID,
		&i.Endpoint,
		&i.RequestHash,
		&i.Status,
		&i.ResponseBody,
		&i.ResultBookingID,
		&i.CreatedAt,
		&i.ExpiresAt,
	)
	return i, err
}

const updateIdempotencyKeyCompleted = `
UPDATE idempotency_keys
SET status = 'completed', response_body = $3, result_booking_id = $4
WHERE key = $1 AND user_id = $2 AND status = 'processing'
`

type UpdateIdempotencyKeyCompletedParams struct {
	Key             uuid.UUID
	UserID          uuid.UUID
	ResponseBody    []byte
	ResultBookingID pgtype.Text
}

func (q *Queries) UpdateIdempotencyKeyCompleted(ctx context.Context, db DBTX, arg UpdateIdempotencyKeyCompletedParams) error {
	_, err := db.Exec(ctx, updateIdempotencyKeyCompleted, arg.Key, arg.UserID, arg.ResponseBody, arg.ResultBookingID)
	return err
}

const deleteIdempotencyKey = `
DELETE FROM idempotency_keys
WHERE key = $1 AND user_id = $2 AND status = 'processing'
`

type DeleteIdempotencyKeyParams struct {
	Key    uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) DeleteIdempotencyKey(ctx context.Context, db DBTX, arg DeleteIdempotencyKeyParams) error {
	_, err := db.Exec(ctx, deleteIdempotencyKey, arg.Key, arg.UserID)
	return err
}

const deleteExpiredIdempotencyKeys = `
DELETE FROM idempotency_keys WHERE expires_at < now()
`

func (q *Queries) DeleteExpiredIdempotencyKeys(ctx context.Context, db DBTX) (int64, error) {
	tag, err := db.Exec(ctx, deleteExpiredIdempotencyKeys)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
