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

type IdempotencyRepository struct {
	queries IdempotencyQueries
	db      sqlstore.DBTX
}

func NewIdempotencyRepository(queries IdempotencyQueries, db sqlstore.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{
		queries: queries,
		db:      db,
	}
}

// TryInsert reports whether this call claimed the key.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	params := sqlstore.TryInsertIdempotencyKeyParams{
		Key:         key,
		UserID:      userID,
		Endpoint:    endpoint,
		RequestHash: requestHash,
		ExpiresAt:   expiresAt,
	}

	n, err := r.queries.TryInsertIdempotencyKey(ctx, r.db, params)
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}

	return n == 1, nil
}

func (r *IdempotencyRepository) Get(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	row, err := r.queries.GetIdempotencyKey(ctx, r.db, sqlstore.GetIdempotencyKeyParams{Key: key, UserID: userID})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}

	return &shared.IdempotencyRecord{
		Key:             row.Key,
		UserID:          row.UserID,
		Endpoint:        row.Endpoint,
		Status:          row.Status,
		RequestHash:     row.RequestHash,
		Response:        row.ResponseBody,
		ResultBookingID: pgconv.StringFromPgtype(row.ResultBookingID),
		ExpiresAt:       row.ExpiresAt,
	}, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, key, userID uuid.UUID, response []byte, bookingID string) error {
	params := sqlstore.UpdateIdempotencyKeyCompletedParams{
		Key:             key,
		UserID:          userID,
		ResponseBody:    response,
		ResultBookingID: pgconv.NonEmptyStringToPgtype(bookingID),
	}

	if err := r.queries.UpdateIdempotencyKeyCompleted(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}

	return nil
}

// Release drops a key still in processing so the client may retry with it.
func (r *IdempotencyRepository) Release(ctx context.Context, key, userID uuid.UUID) error {
	if err := r.queries.DeleteIdempotencyKey(ctx, r.db, sqlstore.DeleteIdempotencyKeyParams{Key: key, UserID: userID}); err != nil {
		return infra.WrapRepoErr("failed to release idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	count, err := r.queries.DeleteExpiredIdempotencyKeys(ctx, r.db)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}

	return count, nil
}
