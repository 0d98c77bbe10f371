package sqlstore

import (
	"context"
	"time"
)

const insertPaymentOutcome = `
INSERT INTO payment_outcomes (resolution_key, booking_id, intent_id, result, message, source, resolved_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT DO NOTHING
`

type InsertPaymentOutcomeParams struct {
	ResolutionKey string
	BookingID     string
	IntentID      string
	Result        string
	Message       string
	Source        string
	ResolvedAt    time.Time
}

// InsertPaymentOutcome returns 0 when the resolution key, the booking id or
// the intent id was already recorded.
func (q *Queries) InsertPaymentOutcome(ctx context.Context, db DBTX, arg InsertPaymentOutcomeParams) (int64, error) {
	tag, err := db.Exec(ctx, insertPaymentOutcome,
		arg.ResolutionKey,
		arg.BookingID,
		arg.IntentID,
		arg.Result,
		arg.Message,
		arg.Source,
		arg.ResolvedAt,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getPaymentOutcome = `
SELECT resolution_key, booking_id, intent_id, result, message, source, resolved_at
FROM payment_outcomes
WHERE resolution_key = $1
`

func (q *Queries) GetPaymentOutcome(ctx context.Context, db DBTX, resolutionKey string) (PaymentOutcomes, error) {
	row := db.QueryRow(ctx, getPaymentOutcome, resolutionKey)
	var i PaymentOutcomes
	err := row.Scan(
		&i.ResolutionKey,
		&i.BookingID,
		&i.IntentID,
		&i.Result,
		&i.Message,
		&i.Source,
		&i.ResolvedAt,
	)
	return i, err
}
