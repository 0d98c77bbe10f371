package repository

import (
	"context"

	"tour-checkout/internal/domain/payment"
	"tour-checkout/internal/infra"
	"tour-checkout/internal/infra/sqlstore"
)

// OutcomeRepository is the ledger of resolved payments. The primary key on
// resolution_key and the unique booking and intent ids are what make a
// resolution happen once.
type OutcomeRepository struct {
	queries OutcomeQueries
}

func NewOutcomeRepository(queries OutcomeQueries) *OutcomeRepository {
	return &OutcomeRepository{queries: queries}
}

func (r *OutcomeRepository) Insert(ctx context.Context, tx sqlstore.DBTX, o payment.Outcome) (bool, error) {
	params := sqlstore.InsertPaymentOutcomeParams{
		ResolutionKey: o.Key,
		BookingID:     o.BookingID,
		IntentID:      o.IntentID,
		Result:        o.Result.String(),
		Message:       o.Message,
		Source:        string(o.Source),
		ResolvedAt:    o.ResolvedAt,
	}

	n, err := r.queries.InsertPaymentOutcome(ctx, tx, params)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert payment outcome", err)
	}
	return n == 1, nil
}

func (r *OutcomeRepository) FindByKey(ctx context.Context, tx sqlstore.DBTX, key string) (*payment.Outcome, error) {
	row, err := r.queries.GetPaymentOutcome(ctx, tx, key)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find payment outcome", err)
	}

	return &payment.Outcome{
		Key:        row.ResolutionKey,
		BookingID:  row.BookingID,
		IntentID:   row.IntentID,
		Result:     payment.Result(row.Result),
		Message:    row.Message,
		Source:     payment.Source(row.Source),
		ResolvedAt: row.ResolvedAt,
	}, nil
}
