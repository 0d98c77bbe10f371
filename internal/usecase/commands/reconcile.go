package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"time"

	"tour-checkout/internal/domain/checkout"
	"tour-checkout/internal/domain/payment"
	"tour-checkout/internal/infra"
	"tour-checkout/internal/pkg/clock"
	"tour-checkout/internal/pkg/config"
	"tour-checkout/internal/pkg/errs"
	"tour-checkout/internal/pkg/retry"
	"tour-checkout/internal/usecase/bridge"
	"tour-checkout/internal/usecase/shared"
)

//go:generate mockgen -source=reconcile.go -destination=../../../tests/mock/commands/reconcile.go -package=commandsmock

const OutcomeJobKind = "payment.resolved"

type ResolutionState string

const (
	ResolutionIdle     ResolutionState = "idle"
	ResolutionResolved ResolutionState = "resolved"
)

// ReconcileEntry is one (re)entry into the application after a payment
// attempt. IntentID and ClientSecret come from the gateway's return_url.
type ReconcileEntry struct {
	SessionID    string
	IntentID     string
	ClientSecret string
	Carrier      bridge.StateCarrier
}

func (e ReconcileEntry) hasQuery() bool {
	return e.ClientSecret != ""
}

type Resolution struct {
	State        ResolutionState
	Result       payment.Result
	BookingID    string
	Message      string
	RedirectPath string
}

type Reconciler interface {
	// Reconcile consumes whatever the entry carries and resolves it at most
	// once. Nothing to resolve, stale state and repeated entries are Idle.
	Reconcile(ctx context.Context, entry ReconcileEntry) (*Resolution, error)
	// Resolve records an outcome that is already known.
	Resolve(ctx context.Context, sessionID string, outcome payment.Outcome) (*Resolution, error)
}

type outcomeEvent struct {
	BookingID  string    `json:"bookingId"`
	IntentID   string    `json:"intentId,omitempty"`
	Result     string    `json:"result"`
	Message    string    `json:"message,omitempty"`
	Source     string    `json:"source"`
	ResolvedAt time.Time `json:"resolvedAt"`
}

type reconcilerImpl struct {
	bridge   *bridge.Bridge
	gateway  PaymentGateway
	bookings BookingService
	attempts AttemptStore
	uow      shared.UnitOfWork
	clock    clock.Clock
	policy   retry.Policy
	cfg      config.CheckoutConfig
	topic    string
}

func NewReconciler(
	pendingBridge *bridge.Bridge,
	gateway PaymentGateway,
	bookings BookingService,
	attempts AttemptStore,
	uow shared.UnitOfWork,
	clock clock.Clock,
	policy retry.Policy,
	cfg config.Config,
) Reconciler {
	return &reconcilerImpl{
		bridge:   pendingBridge,
		gateway:  gateway,
		bookings: bookings,
		attempts: attempts,
		uow:      uow,
		clock:    clock,
		policy:   policy,
		cfg:      cfg.Checkout,
		topic:    cfg.Kafka.OutcomeTopic,
	}
}

func (r *reconcilerImpl) Reconcile(ctx context.Context, entry ReconcileEntry) (*Resolution, error) {
	rec, hasRecord := r.bridge.Consume(ctx, entry.SessionID, entry.Carrier)

	if entry.hasQuery() {
		outcome, err := r.queryGateway(ctx, entry, rec, hasRecord)
		if err != nil {
			if hasRecord {
				r.restore(ctx, entry, rec)
			}
			return nil, err
		}
		if outcome == nil {
			return r.idle(), nil
		}
		return r.Resolve(ctx, entry.SessionID, *outcome)
	}

	if !hasRecord {
		return r.idle(), nil
	}
	if !rec.Status.IsTerminal() || rec.IsStale(r.clock.Now(), r.cfg.PendingRecordTTL) {
		slog.Info("discarding untrusted pending record",
			"session_id", entry.SessionID,
			"booking_id", rec.BookingID,
			"status", string(rec.Status))
		return r.idle(), nil
	}

	outcome := payment.Outcome{
		BookingID: rec.BookingID,
		IntentID:  r.intentForBooking(ctx, entry.SessionID, rec.BookingID),
		Result:    payment.ResultSuccess,
		Source:    payment.SourcePendingRecord,
	}
	if rec.Status == payment.RecordFailed {
		outcome.Result = payment.ResultFailure
		outcome.Message = userMessages["GatewayDeclined"]
	}
	return r.Resolve(ctx, entry.SessionID, outcome)
}

// queryGateway returns nil when the query parameters are unusable.
func (r *reconcilerImpl) queryGateway(ctx context.Context, entry ReconcileEntry, rec payment.PendingRecord, hasRecord bool) (*payment.Outcome, error) {
	secretIntent, err := payment.IntentIDFromSecret(entry.ClientSecret)
	if err != nil || (entry.IntentID != "" && entry.IntentID != secretIntent) {
		slog.Warn("ignoring malformed payment return parameters", "session_id", entry.SessionID, "payment_intent", entry.IntentID)
		return nil, nil
	}

	status, err := retry.DoValue(ctx, r.policy, retryable, func(ctx context.Context) (payment.IntentStatus, error) {
		return r.gateway.RetrieveStatus(ctx, entry.ClientSecret)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) || infra.IsKind(err, infra.KindRejected) {
			slog.Warn("payment return does not match a known intent", "session_id", entry.SessionID, "error", err)
			return nil, nil
		}
		return nil, translate(err)
	}

	bookingID := status.BookingID
	if bookingID == "" {
		bookingID = r.bookingForIntent(ctx, entry.SessionID, secretIntent)
	}
	if hasRecord {
		switch {
		case rec.IsStale(r.clock.Now(), r.cfg.PendingRecordTTL):
			slog.Info("ignoring stale pending record", "session_id", entry.SessionID, "record_booking_id", rec.BookingID)
		case bookingID == "":
			bookingID = rec.BookingID
		case rec.BookingID != bookingID:
			slog.Warn("pending record belongs to another booking, ignoring it",
				"record_booking_id", rec.BookingID,
				"intent_booking_id", bookingID)
		}
	}

	outcome := &payment.Outcome{
		BookingID: bookingID,
		IntentID:  secretIntent,
		Result:    payment.ResultFromStatus(status.Status),
		Source:    payment.SourceGatewayQuery,
	}
	if bookingID == "" {
		slog.Warn("resolving payment without a known booking", "session_id", entry.SessionID, "intent_id", secretIntent)
	}
	if outcome.Result == payment.ResultFailure {
		outcome.Message = "Your payment was not completed."
	}
	return outcome, nil
}

func (r *reconcilerImpl) Resolve(ctx context.Context, sessionID string, outcome payment.Outcome) (*Resolution, error) {
	now := r.clock.Now()
	outcome.Key = payment.ResolutionKey(outcome.BookingID, outcome.IntentID)
	outcome.ResolvedAt = now

	payload, err := json.Marshal(outcomeEvent{
		BookingID:  outcome.BookingID,
		IntentID:   outcome.IntentID,
		Result:     outcome.Result.String(),
		Message:    outcome.Message,
		Source:     string(outcome.Source),
		ResolvedAt: now,
	})
	if err != nil {
		return nil, errs.Wrap(err, "marshal outcome event")
	}

	var claimed bool
	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		claimed = false
		inserted, err := tx.Outcomes().Insert(ctx, tx.DB(), outcome)
		if err != nil || !inserted {
			return err
		}
		if err := tx.Notifications().CreateJob(ctx, tx.DB(), shared.NotificationJob{
			Kind:    OutcomeJobKind,
			Topic:   r.topic,
			Key:     outcome.Key,
			Payload: payload,
			RunAt:   now,
		}); err != nil {
			return err
		}
		claimed = true
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	if !claimed {
		slog.Info("payment outcome already resolved", "resolution_key", outcome.Key)
		return r.idle(), nil
	}

	slog.Info("payment outcome resolved",
		"resolution_key", outcome.Key,
		"result", outcome.Result.String(),
		"source", string(outcome.Source))

	if outcome.BookingID != "" {
		r.reportPaymentStatus(ctx, outcome.BookingID, outcome.Result)
	}
	r.finishAttempt(ctx, sessionID, outcome, now)

	return r.resolved(outcome), nil
}

func (r *reconcilerImpl) reportPaymentStatus(ctx context.Context, bookingID string, result payment.Result) {
	status := checkout.PaymentPaid
	if result == payment.ResultFailure {
		status = checkout.PaymentFailed
	}
	err := retry.Do(ctx, r.policy, retryable, func(ctx context.Context) error {
		return r.bookings.UpdatePaymentStatus(ctx, bookingID, status)
	})
	if err != nil {
		slog.Error("failed to report payment status",
			"booking_id", bookingID,
			"payment_status", status.String(),
			"error", err)
	}
}

func (r *reconcilerImpl) finishAttempt(ctx context.Context, sessionID string, outcome payment.Outcome, now time.Time) {
	attempt, err := r.attempts.GetAttempt(ctx, sessionID)
	if err != nil {
		if !infra.IsKind(err, infra.KindNotFound) {
			slog.Warn("failed to load checkout attempt", "session_id", sessionID, "error", err)
		}
		return
	}
	if !attempt.Owns(outcome.BookingID) {
		return
	}
	if err := attempt.Finish(outcome.Result, outcome.Message, now); err != nil {
		return
	}
	if err := r.attempts.SaveAttempt(ctx, attempt, r.cfg.AttemptTTL); err != nil {
		slog.Warn("failed to save checkout attempt", "session_id", sessionID, "error", err)
	}
}

// bookingForIntent looks the booking up on the session's attempt, which
// recorded the intent when the booking was created.
func (r *reconcilerImpl) bookingForIntent(ctx context.Context, sessionID, intentID string) string {
	attempt, err := r.attempts.GetAttempt(ctx, sessionID)
	if err != nil || attempt.IntentID == "" || attempt.IntentID != intentID {
		return ""
	}
	return attempt.BookingID
}

func (r *reconcilerImpl) intentForBooking(ctx context.Context, sessionID, bookingID string) string {
	attempt, err := r.attempts.GetAttempt(ctx, sessionID)
	if err != nil || !attempt.Owns(bookingID) {
		return ""
	}
	return attempt.IntentID
}

// restore puts a consumed record back so the entry can be retried.
func (r *reconcilerImpl) restore(ctx context.Context, entry ReconcileEntry, rec payment.PendingRecord) {
	if err := r.bridge.Stash(ctx, entry.SessionID, entry.Carrier, rec); err != nil {
		slog.Warn("failed to restore pending record", "session_id", entry.SessionID, "error", err)
	}
}

func (r *reconcilerImpl) idle() *Resolution {
	return &Resolution{State: ResolutionIdle, RedirectPath: r.cfg.IdlePath}
}

func (r *reconcilerImpl) resolved(outcome payment.Outcome) *Resolution {
	res := &Resolution{
		State:     ResolutionResolved,
		Result:    outcome.Result,
		BookingID: outcome.BookingID,
		Message:   outcome.Message,
	}
	if outcome.Result == payment.ResultSuccess {
		q := url.Values{}
		if outcome.BookingID != "" {
			q.Set("bookingId", outcome.BookingID)
		}
		res.RedirectPath = withQuery(r.cfg.SuccessPath, q)
	} else {
		res.RedirectPath = withQuery(r.cfg.FailurePath, url.Values{"message": {outcome.Message}})
	}
	return res
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
