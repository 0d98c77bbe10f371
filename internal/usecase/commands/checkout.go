package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
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

	"github.com/google/uuid"
)

//go:generate mockgen -source=checkout.go -destination=../../../tests/mock/commands/checkout.go -package=commandsmock

const submitEndpoint = "POST /api/checkout"

// submitCalls is the number of retried downstream calls one submission makes:
// tour lookup, booking creation and intent creation.
const submitCalls = 3

// SubmissionWindow is how long a submission may hold the session: the
// configured lock TTL, raised to cover every submit call retried to
// exhaustion.
func SubmissionWindow(policy retry.Policy, cfg config.Config) time.Duration {
	worst := submitCalls * policy.Budget(cfg.Services.RequestTimeout)
	return max(cfg.Checkout.SubmitLockTTL, worst)
}

type QuoteInput struct {
	TourID    string
	PartySize int
}

type QuoteResult struct {
	Tour   checkout.Tour
	Totals checkout.Totals
}

type SubmitInput struct {
	SessionID      string
	UserID         uuid.UUID
	TourID         string
	StartDate      string
	PartySize      int
	PaymentMethod  string
	IdempotencyKey *uuid.UUID
}

// SubmitResult is also the stored idempotent response, so it must never
// carry the client secret.
type SubmitResult struct {
	BookingID     string                    `json:"bookingId"`
	State         checkout.State            `json:"state"`
	Mode          checkout.ConfirmationMode `json:"mode"`
	PaymentMethod checkout.PaymentMethod    `json:"paymentMethod"`
	StartDate     string                    `json:"startDate"`
	EndDate       string                    `json:"endDate"`
	PartySize     int                       `json:"partySize"`
	TotalLocal    string                    `json:"totalLocal"`
	TotalSettle   string                    `json:"totalSettlement"`
	Currency      string                    `json:"currency"`
	RateVersion   string                    `json:"rateVersion"`
	IsReplayed    bool                      `json:"-"`
}

type ConfirmInput struct {
	SessionID       string
	BookingID       string
	PaymentMethodID string
	Carrier         bridge.StateCarrier
}

type ConfirmResult struct {
	Attempt     *checkout.Attempt
	RedirectURL string
	Resolution  *Resolution
}

type CheckoutCommands interface {
	Quote(ctx context.Context, in QuoteInput) (*QuoteResult, error)
	Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error)
	ConfirmInline(ctx context.Context, in ConfirmInput) (*ConfirmResult, error)
	ConfirmRedirect(ctx context.Context, in ConfirmInput) (*ConfirmResult, error)
	Current(ctx context.Context, sessionID string, userID uuid.UUID) (*checkout.Attempt, error)
	Abandon(ctx context.Context, sessionID string) error
}

type checkoutUseCaseImpl struct {
	tours       TourCatalog
	bookings    BookingService
	gateway     PaymentGateway
	attempts    AttemptStore
	lock        SubmissionLock
	idempotency IdempotencyRepository
	bridge      *bridge.Bridge
	reconciler  Reconciler
	drafts      *checkout.DraftBuilder
	clock       clock.Clock
	policy      retry.Policy
	window      time.Duration
	cfg         config.CheckoutConfig
}

func NewCheckoutUseCase(
	tours TourCatalog,
	bookings BookingService,
	gateway PaymentGateway,
	attempts AttemptStore,
	lock SubmissionLock,
	idempotency IdempotencyRepository,
	pendingBridge *bridge.Bridge,
	reconciler Reconciler,
	drafts *checkout.DraftBuilder,
	clock clock.Clock,
	policy retry.Policy,
	cfg config.Config,
) CheckoutCommands {
	return &checkoutUseCaseImpl{
		tours:       tours,
		bookings:    bookings,
		gateway:     gateway,
		attempts:    attempts,
		lock:        lock,
		idempotency: idempotency,
		bridge:      pendingBridge,
		reconciler:  reconciler,
		drafts:      drafts,
		clock:       clock,
		policy:      policy,
		window:      SubmissionWindow(policy, cfg),
		cfg:         cfg.Checkout,
	}
}

func (u *checkoutUseCaseImpl) Quote(ctx context.Context, in QuoteInput) (*QuoteResult, error) {
	tour, err := u.fetchTour(ctx, in.TourID)
	if err != nil {
		return nil, err
	}
	totals, err := u.drafts.Converter.Convert(tour.Price, in.PartySize)
	if err != nil {
		return nil, err
	}
	return &QuoteResult{Tour: tour, Totals: totals}, nil
}

// Submit creates the booking and its payment intent. Only one submission per
// session runs at a time; a replayed idempotency key returns the first result.
func (u *checkoutUseCaseImpl) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	release, err := u.acquire(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	if in.IdempotencyKey == nil {
		return u.submit(ctx, in)
	}

	requestHash := calculateRequestHash(in)
	replay, err := u.handleIdempotency(ctx, in, requestHash)
	if err != nil || replay != nil {
		return replay, err
	}

	result, err := u.submit(ctx, in)
	if err != nil {
		if rerr := u.idempotency.Release(context.WithoutCancel(ctx), *in.IdempotencyKey, in.UserID); rerr != nil {
			slog.Warn("failed to release idempotency key", "key", in.IdempotencyKey.String(), "error", rerr)
		}
		return nil, err
	}

	body, err := json.Marshal(result)
	if err == nil {
		err = u.idempotency.Complete(ctx, *in.IdempotencyKey, in.UserID, body, result.BookingID)
	}
	if err != nil {
		// the booking exists; a replay will be refused as in-flight until expiry
		slog.Error("failed to complete idempotency key", "key", in.IdempotencyKey.String(), "error", err)
	}
	return result, nil
}

func (u *checkoutUseCaseImpl) handleIdempotency(ctx context.Context, in SubmitInput, requestHash string) (*SubmitResult, error) {
	key := *in.IdempotencyKey
	expiresAt := u.clock.Now().Add(u.cfg.IdempotencyTTL)

	inserted, err := u.idempotency.TryInsert(ctx, key, in.UserID, submitEndpoint, requestHash, expiresAt)
	if err != nil {
		return nil, translate(err)
	}
	if inserted {
		return nil, nil
	}

	existing, err := u.idempotency.Get(ctx, key, in.UserID)
	if err != nil {
		return nil, translate(err)
	}
	if existing.RequestHash != requestHash || existing.Endpoint != submitEndpoint {
		return nil, ErrIdempotencyConflict
	}

	switch existing.Status {
	case shared.IdempotencyCompleted:
		var replay SubmitResult
		if err := json.Unmarshal(existing.Response, &replay); err != nil {
			return nil, errs.Mark(errs.Wrap(err, "decode idempotent response"), ErrServiceUnavailable)
		}
		replay.IsReplayed = true
		return &replay, nil
	case shared.IdempotencyProcessing:
		return nil, ErrIdempotencyInFlight
	default:
		return nil, errs.Mark(errs.Newf("invalid idempotency key status %q", existing.Status), ErrServiceUnavailable)
	}
}

func (u *checkoutUseCaseImpl) submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	attempt, err := u.loadAttempt(ctx, in.SessionID, in.UserID)
	if err != nil {
		return nil, err
	}
	now := u.clock.Now()
	switch attempt.State {
	case checkout.StateReconciling, checkout.StateSubmitting:
		// only reachable once the lock lapsed; the holder may still be running
		if now.Sub(attempt.UpdatedAt) < u.window {
			return nil, ErrSubmissionInProgress
		}
		slog.Warn("resetting stuck checkout attempt",
			"session_id", in.SessionID,
			"state", string(attempt.State),
			"booking_id", attempt.BookingID)
		attempt.Fail("", "", now)
	case checkout.StateAwaitingPayment:
		// the unpaid booking stays pending, as if the tab had been closed
		slog.Info("superseding unpaid checkout attempt", "session_id", in.SessionID, "booking_id", attempt.BookingID)
		attempt.Fail("", "", now)
	}

	tour, err := u.fetchTour(ctx, in.TourID)
	if err != nil {
		return nil, u.fail(ctx, attempt, err)
	}

	draft, err := u.drafts.Build(tour, in.StartDate, in.PartySize, in.PaymentMethod, in.UserID)
	if err != nil {
		return nil, u.fail(ctx, attempt, err)
	}

	submissionID := draft.Key.String()
	if err := attempt.BeginSubmit(submissionID, u.clock.Now()); err != nil {
		return nil, err
	}
	if err := u.save(ctx, attempt); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, u.window)
	defer cancel()

	created, err := retry.DoValue(ctx, u.policy, retryable, func(ctx context.Context) (BookingCreated, error) {
		return u.bookings.CreateBooking(ctx, BookingRequest{
			IdempotencyKey:  draft.Key,
			TourID:          draft.TourID,
			UserID:          draft.UserID,
			StartDate:       draft.StartDate,
			EndDate:         draft.EndDate,
			PartySize:       draft.PartySize,
			PaymentMethod:   draft.PaymentMethod,
			TotalSettlement: draft.Totals.Settlement,
			Currency:        draft.Totals.Currency,
		})
	})
	if err != nil {
		return nil, u.failSubmission(ctx, in.SessionID, submissionID, translate(err))
	}
	bookingID := created.Booking.ID

	intent, err := u.createIntent(ctx, draft, bookingID, created.ClientSecret)
	if err != nil {
		slog.Warn("payment intent creation failed, booking left pending", "booking_id", bookingID, "error", err)
		return nil, u.failSubmission(ctx, in.SessionID, submissionID, err)
	}

	current, err := u.attempts.GetAttempt(ctx, in.SessionID)
	if err != nil || !current.OwnsSubmission(submissionID) {
		slog.Info("dropping late submission result", "session_id", in.SessionID, "booking_id", bookingID)
		return nil, ErrAttemptSuperseded
	}
	if err := current.AwaitPayment(submissionID, bookingID, intent, draft.Mode(), u.clock.Now()); err != nil {
		return nil, err
	}
	if err := u.save(ctx, current); err != nil {
		return nil, err
	}

	slog.Info("booking created, awaiting payment",
		"booking_id", bookingID,
		"intent_id", intent.ID,
		"mode", string(draft.Mode()))

	return &SubmitResult{
		BookingID:     bookingID,
		State:         current.State,
		Mode:          current.Mode,
		PaymentMethod: draft.PaymentMethod,
		StartDate:     checkout.FormatDate(draft.StartDate),
		EndDate:       checkout.FormatDate(draft.EndDate),
		PartySize:     draft.PartySize,
		TotalLocal:    draft.Totals.Local.String(),
		TotalSettle:   draft.Totals.Settlement.StringFixed(2),
		Currency:      draft.Totals.Currency,
		RateVersion:   draft.Totals.RateVersion,
	}, nil
}

// createIntent treats "booking already has an intent" as success by falling
// back to the secret returned with the booking.
func (u *checkoutUseCaseImpl) createIntent(ctx context.Context, draft *checkout.Draft, bookingID, bookingSecret string) (payment.Intent, error) {
	amount := draft.Totals.SettlementMinorUnits()
	intent, err := retry.DoValue(ctx, u.policy, retryable, func(ctx context.Context) (payment.Intent, error) {
		return u.gateway.CreateIntent(ctx, IntentRequest{
			BookingID: bookingID,
			UserID:    draft.UserID,
			Amount:    amount,
			Currency:  draft.Totals.Currency,
			Method:    draft.PaymentMethod,
		})
	})
	if err == nil {
		return intent, nil
	}
	if bookingSecret != "" && !infra.IsKind(err, infra.KindUnauthorized) {
		id, serr := payment.IntentIDFromSecret(bookingSecret)
		if serr == nil {
			slog.Info("using intent created with the booking", "booking_id", bookingID, "intent_id", id)
			return payment.Intent{ID: id, ClientSecret: bookingSecret, Amount: amount, Currency: draft.Totals.Currency}, nil
		}
	}
	return payment.Intent{}, translate(err)
}

func (u *checkoutUseCaseImpl) ConfirmInline(ctx context.Context, in ConfirmInput) (*ConfirmResult, error) {
	release, err := u.acquire(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	attempt, err := u.awaitingAttempt(ctx, in, checkout.ModeInline)
	if err != nil {
		return nil, err
	}

	status, err := u.gateway.ConfirmInline(ctx, attempt.ClientSecret, CardInput{PaymentMethodID: in.PaymentMethodID})

	current, superseded := u.stillAwaiting(ctx, in)
	if superseded != nil {
		return nil, superseded
	}
	if err != nil {
		return nil, u.confirmFailed(ctx, current, translate(err))
	}

	if err := current.BeginReconcile(u.clock.Now()); err != nil {
		return nil, err
	}
	if err := u.save(ctx, current); err != nil {
		return nil, err
	}

	recStatus := payment.RecordPaid
	if !status.IsSucceeded() {
		// requires_action cannot complete without a redirect here
		recStatus = payment.RecordFailed
	}
	resolution, err := u.resolveInline(ctx, in, current, recStatus)
	if err != nil {
		return nil, err
	}

	final, err := u.attempts.GetAttempt(ctx, in.SessionID)
	if err != nil {
		final = current
	}
	return &ConfirmResult{Attempt: final, Resolution: resolution}, nil
}

// resolveInline goes through the same record-consuming path as a redirect
// return; when the record cannot be written it resolves directly.
func (u *checkoutUseCaseImpl) resolveInline(ctx context.Context, in ConfirmInput, attempt *checkout.Attempt, status payment.RecordStatus) (*Resolution, error) {
	rec, err := payment.NewPendingRecord(attempt.BookingID, status, u.clock.Now())
	if err != nil {
		return nil, err
	}
	err = u.bridge.Stash(ctx, in.SessionID, in.Carrier, rec)
	if err == nil {
		return u.reconciler.Reconcile(ctx, ReconcileEntry{SessionID: in.SessionID, Carrier: in.Carrier})
	}
	slog.Warn("resolving inline payment without pending record", "booking_id", attempt.BookingID, "error", err)

	outcome := payment.Outcome{
		BookingID: attempt.BookingID,
		IntentID:  attempt.IntentID,
		Result:    payment.ResultSuccess,
		Source:    payment.SourceInlineConfirmation,
	}
	if status == payment.RecordFailed {
		outcome.Result = payment.ResultFailure
		outcome.Message = userMessages["GatewayDeclined"]
	}
	return u.reconciler.Resolve(ctx, in.SessionID, outcome)
}

func (u *checkoutUseCaseImpl) ConfirmRedirect(ctx context.Context, in ConfirmInput) (*ConfirmResult, error) {
	release, err := u.acquire(ctx, in.SessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	attempt, err := u.awaitingAttempt(ctx, in, checkout.ModeRedirect)
	if err != nil {
		return nil, err
	}

	rec, err := payment.NewPendingRecord(attempt.BookingID, payment.RecordPending, u.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := u.bridge.Stash(ctx, in.SessionID, in.Carrier, rec); err != nil {
		// the return_url parameters alone are enough to reconcile
		slog.Warn("failed to stash pending record before redirect", "booking_id", attempt.BookingID, "error", err)
	}

	redirectURL, err := u.gateway.ConfirmRedirect(ctx, attempt.ClientSecret, RedirectInput{
		PaymentMethodID: in.PaymentMethodID,
		ReturnURL:       u.cfg.ReturnURL,
	})
	if err != nil {
		// no navigation happened
		u.bridge.Consume(ctx, in.SessionID, in.Carrier)
	}

	current, superseded := u.stillAwaiting(ctx, in)
	if superseded != nil {
		return nil, superseded
	}
	if err != nil {
		return nil, u.confirmFailed(ctx, current, translate(err))
	}

	return &ConfirmResult{Attempt: current, RedirectURL: redirectURL}, nil
}

// confirmFailed applies a confirmation error. Declines end the attempt and
// report the booking as failed; transient errors leave it awaiting payment.
func (u *checkoutUseCaseImpl) confirmFailed(ctx context.Context, attempt *checkout.Attempt, err error) error {
	switch {
	case errs.Is(err, ErrGatewayDeclined):
		bookingID := attempt.BookingID
		rerr := retry.Do(ctx, u.policy, retryable, func(ctx context.Context) error {
			return u.bookings.UpdatePaymentStatus(ctx, bookingID, checkout.PaymentFailed)
		})
		if rerr != nil {
			slog.Error("failed to report declined payment", "booking_id", bookingID, "error", rerr)
		}
		slog.Info("payment declined", "booking_id", bookingID)
		return u.fail(ctx, attempt, err)
	case errs.Is(err, ErrSessionExpired):
		return u.fail(ctx, attempt, err)
	default:
		return err
	}
}

func (u *checkoutUseCaseImpl) awaitingAttempt(ctx context.Context, in ConfirmInput, mode checkout.ConfirmationMode) (*checkout.Attempt, error) {
	attempt, err := u.attempts.GetAttempt(ctx, in.SessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrNoActiveAttempt
		}
		return nil, translate(err)
	}
	if attempt.State != checkout.StateAwaitingPayment {
		return nil, ErrNoActiveAttempt
	}
	if !attempt.Owns(in.BookingID) {
		return nil, ErrAttemptSuperseded
	}
	if attempt.Mode != mode {
		return nil, ErrInvalidConfirmation
	}
	return attempt, nil
}

// stillAwaiting re-reads the attempt after a gateway call so a response for
// a booking the session has moved on from is never applied.
func (u *checkoutUseCaseImpl) stillAwaiting(ctx context.Context, in ConfirmInput) (*checkout.Attempt, error) {
	current, err := u.attempts.GetAttempt(ctx, in.SessionID)
	if err != nil || current.State != checkout.StateAwaitingPayment || !current.Owns(in.BookingID) {
		slog.Info("dropping late confirmation result", "session_id", in.SessionID, "booking_id", in.BookingID)
		return nil, ErrAttemptSuperseded
	}
	return current, nil
}

// acquire takes the per-session lock that keeps duplicate submissions and
// confirmations from running concurrently.
func (u *checkoutUseCaseImpl) acquire(ctx context.Context, sessionID string) (func(), error) {
	token, acquired, err := u.lock.Acquire(ctx, sessionID, u.window)
	if err != nil {
		return nil, translate(err)
	}
	if !acquired {
		return nil, ErrSubmissionInProgress
	}
	return func() {
		if err := u.lock.Release(context.WithoutCancel(ctx), sessionID, token); err != nil {
			slog.Warn("failed to release submission lock", "session_id", sessionID, "error", err)
		}
	}, nil
}

func (u *checkoutUseCaseImpl) Current(ctx context.Context, sessionID string, userID uuid.UUID) (*checkout.Attempt, error) {
	return u.loadAttempt(ctx, sessionID, userID)
}

func (u *checkoutUseCaseImpl) Abandon(ctx context.Context, sessionID string) error {
	if err := u.attempts.DeleteAttempt(ctx, sessionID); err != nil {
		return translate(err)
	}
	return nil
}

func (u *checkoutUseCaseImpl) fetchTour(ctx context.Context, tourID string) (checkout.Tour, error) {
	if strings.TrimSpace(tourID) == "" {
		return checkout.Tour{}, checkout.ErrInvalidTour
	}
	tour, err := retry.DoValue(ctx, u.policy, retryable, func(ctx context.Context) (checkout.Tour, error) {
		return u.tours.GetTour(ctx, tourID)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return checkout.Tour{}, errs.Mark(err, ErrTourNotFound)
		}
		return checkout.Tour{}, translate(err)
	}
	return tour, nil
}

// loadAttempt starts a fresh attempt when none is stored, or when the stored
// one belongs to another user.
func (u *checkoutUseCaseImpl) loadAttempt(ctx context.Context, sessionID string, userID uuid.UUID) (*checkout.Attempt, error) {
	attempt, err := u.attempts.GetAttempt(ctx, sessionID)
	switch {
	case err == nil && attempt.UserID == userID:
		return attempt, nil
	case err == nil, infra.IsKind(err, infra.KindNotFound):
		return checkout.NewAttempt(sessionID, userID, u.clock.Now()), nil
	default:
		return nil, translate(err)
	}
}

// fail surfaces err on the attempt and returns it. SessionExpired discards
// the attempt entirely.
func (u *checkoutUseCaseImpl) fail(ctx context.Context, attempt *checkout.Attempt, err error) error {
	if errs.Is(err, ErrSessionExpired) {
		if derr := u.attempts.DeleteAttempt(ctx, attempt.SessionID); derr != nil {
			slog.Warn("failed to discard checkout attempt", "session_id", attempt.SessionID, "error", derr)
		}
		return err
	}

	attempt.Fail(ErrorKind(err), UserMessage(err), u.clock.Now())
	if serr := u.save(ctx, attempt); serr != nil {
		slog.Warn("failed to save checkout attempt", "session_id", attempt.SessionID, "error", serr)
	}
	return err
}

// failSubmission applies err only while submissionID still owns the
// attempt; a submission that was replaced leaves the newer one alone.
func (u *checkoutUseCaseImpl) failSubmission(ctx context.Context, sessionID, submissionID string, err error) error {
	ctx = context.WithoutCancel(ctx)
	current, gerr := u.attempts.GetAttempt(ctx, sessionID)
	if gerr != nil || !current.OwnsSubmission(submissionID) {
		slog.Info("dropping late submission failure", "session_id", sessionID, "error", err)
		return err
	}
	return u.fail(ctx, current, err)
}

func (u *checkoutUseCaseImpl) save(ctx context.Context, attempt *checkout.Attempt) error {
	if err := u.attempts.SaveAttempt(ctx, attempt, u.cfg.AttemptTTL); err != nil {
		return translate(err)
	}
	return nil
}

func calculateRequestHash(in SubmitInput) string {
	data, _ := json.Marshal(struct {
		TourID        string `json:"tourId"`
		StartDate     string `json:"startDate"`
		PartySize     int    `json:"partySize"`
		PaymentMethod string `json:"paymentMethod"`
	}{
		TourID:        in.TourID,
		StartDate:     in.StartDate,
		PartySize:     in.PartySize,
		PaymentMethod: strings.ToLower(strings.TrimSpace(in.PaymentMethod)),
	})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
