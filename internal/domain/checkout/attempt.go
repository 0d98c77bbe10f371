package checkout

import (
	"errors"
	"time"

	"tour-checkout/internal/domain/payment"

	"github.com/google/uuid"
)

var ErrIllegalTransition = errors.New("illegal checkout state transition")

type State string

const (
	StateComposing       State = "composing"
	StateSubmitting      State = "submitting"
	StateAwaitingPayment State = "awaiting_payment"
	StateReconciling     State = "reconciling"
	StateDone            State = "done"
)

// Attempt is the orchestrator's per-session state:
// Composing → Submitting → AwaitingPayment(mode) → Reconciling → Done(result).
// Done and Composing may start a new Submitting; any failure returns to
// Composing without the previous booking.
type Attempt struct {
	SessionID    string           `json:"sessionId"`
	UserID       uuid.UUID        `json:"userId"`
	State        State            `json:"state"`
	SubmissionID string           `json:"submissionId,omitempty"`
	Mode         ConfirmationMode `json:"mode,omitempty"`
	BookingID    string           `json:"bookingId,omitempty"`
	IntentID     string           `json:"intentId,omitempty"`
	ClientSecret string           `json:"clientSecret,omitempty"`
	Result       payment.Result   `json:"result,omitempty"`
	ErrorKind    string           `json:"errorKind,omitempty"`
	ErrorMessage string           `json:"errorMessage,omitempty"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

func NewAttempt(sessionID string, userID uuid.UUID, now time.Time) *Attempt {
	return &Attempt{
		SessionID: sessionID,
		UserID:    userID,
		State:     StateComposing,
		UpdatedAt: now,
	}
}

// BeginSubmit tags the attempt with submissionID; only that submission may
// move it on to AwaitingPayment.
func (a *Attempt) BeginSubmit(submissionID string, now time.Time) error {
	if a.State != StateComposing && a.State != StateDone {
		return ErrIllegalTransition
	}
	if submissionID == "" {
		return ErrIllegalTransition
	}
	a.clearPayment()
	a.SubmissionID = submissionID
	a.clearError()
	a.Result = ""
	a.State = StateSubmitting
	a.UpdatedAt = now
	return nil
}

func (a *Attempt) AwaitPayment(submissionID, bookingID string, intent payment.Intent, mode ConfirmationMode, now time.Time) error {
	if !a.OwnsSubmission(submissionID) || bookingID == "" || !mode.IsValid() {
		return ErrIllegalTransition
	}
	a.BookingID = bookingID
	a.IntentID = intent.ID
	a.ClientSecret = intent.ClientSecret
	a.Mode = mode
	a.State = StateAwaitingPayment
	a.UpdatedAt = now
	return nil
}

func (a *Attempt) BeginReconcile(now time.Time) error {
	if a.State != StateAwaitingPayment {
		return ErrIllegalTransition
	}
	a.State = StateReconciling
	a.UpdatedAt = now
	return nil
}

// Finish is reached from Reconciling (inline) or directly from
// AwaitingPayment when a redirect return is reconciled in a new request.
func (a *Attempt) Finish(result payment.Result, message string, now time.Time) error {
	if a.State != StateReconciling && a.State != StateAwaitingPayment {
		return ErrIllegalTransition
	}
	a.Result = result
	a.ErrorMessage = ""
	a.ErrorKind = ""
	if result == payment.ResultFailure {
		a.ErrorMessage = message
	}
	a.ClientSecret = ""
	a.State = StateDone
	a.UpdatedAt = now
	return nil
}

// Fail returns to Composing with the error surfaced and no partial state.
func (a *Attempt) Fail(kind, message string, now time.Time) {
	a.clearPayment()
	a.SubmissionID = ""
	a.Result = ""
	a.ErrorKind = kind
	a.ErrorMessage = message
	a.State = StateComposing
	a.UpdatedAt = now
}

// Owns reports whether a response for bookingID may still be applied.
func (a *Attempt) Owns(bookingID string) bool {
	return bookingID != "" && a.BookingID == bookingID
}

// OwnsSubmission reports whether the submission tagged submissionID is
// still the one in flight.
func (a *Attempt) OwnsSubmission(submissionID string) bool {
	return a.State == StateSubmitting && submissionID != "" && a.SubmissionID == submissionID
}

func (a *Attempt) clearPayment() {
	a.BookingID = ""
	a.IntentID = ""
	a.ClientSecret = ""
	a.Mode = ""
}

func (a *Attempt) clearError() {
	a.ErrorKind = ""
	a.ErrorMessage = ""
}
