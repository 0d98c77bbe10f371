package payment

import "time"

type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

func (r Result) String() string {
	return string(r)
}

// Source tells which entry channel produced a resolution.
type Source string

const (
	SourceGatewayQuery       Source = "gateway_query"
	SourcePendingRecord      Source = "pending_record"
	SourceInlineConfirmation Source = "inline_confirmation"
)

// Outcome is the canonical, recorded-once result of one payment attempt.
type Outcome struct {
	Key        string
	BookingID  string
	IntentID   string
	Result     Result
	Message    string
	Source     Source
	ResolvedAt time.Time
}

func ResultFromStatus(s TerminalStatus) Result {
	if s.IsSucceeded() {
		return ResultSuccess
	}
	return ResultFailure
}

// ResolutionKey names the ledger row. Bookings and intents are 1:1, and the
// ledger also refuses a second row for a known booking or intent id, so an
// outcome keyed by intent and one keyed by booking cannot both be recorded.
func ResolutionKey(bookingID, intentID string) string {
	if bookingID != "" {
		return "booking:" + bookingID
	}
	return "intent:" + intentID
}
