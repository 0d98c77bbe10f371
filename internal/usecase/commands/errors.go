package commands

import (
	"errors"

	"tour-checkout/internal/domain/checkout"
	"tour-checkout/internal/domain/payment"
	"tour-checkout/internal/infra"
	"tour-checkout/internal/pkg/errs"
)

// Error taxonomy surfaced to handlers. Validation errors are the domain
// sentinels from internal/domain/checkout and are returned unchanged.
var (
	ErrNetworkTimeout       = errs.New("network timeout")
	ErrServiceUnavailable   = errs.New("service unavailable")
	ErrSessionExpired       = errs.New("session expired")
	ErrGatewayDeclined      = errs.New("payment declined")
	ErrTourNotFound         = errs.New("tour not found")
	ErrBookingRejected      = errs.New("booking rejected")
	ErrSubmissionInProgress = errs.New("submission in progress")
	ErrNoActiveAttempt      = errs.New("no active checkout attempt")
	ErrAttemptSuperseded    = errs.New("checkout attempt superseded")
	ErrIdempotencyConflict  = errs.New("idempotency key reused with a different request")
	ErrIdempotencyInFlight  = errs.New("idempotent request still in progress")
	ErrInvalidConfirmation  = errs.New("confirmation mode does not match payment method")
)

var validationErrors = []error{
	checkout.ErrInvalidDate,
	checkout.ErrPartySizeOutOfRange,
	checkout.ErrInvalidAmount,
	checkout.ErrAmountExceedsGatewayLimit,
	checkout.ErrUnsupportedPaymentMethod,
	checkout.ErrInvalidTour,
}

func IsValidationError(err error) bool {
	return errs.IsAny(err, validationErrors...)
}

// translate maps infrastructure failures onto the taxonomy; err keeps its
// chain for logging and only gains a mark.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errs.IsAny(err, ErrNetworkTimeout, ErrServiceUnavailable, ErrSessionExpired, ErrGatewayDeclined, ErrTourNotFound, ErrBookingRejected) {
		return err
	}
	kind, ok := infra.KindOf(err)
	if !ok {
		return errs.Mark(err, ErrServiceUnavailable)
	}
	switch kind {
	case infra.KindTimeout:
		return errs.Mark(err, ErrNetworkTimeout)
	case infra.KindUnauthorized:
		return errs.Mark(err, ErrSessionExpired)
	case infra.KindDeclined:
		return errs.Mark(err, ErrGatewayDeclined)
	case infra.KindRejected, infra.KindConflict:
		return errs.Mark(err, ErrBookingRejected)
	default:
		return errs.Mark(err, ErrServiceUnavailable)
	}
}

// ErrorKind names the taxonomy entry err belongs to, for attempt state and views.
func ErrorKind(err error) string {
	switch {
	case errs.Is(err, checkout.ErrInvalidDate):
		return "InvalidDate"
	case errs.Is(err, checkout.ErrPartySizeOutOfRange):
		return "PartySizeOutOfRange"
	case errs.Is(err, checkout.ErrInvalidAmount):
		return "InvalidAmount"
	case errs.Is(err, checkout.ErrAmountExceedsGatewayLimit):
		return "AmountExceedsGatewayLimit"
	case errs.Is(err, checkout.ErrUnsupportedPaymentMethod):
		return "UnsupportedPaymentMethod"
	case errs.Is(err, checkout.ErrInvalidTour), errs.Is(err, ErrTourNotFound):
		return "TourNotFound"
	case errs.Is(err, ErrNetworkTimeout):
		return "NetworkTimeout"
	case errs.Is(err, ErrSessionExpired):
		return "SessionExpired"
	case errs.Is(err, ErrGatewayDeclined):
		return "GatewayDeclined"
	case errs.Is(err, ErrBookingRejected):
		return "BookingRejected"
	default:
		return "ServiceUnavailable"
	}
}

// retryable is the retry predicate for idempotent remote calls.
func retryable(err error) bool {
	return infra.IsKind(err, infra.KindTimeout) || infra.IsKind(err, infra.KindUnavailable)
}

var userMessages = map[string]string{
	"InvalidDate":               "Please choose a valid start date.",
	"PartySizeOutOfRange":       "The number of travellers is not available for this tour.",
	"InvalidAmount":             "The booking amount is invalid.",
	"AmountExceedsGatewayLimit": "The booking total exceeds the maximum amount that can be paid online.",
	"UnsupportedPaymentMethod":  "This payment method is not supported.",
	"TourNotFound":              "This tour is no longer available.",
	"NetworkTimeout":            "The request timed out. Please try again.",
	"ServiceUnavailable":        "The service is temporarily unavailable. Please try again later.",
	"SessionExpired":            "Your session has expired. Please sign in again.",
	"GatewayDeclined":           "Your payment was declined.",
	"BookingRejected":           "The booking could not be created.",
}

// UserMessage is the fixed, user-facing text for err. Declines carry the
// gateway's own message; raw transport errors never appear here.
func UserMessage(err error) string {
	var declined *payment.DeclinedError
	if errors.As(err, &declined) && declined.Message != "" {
		return declined.Message
	}
	return userMessages[ErrorKind(err)]
}
