package payment

import (
	"errors"
	"strings"
)

var ErrMalformedClientSecret = errors.New("malformed client secret")

// TerminalStatus is the gateway status this service acts on.
// requires_action is transient and should never be persisted as an outcome.
type TerminalStatus string

const (
	StatusSucceeded      TerminalStatus = "succeeded"
	StatusRequiresAction TerminalStatus = "requires_action"
	StatusFailed         TerminalStatus = "failed"
)

func (s TerminalStatus) String() string {
	return string(s)
}

func (s TerminalStatus) IsSucceeded() bool {
	return s == StatusSucceeded
}

type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64 // minor units of Currency
	Currency     string
	Status       TerminalStatus
}

// IntentStatus is what a read-only status lookup returns.
type IntentStatus struct {
	IntentID  string
	BookingID string // from gateway metadata, empty when absent
	Status    TerminalStatus
}

const secretSeparator = "_secret_"

// IntentIDFromSecret extracts "pi_123" from "pi_123_secret_abc".
func IntentIDFromSecret(secret string) (string, error) {
	idx := strings.Index(secret, secretSeparator)
	if idx <= 0 || idx+len(secretSeparator) >= len(secret) {
		return "", ErrMalformedClientSecret
	}
	return secret[:idx], nil
}

// DeclinedError carries the gateway's user-facing decline reason.
type DeclinedError struct {
	Code    string
	Message string
}

func (e *DeclinedError) Error() string {
	if e.Code == "" {
		return "declined: " + e.Message
	}
	return "declined (" + e.Code + "): " + e.Message
}
