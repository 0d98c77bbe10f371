package jwt

import (
	"time"

	"tour-checkout/internal/domain/payment"
	"tour-checkout/internal/pkg/clock"

	"github.com/golang-jwt/jwt/v5"
)

// PendingClaims mirror a payment.PendingRecord bound to one checkout session.
type PendingClaims struct {
	SessionID string `json:"sid"`
	BookingID string `json:"booking_id"`
	Status    string `json:"status"`
	Timestamp int64  `json:"ts"`
	jwt.RegisteredClaims
}

// StateSealer signs the pending-payment record carried in a cookie across
// the gateway redirect, so it cannot be forged or moved between sessions.
type StateSealer struct {
	secretKey []byte
	clock     clock.Clock
}

func NewStateSealer(secretKey string, clk clock.Clock) *StateSealer {
	return &StateSealer{secretKey: []byte(secretKey), clock: clk}
}

func (s *StateSealer) Seal(sessionID string, rec payment.PendingRecord, ttl time.Duration) (string, error) {
	claims := PendingClaims{
		SessionID: sessionID,
		BookingID: rec.BookingID,
		Status:    string(rec.Status),
		Timestamp: rec.Timestamp,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(rec.CreatedAt()),
			ExpiresAt: jwt.NewNumericDate(rec.CreatedAt().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
}

// Open verifies the token and that it belongs to sessionID.
func (s *StateSealer) Open(sessionID, token string) (payment.PendingRecord, error) {
	claims := &PendingClaims{}
	if err := parseHMAC(token, s.secretKey, claims, jwt.WithTimeFunc(s.clock.Now)); err != nil {
		return payment.PendingRecord{}, err
	}
	if claims.SessionID == "" || claims.SessionID != sessionID {
		return payment.PendingRecord{}, ErrInvalidToken
	}

	rec := payment.PendingRecord{
		Status:    payment.RecordStatus(claims.Status),
		BookingID: claims.BookingID,
		Timestamp: claims.Timestamp,
	}
	if err := rec.Validate(); err != nil {
		return payment.PendingRecord{}, ErrInvalidToken
	}
	return rec, nil
}
