package checkout

import (
	"errors"
	"strings"
	"time"

	"tour-checkout/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrInvalidDate         = errors.New("invalid date")
	ErrPartySizeOutOfRange = errors.New("party size out of range")
	ErrInvalidTour         = errors.New("invalid tour")
)

const DateLayout = "2006-01-02"

// maxEndYear keeps end dates representable by every downstream system.
const maxEndYear = 9999

// Draft is a validated reservation request; it is consumed once to create a Booking.
type Draft struct {
	Key           uuid.UUID
	TourID        string
	UserID        uuid.UUID
	StartDate     time.Time
	EndDate       time.Time
	PartySize     int
	PaymentMethod PaymentMethod
	Totals        Totals
}

func (d *Draft) Mode() ConfirmationMode {
	return d.PaymentMethod.Mode()
}

type DraftBuilder struct {
	Clock     clock.Clock
	Converter *Converter
}

func NewDraftBuilder(clock clock.Clock, converter *Converter) *DraftBuilder {
	return &DraftBuilder{
		Clock:     clock,
		Converter: converter,
	}
}

// Build validates the user's choices against the tour snapshot and computes
// both currency totals. Validation order: date, party size, method, amount.
func (b *DraftBuilder) Build(
	tour Tour,
	startDate string,
	partySize int,
	method string,
	userID uuid.UUID,
) (*Draft, error) {
	if tour.ID == "" || tour.DurationDays < 0 {
		return nil, ErrInvalidTour
	}

	start, end, err := b.schedule(startDate, tour.DurationDays)
	if err != nil {
		return nil, err
	}

	if partySize < 1 || partySize > tour.MaxPartySize() {
		return nil, ErrPartySizeOutOfRange
	}

	pm, err := ParsePaymentMethod(method)
	if err != nil {
		return nil, err
	}

	totals, err := b.Converter.Convert(tour.Price, partySize)
	if err != nil {
		return nil, err
	}

	return &Draft{
		Key:           uuid.New(),
		TourID:        tour.ID,
		UserID:        userID,
		StartDate:     start,
		EndDate:       end,
		PartySize:     partySize,
		PaymentMethod: pm,
		Totals:        totals,
	}, nil
}

func (b *DraftBuilder) schedule(startDate string, durationDays int) (time.Time, time.Time, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	now := b.Clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if start.Before(today) {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}

	end := start.AddDate(0, 0, durationDays)
	if end.Before(start) || end.Year() > maxEndYear {
		return time.Time{}, time.Time{}, ErrInvalidDate
	}
	return start, end, nil
}

// ParseDate accepts a calendar date only; the result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
