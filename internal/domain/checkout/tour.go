package checkout

import "github.com/shopspring/decimal"

// Tour is a read-only snapshot fetched once per booking attempt.
type Tour struct {
	ID             string
	Price          decimal.Decimal // per person, local currency
	DurationDays   int
	MaxPeople      int
	RemainingSeats int
}

func (t Tour) MaxPartySize() int {
	return min(t.MaxPeople, t.RemainingSeats)
}
