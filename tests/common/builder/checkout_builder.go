//go:build unit || e2e

package builder

import (
	"time"

	"tour-checkout/internal/domain/checkout"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Today is the fixed "now" used by checkout tests.
var Today = time.Date(2026, 5, 10, 9, 30, 0, 0, time.UTC)

type CheckoutBuilder struct {
	TourID         string
	Price          decimal.Decimal
	DurationDays   int
	MaxPeople      int
	RemainingSeats int
	UserID         uuid.UUID
	StartDate      string
	PartySize      int
	PaymentMethod  string
}

func NewCheckoutBuilder() *CheckoutBuilder {
	return &CheckoutBuilder{
		TourID:         "tour_halong_3d",
		Price:          decimal.NewFromInt(3_000_000),
		DurationDays:   3,
		MaxPeople:      10,
		RemainingSeats: 6,
		UserID:         uuid.MustParse("6f1c2a9e-6b7d-4f53-9a52-0d4b3c2e8f11"),
		StartDate:      "2026-06-01",
		PartySize:      2,
		PaymentMethod:  "card",
	}
}

func (b *CheckoutBuilder) With(mutate func(*CheckoutBuilder)) *CheckoutBuilder {
	mutate(b)
	return b
}

func (b *CheckoutBuilder) WithPrice(price int64) *CheckoutBuilder {
	b.Price = decimal.NewFromInt(price)
	return b
}

func (b *CheckoutBuilder) WithPartySize(n int) *CheckoutBuilder {
	b.PartySize = n
	return b
}

func (b *CheckoutBuilder) WithStartDate(s string) *CheckoutBuilder {
	b.StartDate = s
	return b
}

func (b *CheckoutBuilder) WithPaymentMethod(m string) *CheckoutBuilder {
	b.PaymentMethod = m
	return b
}

func (b *CheckoutBuilder) BuildTour() checkout.Tour {
	return checkout.Tour{
		ID:             b.TourID,
		Price:          b.Price,
		DurationDays:   b.DurationDays,
		MaxPeople:      b.MaxPeople,
		RemainingSeats: b.RemainingSeats,
	}
}

func DefaultRate() checkout.ExchangeRate {
	rate, err := checkout.NewExchangeRate("test", "vnd", "usd", decimal.NewFromInt(24_500))
	if err != nil {
		panic(err)
	}
	return rate
}

func DefaultCeiling() decimal.Decimal {
	return decimal.RequireFromString("999999.99")
}

func NewConverter() *checkout.Converter {
	c, err := checkout.NewConverter(DefaultRate(), DefaultCeiling())
	if err != nil {
		panic(err)
	}
	return c
}

func (b *CheckoutBuilder) BuildDraft(builder *checkout.DraftBuilder) (*checkout.Draft, error) {
	return builder.Build(b.BuildTour(), b.StartDate, b.PartySize, b.PaymentMethod, b.UserID)
}
