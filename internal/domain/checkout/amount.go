package checkout

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount             = errors.New("invalid amount")
	ErrAmountExceedsGatewayLimit = errors.New("amount exceeds gateway limit")
	ErrInvalidExchangeRate       = errors.New("invalid exchange rate")
)

// settlementPlaces is the minor-unit precision of the settlement currency.
const settlementPlaces = 2

// ExchangeRate is how many local units buy one settlement unit.
type ExchangeRate struct {
	Version    string
	Local      string
	Settlement string
	Rate       decimal.Decimal
}

func NewExchangeRate(version, local, settlement string, rate decimal.Decimal) (ExchangeRate, error) {
	if !rate.IsPositive() {
		return ExchangeRate{}, ErrInvalidExchangeRate
	}
	return ExchangeRate{
		Version:    version,
		Local:      strings.ToLower(local),
		Settlement: strings.ToLower(settlement),
		Rate:       rate,
	}, nil
}

type Totals struct {
	Local       decimal.Decimal
	Settlement  decimal.Decimal
	Currency    string // settlement currency
	RateVersion string
}

// SettlementMinorUnits is the integer amount the gateway charges.
func (t Totals) SettlementMinorUnits() int64 {
	return t.Settlement.Shift(settlementPlaces).IntPart()
}

// Converter turns a tour price and party size into both currency totals and
// enforces the gateway ceiling. It does no I/O.
type Converter struct {
	rate    ExchangeRate
	ceiling decimal.Decimal
}

func NewConverter(rate ExchangeRate, ceiling decimal.Decimal) (*Converter, error) {
	if !rate.Rate.IsPositive() {
		return nil, ErrInvalidExchangeRate
	}
	if !ceiling.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return &Converter{rate: rate, ceiling: ceiling}, nil
}

func (c *Converter) Rate() ExchangeRate {
	return c.rate
}

func (c *Converter) Ceiling() decimal.Decimal {
	return c.ceiling
}

func (c *Converter) Convert(unitPrice decimal.Decimal, partySize int) (Totals, error) {
	if partySize < 1 || !unitPrice.IsPositive() {
		return Totals{}, ErrInvalidAmount
	}

	local := unitPrice.Mul(decimal.NewFromInt(int64(partySize)))
	if !local.IsPositive() {
		return Totals{}, ErrInvalidAmount
	}

	settlement := local.Div(c.rate.Rate).Round(settlementPlaces)
	if !settlement.IsPositive() {
		return Totals{}, ErrInvalidAmount
	}
	if settlement.GreaterThan(c.ceiling) {
		return Totals{}, ErrAmountExceedsGatewayLimit
	}

	return Totals{
		Local:       local,
		Settlement:  settlement,
		Currency:    c.rate.Settlement,
		RateVersion: c.rate.Version,
	}, nil
}
