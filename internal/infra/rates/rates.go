// Package rates builds the amount converter from configuration, optionally
// overridden by a versioned YAML rates file.
package rates

import (
	"os"

	"tour-checkout/internal/domain/checkout"
	"tour-checkout/internal/pkg/config"
	"tour-checkout/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// File is the rates file layout:
//
//	active: "2026-05"
//	ceiling: "999999.99"
//	rates:
//	  - version: "2026-05"
//	    local: vnd
//	    settlement: usd
//	    rate: "24500"
type File struct {
	Active  string  `yaml:"active"`
	Ceiling string  `yaml:"ceiling"`
	Rates   []Entry `yaml:"rates"`
}

type Entry struct {
	Version    string `yaml:"version"`
	Local      string `yaml:"local"`
	Settlement string `yaml:"settlement"`
	Rate       string `yaml:"rate"`
}

func NewConverter(cfg config.CheckoutConfig) (*checkout.Converter, error) {
	entry := Entry{
		Version:    cfg.RateVersion,
		Local:      cfg.LocalCurrency,
		Settlement: cfg.SettlementCurrency,
		Rate:       cfg.ExchangeRate,
	}
	ceiling := cfg.GatewayMaxAmount

	if cfg.RatesFile != "" {
		f, err := LoadFile(cfg.RatesFile)
		if err != nil {
			return nil, err
		}
		active, err := f.activeEntry()
		if err != nil {
			return nil, err
		}
		entry = active
		if f.Ceiling != "" {
			ceiling = f.Ceiling
		}
	}

	return build(entry, ceiling)
}

func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errs.Wrapf(err, "failed to read rates file %s", path)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, errs.Wrapf(err, "failed to parse rates file %s", path)
	}
	return f, nil
}

func (f File) activeEntry() (Entry, error) {
	if len(f.Rates) == 0 {
		return Entry{}, errs.Mark(errs.New("rates file has no rates"), checkout.ErrInvalidExchangeRate)
	}
	if f.Active == "" {
		return f.Rates[len(f.Rates)-1], nil
	}
	for _, e := range f.Rates {
		if e.Version == f.Active {
			return e, nil
		}
	}
	return Entry{}, errs.Mark(errs.Newf("active rate version %q not found", f.Active), checkout.ErrInvalidExchangeRate)
}

func build(e Entry, ceiling string) (*checkout.Converter, error) {
	rate, err := decimal.NewFromString(e.Rate)
	if err != nil {
		return nil, errs.Mark(errs.Wrapf(err, "invalid exchange rate %q", e.Rate), checkout.ErrInvalidExchangeRate)
	}
	limit, err := decimal.NewFromString(ceiling)
	if err != nil {
		return nil, errs.Mark(errs.Wrapf(err, "invalid gateway ceiling %q", ceiling), checkout.ErrInvalidAmount)
	}

	er, err := checkout.NewExchangeRate(e.Version, e.Local, e.Settlement, rate)
	if err != nil {
		return nil, err
	}
	return checkout.NewConverter(er, limit)
}
