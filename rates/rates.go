// Package rates is a conversion service for accounts: a table of historical
// exchange rates against a base currency, that can be persisted, updated from
// a remote provider, and used to value balances in a reference unit.
package rates

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/etnz/accounts"
	"github.com/etnz/accounts/date"
	"github.com/shopspring/decimal"
)

// ErrNoRate is returned when a currency has no rate at all.
var ErrNoRate = errors.New("no exchange rate")

// Table holds exchange rates history for a set of currencies.
//
// A rate is the value of one unit of the currency in the base currency, the
// base currency has always a rate of 1.
type Table struct {
	base  string
	rates map[string]*date.History[float64]
}

// NewTable returns an empty table of rates against base.
func NewTable(base string) *Table {
	return &Table{
		base:  base,
		rates: make(map[string]*date.History[float64]),
	}
}

// Base returns the base currency.
func (t *Table) Base() string { return t.base }

// Currencies returns the currencies with a rate history, sorted.
func (t *Table) Currencies() []string {
	return slices.Sorted(maps.Keys(t.rates))
}

// Set records the rate of currency on a given day.
func (t *Table) Set(currency string, on date.Date, rate float64) error {
	if currency == t.base {
		return fmt.Errorf("cannot set the rate of the base currency %q", currency)
	}
	if rate <= 0 {
		return fmt.Errorf("invalid rate %v for %q on %s", rate, currency, on)
	}
	h, ok := t.rates[currency]
	if !ok {
		h = new(date.History[float64])
		t.rates[currency] = h
	}
	h.Append(on, rate)
	return nil
}

// Rate returns the rate of currency as of a given day: the rate on that day or
// the most recent one before it. Days before the first recorded rate use that
// first rate, so a currency is either convertible on every day or on none.
func (t *Table) Rate(currency string, on date.Date) (float64, bool) {
	if currency == t.base {
		return 1, true
	}
	h, ok := t.rates[currency]
	if !ok || h.Len() == 0 {
		return 0, false
	}
	if r, ok := h.ValueAsOf(on); ok {
		return r, true
	}
	_, r := h.Earliest()
	return r, true
}

// Check returns an error if amounts in 'from' cannot be converted into 'to' on a given instant.
func (t *Table) Check(from, to string, on time.Time) error {
	_, err := t.factor(from, to, date.Of(on))
	return err
}

// factor returns the multiplier to convert 'from' into 'to' on a given day.
func (t *Table) factor(from, to string, on date.Date) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}
	rf, ok := t.Rate(from, on)
	if !ok {
		return decimal.Zero, fmt.Errorf("%s/%s on %s: %w", from, t.base, on, ErrNoRate)
	}
	rt, ok := t.Rate(to, on)
	if !ok {
		return decimal.Zero, fmt.Errorf("%s/%s on %s: %w", to, t.base, on, ErrNoRate)
	}
	return decimal.NewFromFloat(rf).Div(decimal.NewFromFloat(rt)), nil
}

// Convert converts an amount in 'from' into 'to', using the rates as of 'on'.
func (t *Table) Convert(amount decimal.Decimal, from, to string, on time.Time) (decimal.Decimal, error) {
	f, err := t.factor(from, to, date.Of(on))
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(f), nil
}

// CalculateCounterValue returns the valuation of 'from' amounts into 'to'.
//
// Amounts in a currency without any rate are valued zero: use Check first.
func (t *Table) CalculateCounterValue(from, to string) accounts.Valuation {
	return func(amount decimal.Decimal, on time.Time) decimal.Decimal {
		v, err := t.Convert(amount, from, to, on)
		if err != nil {
			return decimal.Zero
		}
		return v
	}
}
