package accounts

import (
	"fmt"
	"time"

	"github.com/etnz/accounts/date"
	"github.com/shopspring/decimal"
)

// Point is a reconstructed balance at an instant.
type Point struct {
	Date  time.Time
	Value decimal.Decimal
}

// BalanceHistory is a sequence of balances at daily checkpoints, oldest first.
// The last point is the live balance, not a day boundary.
type BalanceHistory []Point

// Last returns the most recent point, i.e. the live balance.
func (h BalanceHistory) Last() Point {
	if len(h) == 0 {
		return Point{}
	}
	return h[len(h)-1]
}

// Values returns the history values, oldest first.
func (h BalanceHistory) Values() []decimal.Decimal {
	values := make([]decimal.Decimal, len(h))
	for i, p := range h {
		values[i] = p.Value
	}
	return values
}

// Valuation converts an amount valued at an instant into another unit.
type Valuation func(amount decimal.Decimal, on time.Time) decimal.Decimal

// CalculateCounterValue returns the Valuation from currency 'from' into the unit 'to'.
type CalculateCounterValue func(from, to string) Valuation

// BalanceHistoryOf is NewBalanceHistory as of now.
func BalanceHistoryOf(account *Account, days int) (BalanceHistory, error) {
	return NewBalanceHistory(account, days, time.Now())
}

// NewBalanceHistory generates 'days' points, one per day, for the balance
// history of an account. The last point is {now, account.Balance}; the others
// are the balance at the start of each previous day, most recent last.
//
// Operations are rewound from the live balance, newest first, so they must be
// sorted most-recent-first.
func NewBalanceHistory(account *Account, days int, now time.Time) (BalanceHistory, error) {
	if days < 1 {
		return nil, fmt.Errorf("balance history over %d days: %w", days, ErrInvalidArgument)
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}

	history := make(BalanceHistory, days)
	balance := account.Balance
	history[days-1] = Point{Date: now, Value: balance}

	ops := account.operations
	i := 0 // index of the next operation to rewind.
	day := date.StartOfDay(now)
	for d := days - 2; d >= 0; d-- {
		// rewind operations that happened after 'day'.
		for i < len(ops) && ops[i].Date.After(day) {
			balance = balance.Sub(ops[i].Amount)
			i++
		}
		history[d] = Point{Date: day, Value: balance}
		day = day.Add(-date.Day)
	}
	return history, nil
}

// BalanceHistorySumOf is NewBalanceHistorySum as of now.
func BalanceHistorySumOf(accounts []*Account, days int, unit string, calc CalculateCounterValue) (BalanceHistory, error) {
	return NewBalanceHistorySum(accounts, days, unit, calc, time.Now())
}

// NewBalanceHistorySum computes the total balance history of all accounts in a
// reference unit, using calc to value each account's points.
//
// As for NewBalanceHistory, the last point is the current total balance.
// Without accounts, it returns 'days' zero points, one day apart, ending now.
func NewBalanceHistorySum(accounts []*Account, days int, unit string, calc CalculateCounterValue, now time.Time) (BalanceHistory, error) {
	if days < 1 {
		return nil, fmt.Errorf("balance history over %d days: %w", days, ErrInvalidArgument)
	}
	sum := make(BalanceHistory, days)
	if len(accounts) == 0 {
		for i := range sum {
			sum[i] = Point{Date: now.Add(-date.Day * time.Duration(days-i-1)), Value: decimal.Zero}
		}
		return sum, nil
	}
	if calc == nil {
		return nil, fmt.Errorf("no counter value function to convert into %q: %w", unit, ErrInvalidArgument)
	}

	for n, account := range accounts {
		history, err := NewBalanceHistory(account, days, now)
		if err != nil {
			return nil, err
		}
		value := calc(account.Currency, unit)
		for i, h := range history {
			v := value(h.Value, h.Date)
			if n == 0 {
				sum[i] = Point{Date: h.Date, Value: v}
				continue
			}
			sum[i].Value = sum[i].Value.Add(v)
		}
	}
	return sum, nil
}
