package accounts

import (
	"errors"
	"fmt"
	"iter"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidArgument is returned for counts outside of their domain.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnordered is returned when an account's operations are not sorted most-recent-first.
	ErrUnordered = errors.New("operations are not sorted most-recent-first")
)

// Account is a snapshot of a single account: its live balance, its currency and
// the operations that led to it.
//
// In an Account operations are always sorted most-recent-first.
type Account struct {
	ID       string
	Currency string
	Balance  decimal.Decimal // as of now.

	operations []Operation
}

// NewAccount creates an account snapshot with an explicit live balance.
//
// ops must already be sorted most-recent-first, they are used as is.
func NewAccount(id, currency string, balance decimal.Decimal, ops ...Operation) *Account {
	a := &Account{
		ID:         id,
		Currency:   currency,
		Balance:    balance,
		operations: make([]Operation, 0, len(ops)),
	}
	for _, op := range ops {
		op.Account = id
		a.operations = append(a.operations, op)
	}
	return a
}

// Append records operations in this account, updates the balance and maintains
// the most-recent-first order.
//
// Among operations at the same instant, the last recorded comes first.
func (a *Account) Append(ops ...Operation) {
	for _, op := range ops {
		a.Balance = a.Balance.Add(op.Amount)
	}
	a.insert(ops...)
}

// insert puts ops in front of existing operations, last one first, and sorts
// them all most-recent-first.
func (a *Account) insert(ops ...Operation) {
	all := make([]Operation, 0, len(ops)+len(a.operations))
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		op.Account = a.ID
		all = append(all, op)
	}
	a.operations = append(all, a.operations...)
	a.stableSort()
}

// stableSort sorts operations most-recent-first. Operations at the same instant
// keep their relative order.
func (a *Account) stableSort() {
	sort.SliceStable(a.operations, func(i, j int) bool {
		return a.operations[i].Date.After(a.operations[j].Date)
	})
}

// Len returns the number of operations in the account.
func (a *Account) Len() int { return len(a.operations) }

// Operations returns an iterator over the account's operations, most-recent-first.
func (a *Account) Operations() iter.Seq[Operation] {
	return func(yield func(Operation) bool) {
		for _, op := range a.operations {
			if !yield(op) {
				return
			}
		}
	}
}

// Validate checks that operations are sorted most-recent-first.
func (a *Account) Validate() error {
	for i := 1; i < len(a.operations); i++ {
		if a.operations[i].Date.After(a.operations[i-1].Date) {
			return fmt.Errorf("account %q: operation %d (%v) is newer than operation %d (%v): %w",
				a.ID, i, a.operations[i].Date, i-1, a.operations[i-1].Date, ErrUnordered)
		}
	}
	return nil
}

// Money returns the live balance as Money in the account's currency.
func (a *Account) Money() Money { return M(a.Balance, a.Currency) }
