package accounts

import (
	"time"

	"github.com/shopspring/decimal"
)

// Operation is a single signed, balance-affecting ledger entry.
type Operation struct {
	ID      string          // ID identifies the operation within its account, it may be empty.
	Account string          // Account is the ID of the account the operation belongs to.
	Date    time.Time       // Date is the instant the amount was applied to the balance.
	Amount  decimal.Decimal // Amount is the signed delta applied to the balance.
	Memo    string          // Memo is an optional free text note.
}

// NewOperation returns an operation of amount at the given instant.
func NewOperation[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](on time.Time, amount T, memo string) Operation {
	return Operation{Date: on, Amount: newDecimal(amount), Memo: memo}
}

// Money returns the operation amount as Money in currency.
func (op Operation) Money(currency string) Money { return M(op.Amount, currency) }

// Equal reports whether op and x describe the same operation.
func (op Operation) Equal(x Operation) bool {
	return op.ID == x.ID &&
		op.Account == x.Account &&
		op.Date.Equal(x.Date) &&
		op.Amount.Equal(x.Amount) &&
		op.Memo == x.Memo
}
