package accounts

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// CommandType is a typed string for identifying ledger lines.
type CommandType string

const (
	CmdOpen CommandType = "open" // declares the account currency, first line only.
	CmdOp   CommandType = "op"   // records an operation.
)

// An account ledger is a JSONL file, human-readable and git-friendly:
//
//	{"command":"open","currency":"EUR"}
//	{"command":"op","id":"...","date":"2024-01-02T10:00:00Z","amount":-10.5,"memo":"groceries"}
//
// Operations can appear in any order, the live balance is the sum of all amounts.

// openCmd is the json form of the header line.
type openCmd struct {
	Command  CommandType `json:"command"`
	Currency string      `json:"currency"`
}

// opCmd is the json form of an operation line.
type opCmd struct {
	Command CommandType     `json:"command"`
	ID      string          `json:"id,omitempty"`
	Date    time.Time       `json:"date"`
	Amount  decimal.Decimal `json:"amount"`
	Memo    string          `json:"memo,omitempty"`
}

// MarshalJSON writes the operation as a ledger line, keys in a fixed order.
func (op Operation) MarshalJSON() ([]byte, error) {
	line := newLedgerLine(CmdOp).
		text("id", op.ID).
		date("date", op.Date).
		amount("amount", op.Amount).
		text("memo", op.Memo)
	return line.bytes(), nil
}

// DecodeAccount decodes an account ledger from a JSONL stream.
// The account is given 'id', its operations are sorted most-recent-first.
func DecodeAccount(id string, r io.Reader) (*Account, error) {
	var account *Account
	var ops []Operation
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(strings.TrimSpace(string(lineBytes))) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("line %d: could not identify command in %q: %w", line, string(lineBytes), err)
		}

		switch identifier.Command {
		case CmdOpen:
			if account != nil {
				return nil, fmt.Errorf("line %d: account %q is already open", line, id)
			}
			var open openCmd
			if err := json.Unmarshal(lineBytes, &open); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if open.Currency == "" {
				return nil, fmt.Errorf("line %d: missing currency", line)
			}
			account = NewAccount(id, open.Currency, decimal.Zero)
		case CmdOp:
			if account == nil {
				return nil, fmt.Errorf("line %d: operation before %q", line, CmdOpen)
			}
			var op opCmd
			if err := json.Unmarshal(lineBytes, &op); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if op.Date.IsZero() {
				return nil, fmt.Errorf("line %d: missing date", line)
			}
			ops = append(ops, Operation{
				ID:     op.ID,
				Date:   op.Date,
				Amount: op.Amount,
				Memo:   op.Memo,
			})
		default:
			return nil, fmt.Errorf("line %d: unknown command %q", line, identifier.Command)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}
	if account == nil {
		return nil, fmt.Errorf("account %q is never opened", id)
	}
	account.Append(ops...)
	return account, nil
}

// EncodeOperation writes a single operation followed by a newline, in JSONL format.
func EncodeOperation(w io.Writer, op Operation) error {
	data, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("failed to marshal operation: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write operation: %w", err)
	}
	return nil
}

// EncodeAccount writes the account ledger in JSONL format, operations oldest
// first, so that decoding it back gives the same account.
func EncodeAccount(w io.Writer, a *Account) error {
	header := newLedgerLine(CmdOpen).text("currency", a.Currency).bytes()
	if _, err := w.Write(append(header, '\n')); err != nil {
		return fmt.Errorf("failed to write account header: %w", err)
	}
	for i := len(a.operations) - 1; i >= 0; i-- {
		if err := EncodeOperation(w, a.operations[i]); err != nil {
			return err
		}
	}
	return nil
}
