package accounts

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ledgerLine builds a single ledger line. The command key always comes first,
// then the other keys in the order they are added, so that a ledger diffs
// cleanly whatever wrote it.
type ledgerLine struct {
	buf []byte
}

func newLedgerLine(cmd CommandType) *ledgerLine {
	l := &ledgerLine{buf: make([]byte, 0, 128)}
	l.buf = append(l.buf, `{"command":`...)
	l.buf = appendQuoted(l.buf, string(cmd))
	return l
}

func (l *ledgerLine) key(k string) {
	l.buf = append(l.buf, ',', '"')
	l.buf = append(l.buf, k...)
	l.buf = append(l.buf, '"', ':')
}

// text adds a string value, omitted when empty.
func (l *ledgerLine) text(k, s string) *ledgerLine {
	if s == "" {
		return l
	}
	l.key(k)
	l.buf = appendQuoted(l.buf, s)
	return l
}

// date adds an instant with its offset, to the nanosecond.
func (l *ledgerLine) date(k string, t time.Time) *ledgerLine {
	l.key(k)
	l.buf = append(l.buf, '"')
	l.buf = t.AppendFormat(l.buf, time.RFC3339Nano)
	l.buf = append(l.buf, '"')
	return l
}

// amount adds an exact decimal as a bare JSON number.
func (l *ledgerLine) amount(k string, d decimal.Decimal) *ledgerLine {
	l.key(k)
	l.buf = append(l.buf, d.String()...)
	return l
}

// bytes closes the object, without the trailing newline.
func (l *ledgerLine) bytes() []byte {
	return append(l.buf, '}')
}

func appendQuoted(buf []byte, s string) []byte {
	q, _ := json.Marshal(s) // a string always marshals.
	return append(buf, q...)
}
