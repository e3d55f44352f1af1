package rates

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/accounts/date"
)

const attrOn = "on"
const attrBase = "base"

// The rates table persists as JSONL, human-readable and git-friendly:
//
//	{"base":"EUR"}
//	{ "on":"2024-01-02", "GBP":1.16, "USD":0.92}
//
// Each line holds all known rates of a day, a rate is the value of one unit of
// the currency in the base currency.

// DecodeTable reads a rates table from a JSONL stream.
func DecodeTable(r io.Reader) (*Table, error) {
	var t *Table
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		txt := scanner.Text()
		if strings.TrimSpace(txt) == "" {
			continue
		}

		jobj := make(map[string]any)
		if err := json.Unmarshal([]byte(txt), &jobj); err != nil {
			return nil, fmt.Errorf("parse error line %v: not a correct json: %w", i, err)
		}

		if t == nil {
			base, ok := jobj[attrBase].(string)
			if !ok || base == "" {
				return nil, fmt.Errorf("parse error line %v: first line must declare the %q currency", i, attrBase)
			}
			t = NewTable(base)
			continue
		}

		jstring, ok := jobj[attrOn].(string)
		if !ok {
			return nil, fmt.Errorf("parse error line %v: missing the property %q with a date", i, attrOn)
		}
		on, err := date.Parse(jstring)
		if err != nil {
			return nil, fmt.Errorf("parse error line %v: property %q must be a valid date: %w", i, attrOn, err)
		}

		// Read all other attributes as (currency,rate) pairs.
		for currency, jrate := range jobj {
			if currency == attrOn {
				continue
			}
			rate, ok := jrate.(float64)
			if !ok {
				return nil, fmt.Errorf("parse error line %v: property %q must be of type 'number'", i, currency)
			}
			if err := t.Set(currency, on, rate); err != nil {
				return nil, fmt.Errorf("parse error line %v: %w", i, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading rates: %w", err)
	}
	if t == nil {
		return nil, fmt.Errorf("parse error: empty rates table")
	}
	return t, nil
}

// EncodeTable writes the rates table in JSONL, one line per day in chronological order.
func EncodeTable(w io.Writer, t *Table) error {
	header, err := json.Marshal(map[string]string{attrBase: t.base})
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, string(header)); err != nil {
		return err
	}

	currencies := t.Currencies()
	histories := make([]*date.History[float64], 0, len(currencies))
	for _, currency := range currencies {
		histories = append(histories, t.rates[currency])
	}

	values := make([]float64, len(currencies))
	for day := range date.Iterate(histories...) {
		for i, h := range histories {
			v, ok := h.Get(day)
			if !ok {
				v = math.NaN()
			}
			values[i] = v
		}
		if err := encodeLine(w, day, currencies, values); err != nil {
			return err
		}
	}
	return nil
}

// encodeLine persists a single day of rates.
func encodeLine(w io.Writer, day date.Date, currencies []string, values []float64) error {
	// json encoder would require a map, and map order is not guaranteed.
	if _, err := fmt.Fprintf(w, "{ %q:%q", attrOn, day.String()); err != nil {
		return err
	}
	for i, currency := range currencies {
		rate := values[i]
		// No rate that day.
		if math.IsNaN(rate) {
			continue
		}
		if _, err := fmt.Fprintf(w, ", %q:%v", currency, rate); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, "}"); err != nil {
		return err
	}
	return nil
}

// Load reads the rates table stored in file.
func Load(file string) (*Table, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("cannot open rates file %q: %w", file, err)
	}
	defer f.Close()
	t, err := DecodeTable(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read rates file %q: %w", file, err)
	}
	return t, nil
}

// Save writes the rates table into file.
func Save(file string, t *Table) error {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("cannot create directory for rates file %q: %w", file, err)
	}
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("cannot create rates file %q: %w", file, err)
	}
	defer f.Close()
	if err := EncodeTable(f, t); err != nil {
		return fmt.Errorf("cannot write rates file %q: %w", file, err)
	}
	return nil
}
