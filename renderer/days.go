package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/accounts"
	md "github.com/nao1215/markdown"
)

// DaysMarkdown renders operations grouped by day, newest day first.
//
// currencies maps account IDs to their currency, it is used to format amounts.
func DaysMarkdown(title string, sections []accounts.DailySection, currencies map[string]string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Operations for %s", title))
	if len(sections) == 0 {
		doc.PlainText("No operations.")
		return doc.String()
	}

	for _, s := range sections {
		// times are shown in the location the day was cut in.
		loc := s.Day.Location()
		doc.H2(s.Day.Format("Monday, January 2, 2006"))
		table := md.TableSet{
			Header: []string{"Time", "Account", "Amount", "Memo"},
			Rows:   [][]string{},
		}
		// Day total per currency, in order of appearance.
		var totals []accounts.Money
		for _, op := range s.Operations {
			amount := op.Money(currencies[op.Account])
			table.Rows = append(table.Rows, []string{
				op.Date.In(loc).Format("15:04"),
				op.Account,
				amount.SignedString(),
				op.Memo,
			})
			totals = addTotal(totals, amount)
		}
		doc.Table(table)

		items := make([]string, 0, len(totals))
		for _, t := range totals {
			items = append(items, fmt.Sprintf("Total %s: %s", t.Currency(), t.SignedString()))
		}
		doc.BulletList(items...)
	}
	return doc.String()
}

func addTotal(totals []accounts.Money, m accounts.Money) []accounts.Money {
	for i, t := range totals {
		if t.Currency() == m.Currency() {
			totals[i] = t.Add(m)
			return totals
		}
	}
	return append(totals, m)
}
