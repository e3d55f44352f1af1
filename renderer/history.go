package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/accounts"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders a balance history as a markdown table, oldest first.
func HistoryMarkdown(title string, h accounts.BalanceHistory, unit string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Balance History for %s", title))
	if len(h) == 0 {
		doc.PlainText("No history.")
		return doc.String()
	}

	table := md.TableSet{
		Header: []string{"Date", "Balance", "Change"},
		Rows:   [][]string{},
	}
	for i, p := range h {
		when := p.Date.Format("2006-01-02")
		if i == len(h)-1 {
			when = md.Bold(p.Date.Format("2006-01-02 15:04"))
		}
		change := ""
		if i > 0 {
			change = accounts.M(p.Value.Sub(h[i-1].Value), unit).SignedString()
		}
		table.Rows = append(table.Rows, []string{
			when,
			accounts.M(p.Value, unit).String(),
			change,
		})
	}
	doc.Table(table)
	return doc.String()
}
