package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/accounts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// outline is the structure of a markdown document.
type outline struct {
	headings []string // "#" level prefixed headings
	rows     [][]string
	items    []string
}

// parseOutline parses markdown and extracts headings, table body rows and list items.
func parseOutline(t *testing.T, doc string) outline {
	t.Helper()
	source := []byte(doc)
	parser := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser()
	root := parser.Parse(text.NewReader(source))

	var o outline
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			o.headings = append(o.headings, strings.Repeat("#", n.Level)+" "+inline(n, source))
			return ast.WalkSkipChildren, nil
		case *extast.TableRow:
			var row []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				row = append(row, inline(c, source))
			}
			o.rows = append(o.rows, row)
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			o.items = append(o.items, inline(n, source))
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	return o
}

// inline concatenates the text of all descendants of n.
func inline(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			b.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func TestHistoryMarkdown(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 30, 0, 0, time.UTC)
	h := accounts.BalanceHistory{
		{Date: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), Value: decimal.NewFromInt(80)},
		{Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), Value: decimal.NewFromInt(70)},
		{Date: now, Value: decimal.NewFromInt(100)},
	}

	o := parseOutline(t, HistoryMarkdown("checking", h, "EUR"))
	assert.Equal(t, []string{"# Balance History for checking"}, o.headings)
	want := [][]string{
		{"2024-01-09", accounts.M(80, "EUR").String(), ""},
		{"2024-01-10", accounts.M(70, "EUR").String(), accounts.M(-10, "EUR").SignedString()},
		{"2024-01-10 12:30", accounts.M(100, "EUR").String(), accounts.M(30, "EUR").SignedString()},
	}
	assert.Equal(t, want, o.rows)
}

func TestHistoryMarkdownEmpty(t *testing.T) {
	doc := HistoryMarkdown("nothing", nil, "EUR")
	o := parseOutline(t, doc)
	assert.Equal(t, []string{"# Balance History for nothing"}, o.headings)
	assert.Empty(t, o.rows)
	assert.Contains(t, doc, "No history.")
}

func TestDaysMarkdown(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2024, 1, d, h, 0, 0, 0, time.UTC) }
	op := func(account string, on time.Time, amount int, memo string) accounts.Operation {
		o := accounts.NewOperation(on, amount, memo)
		o.Account = account
		return o
	}
	sections := []accounts.DailySection{
		{Day: day(2, 0), Operations: []accounts.Operation{
			op("a", day(2, 15), -20, "groceries"),
			op("b", day(2, 9), 5, ""),
			op("a", day(2, 8), 100, "salary"),
		}},
		{Day: day(1, 0), Operations: []accounts.Operation{
			op("b", day(1, 10), 7, "refund"),
		}},
	}
	currencies := map[string]string{"a": "EUR", "b": "USD"}

	o := parseOutline(t, DaysMarkdown("all accounts", sections, currencies))
	assert.Equal(t, []string{
		"# Operations for all accounts",
		"## Tuesday, January 2, 2024",
		"## Monday, January 1, 2024",
	}, o.headings)
	assert.Equal(t, [][]string{
		{"15:00", "a", accounts.M(-20, "EUR").SignedString(), "groceries"},
		{"09:00", "b", accounts.M(5, "USD").SignedString(), ""},
		{"08:00", "a", accounts.M(100, "EUR").SignedString(), "salary"},
		{"10:00", "b", accounts.M(7, "USD").SignedString(), "refund"},
	}, o.rows)
	assert.Equal(t, []string{
		"Total EUR: " + accounts.M(80, "EUR").SignedString(),
		"Total USD: " + accounts.M(5, "USD").SignedString(),
		"Total USD: " + accounts.M(7, "USD").SignedString(),
	}, o.items)
}

func TestDaysMarkdownEmpty(t *testing.T) {
	doc := DaysMarkdown("checking", nil, nil)
	assert.Contains(t, doc, "No operations.")
	assert.Equal(t, []string{"# Operations for checking"}, parseOutline(t, doc).headings)
}

func TestDaysMarkdownLocation(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	o := accounts.NewOperation(time.Date(2024, 1, 2, 23, 30, 0, 0, time.UTC), 1, "late")
	o.Account = "a"
	sections := []accounts.DailySection{
		{Day: time.Date(2024, 1, 3, 0, 0, 0, 0, cet), Operations: []accounts.Operation{o}},
	}

	got := parseOutline(t, DaysMarkdown("a", sections, map[string]string{"a": "EUR"}))
	assert.Equal(t, "## Wednesday, January 3, 2024", got.headings[1])
	require.Len(t, got.rows, 1)
	assert.Equal(t, "00:30", got.rows[0][0])
}
