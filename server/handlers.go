package server

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/accounts"
	"github.com/etnz/accounts/rates"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const (
	defaultDays  = 30
	defaultCount = 50
)

type errorResponse struct {
	Error string `json:"error"`
}

type pointResponse struct {
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

type historyResponse struct {
	Account string          `json:"account,omitempty"`
	Unit    string          `json:"unit"`
	Points  []pointResponse `json:"points"`
}

type operationResponse struct {
	ID      string          `json:"id,omitempty"`
	Account string          `json:"account"`
	Date    time.Time       `json:"date"`
	Amount  decimal.Decimal `json:"amount"`
	Memo    string          `json:"memo,omitempty"`
}

type sectionResponse struct {
	Day        string              `json:"day"`
	Operations []operationResponse `json:"operations"`
}

type daysResponse struct {
	Account  string            `json:"account,omitempty"`
	Sections []sectionResponse `json:"sections"`
}

// queryInt reads a non negative integer query parameter.
func queryInt(c *fiber.Ctx, key string, def int) (int, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parameter %q must be an integer, got %q: %w", key, v, accounts.ErrInvalidArgument)
	}
	return n, nil
}

// account loads the single account whose ID is id.
func (s *Server) account(id string) (*accounts.Account, error) {
	found, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if len(found) != 1 {
		return nil, fmt.Errorf("account %q: %w", id, fs.ErrNotExist)
	}
	return found[0], nil
}

// GET /history?days=N&unit=U
func (s *Server) history(c *fiber.Ctx) error {
	days, err := queryInt(c, "days", defaultDays)
	if err != nil {
		return err
	}
	unit := c.Query("unit", s.unit)
	all, err := s.load("")
	if err != nil {
		return err
	}
	now := s.now().In(s.loc)
	calc, err := s.counterValue(all, unit, now)
	if err != nil {
		return err
	}
	h, err := accounts.NewBalanceHistorySum(all, days, unit, calc, now)
	if err != nil {
		return err
	}
	return c.JSON(historyResponse{Unit: unit, Points: points(h)})
}

// GET /accounts/{id}/history or /accounts/{id}/days, where id may span
// several path segments.
func (s *Server) accountView(c *fiber.Ctx) error {
	path := strings.Clone(c.Params("*"))
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return fiber.ErrNotFound
	}
	id, view := path[:i], path[i+1:]
	switch view {
	case "history":
		return s.accountHistory(c, id)
	case "days":
		return s.accountDays(c, id)
	}
	return fiber.ErrNotFound
}

// GET /accounts/{id}/history?days=N
func (s *Server) accountHistory(c *fiber.Ctx, id string) error {
	days, err := queryInt(c, "days", defaultDays)
	if err != nil {
		return err
	}
	a, err := s.account(id)
	if err != nil {
		return err
	}
	h, err := accounts.NewBalanceHistory(a, days, s.now().In(s.loc))
	if err != nil {
		return err
	}
	return c.JSON(historyResponse{Account: a.ID, Unit: a.Currency, Points: points(h)})
}

// GET /days?count=N
func (s *Server) days(c *fiber.Ctx) error {
	count, err := queryInt(c, "count", defaultCount)
	if err != nil {
		return err
	}
	all, err := s.load("")
	if err != nil {
		return err
	}
	sections, err := accounts.OperationsByDay(all, count, s.loc)
	if err != nil {
		return err
	}
	return c.JSON(daysResponse{Sections: toSections(sections)})
}

// GET /accounts/{id}/days?count=N
func (s *Server) accountDays(c *fiber.Ctx, id string) error {
	count, err := queryInt(c, "count", defaultCount)
	if err != nil {
		return err
	}
	a, err := s.account(id)
	if err != nil {
		return err
	}
	sections, err := a.OperationsByDay(count, s.loc)
	if err != nil {
		return err
	}
	return c.JSON(daysResponse{Account: a.ID, Sections: toSections(sections)})
}

// counterValue returns the valuation of all accounts into unit, or an error if
// one of them cannot be converted.
func (s *Server) counterValue(all []*accounts.Account, unit string, now time.Time) (accounts.CalculateCounterValue, error) {
	if s.rates != nil {
		for _, a := range all {
			if err := s.rates.Check(a.Currency, unit, now); err != nil {
				return nil, err
			}
		}
		return s.rates.CalculateCounterValue, nil
	}
	// without rates, only accounts already in unit can be summed.
	for _, a := range all {
		if a.Currency != unit {
			return nil, fmt.Errorf("%s/%s: %w", a.Currency, unit, rates.ErrNoRate)
		}
	}
	return func(_, _ string) accounts.Valuation {
		return func(amount decimal.Decimal, _ time.Time) decimal.Decimal { return amount }
	}, nil
}

func points(h accounts.BalanceHistory) []pointResponse {
	res := make([]pointResponse, len(h))
	for i, p := range h {
		res[i] = pointResponse{Date: p.Date, Value: p.Value}
	}
	return res
}

func toSections(sections []accounts.DailySection) []sectionResponse {
	res := make([]sectionResponse, 0, len(sections))
	for _, s := range sections {
		ops := make([]operationResponse, len(s.Operations))
		for i, op := range s.Operations {
			ops[i] = operationResponse{
				ID:      op.ID,
				Account: op.Account,
				Date:    op.Date,
				Amount:  op.Amount,
				Memo:    op.Memo,
			}
		}
		res = append(res, sectionResponse{Day: s.Day.Format(time.DateOnly), Operations: ops})
	}
	return res
}
