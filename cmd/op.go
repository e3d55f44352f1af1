package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/etnz/accounts"
	"github.com/etnz/accounts/date"
	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type opCmd struct {
	account  string
	currency string
	date     string
	memo     string
}

func (*opCmd) Name() string     { return "op" }
func (*opCmd) Synopsis() string { return "record an operation in an account" }
func (*opCmd) Usage() string {
	return `acv op -a <account> [-c <currency>] [-d <date>] [-m <memo>] <amount>

  Appends an operation of a signed amount to the account ledger. The account
  is created if -c is given and it does not exist yet.

Usage Examples:
$ acv op -a bank -m groceries -- -42.50
$ acv op -a john/savings -c EUR -d 2024-01-02 1000
`
}

func (c *opCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account of the operation")
	f.StringVar(&c.currency, "c", "", "currency, to create the account if it does not exist")
	f.StringVar(&c.date, "d", "", "date of the operation (YYYY-MM-DD or RFC3339), now by default")
	f.StringVar(&c.memo, "m", "", "memo")
}

// parseWhen parses an instant, a date alone keeps the current time of day.
func parseWhen(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	d, err := date.Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), now.Hour(), now.Minute(), now.Second(), 0, now.Location()), nil
}

func (c *opCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	defer logger.Sync()

	if c.account == "" || f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "an account (-a) and exactly one amount are required")
		f.Usage()
		return subcommands.ExitUsageError
	}
	amount, err := decimal.NewFromString(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid amount %q: %v\n", f.Arg(0), err)
		return subcommands.ExitUsageError
	}
	on, err := parseWhen(c.date, time.Now().In(cfg.Location))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	account, err := accounts.FindAccount(cfg.AccountsPath, c.account)
	switch {
	case errors.Is(err, fs.ErrNotExist) && c.currency != "":
		account = accounts.NewAccount(c.account, c.currency, decimal.Zero)
		if err := accounts.SaveAccount(cfg.AccountsPath, account); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating account %q: %v\n", c.account, err)
			return subcommands.ExitFailure
		}
		logger.Info("account created", zap.String("account", account.ID), zap.String("currency", account.Currency))
	case err != nil:
		fmt.Fprintf(os.Stderr, "Error loading account %q: %v\n", c.account, err)
		return subcommands.ExitFailure
	case c.currency != "" && c.currency != account.Currency:
		fmt.Fprintf(os.Stderr, "Error: account %q is in %s, not %s\n", account.ID, account.Currency, c.currency)
		return subcommands.ExitUsageError
	}

	op := accounts.NewOperation(on, amount, c.memo)
	op.ID = uuid.NewString()
	op.Account = account.ID
	if err := EncodeOperation(cfg, op); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	account.Append(op)

	fmt.Fprintf(stdout, "Recorded %s in %q, balance is now %s\n", op.Money(account.Currency).SignedString(), account.ID, account.Money())
	return subcommands.ExitSuccess
}
