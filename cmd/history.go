package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/accounts"
	"github.com/etnz/accounts/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	account string
	days    int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the daily balance history" }
func (*historyCmd) Usage() string {
	return `acv history [-a <account>] [-n <days>]

  Displays the balance at the start of each of the last days, and the current
  balance. Without -a, balances of all accounts are summed in the -unit
  currency using the rates file.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account to report on, all accounts by default")
	f.IntVar(&c.days, "n", 30, "number of points in the history")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	defer logger.Sync()

	if c.days < 1 {
		fmt.Fprintf(os.Stderr, "Error: -n must be at least 1, got %d\n", c.days)
		return subcommands.ExitUsageError
	}

	all, err := DecodeAccounts(cfg, c.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading accounts: %v\n", err)
		return subcommands.ExitFailure
	}
	now := time.Now().In(cfg.Location)

	if c.account != "" {
		a := all[0]
		h, err := accounts.NewBalanceHistory(a, c.days, now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing history of %q: %v\n", a.ID, err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.HistoryMarkdown(a.ID, h, a.Currency))
		return subcommands.ExitSuccess
	}

	table, err := DecodeRates(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rates: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, a := range all {
		if err := table.Check(a.Currency, cfg.Unit, now); err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot value account %q in %s: %v\n", a.ID, cfg.Unit, err)
			return subcommands.ExitFailure
		}
	}
	h, err := accounts.NewBalanceHistorySum(all, c.days, cfg.Unit, table.CalculateCounterValue, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing history: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HistoryMarkdown("all accounts", h, cfg.Unit))
	return subcommands.ExitSuccess
}
