package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/accounts"
	"github.com/etnz/accounts/renderer"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type daysCmd struct {
	account string
	count   int
}

func (*daysCmd) Name() string     { return "days" }
func (*daysCmd) Synopsis() string { return "display the most recent operations, day by day" }
func (*daysCmd) Usage() string {
	return `acv days [-a <account>] [-n <count>]

  Displays the most recent operations of an account, or of all accounts merged
  together, grouped by calendar day in the -tz time zone.
`
}

func (c *daysCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account to report on, all accounts by default")
	f.IntVar(&c.count, "n", 20, "maximum number of operations")
}

func (c *daysCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	defer logger.Sync()

	if c.count < 0 {
		fmt.Fprintf(os.Stderr, "Error: -n must not be negative, got %d\n", c.count)
		return subcommands.ExitUsageError
	}

	all, err := DecodeAccounts(cfg, c.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading accounts: %v\n", err)
		return subcommands.ExitFailure
	}

	currencies := make(map[string]string, len(all))
	for _, a := range all {
		currencies[a.ID] = a.Currency
	}

	title := "all accounts"
	var sections []accounts.DailySection
	if c.account != "" {
		title = c.account
		sections, err = all[0].OperationsByDay(c.count, cfg.Location)
	} else {
		sections, err = accounts.OperationsByDay(all, c.count, cfg.Location)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error grouping operations: %v\n", err)
		return subcommands.ExitFailure
	}
	logger.Debug("grouped operations", zap.Int("sections", len(sections)))
	printMarkdown(renderer.DaysMarkdown(title, sections, currencies))
	return subcommands.ExitSuccess
}
