package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/accounts"
	"github.com/google/subcommands"
)

type fmtCmd struct {
	account string
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats ledger files into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `acv fmt [-a <account>]

  Validates and formats account ledgers. This command reads all operations,
  sorts them by date, and writes them back in a canonical JSONL format.
  By default, it formats all ledgers in-place. Use -a to specify a single account.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "a", "", "account to format, all by default")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	defer logger.Sync()

	all, err := DecodeAccounts(cfg, c.account)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load accounts: %v\n", err)
		return subcommands.ExitFailure
	}
	if len(all) == 0 {
		fmt.Fprintf(os.Stderr, "Warning: no ledgers found to format.\n")
		return subcommands.ExitSuccess
	}

	status := subcommands.ExitSuccess
	for _, a := range all {
		if err := accounts.SaveAccount(cfg.AccountsPath, a); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving formatted ledger %q: %v\n", a.ID, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Fprintf(stdout, "Formatted %q: %d operations, balance %s\n", a.ID, a.Len(), a.Money())
	}
	return status
}
