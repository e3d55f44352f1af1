package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/etnz/accounts/rates"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type ratesCmd struct {
	timeout time.Duration
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "fetch today's exchange rates into the rates file" }
func (*ratesCmd) Usage() string {
	return `acv rates [-timeout <duration>] [<currency>...]

  Fetches today's rate of each currency against the base currency of the
  rates file, and saves them. By default, it fetches the currencies of all
  accounts. Fetched rates are cached in redis when -redis-url is set.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.timeout, "timeout", 30*time.Second, "timeout of the whole update")
}

func (c *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	table, err := DecodeRates(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rates: %v\n", err)
		return subcommands.ExitFailure
	}

	currencies := f.Args()
	if len(currencies) == 0 {
		all, err := DecodeAccounts(cfg, "")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading accounts: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, a := range all {
			currencies = append(currencies, a.Currency)
		}
		slices.Sort(currencies)
		currencies = slices.Compact(currencies)
	}

	fetcher := &rates.Fetcher{
		Client: &http.Client{Timeout: c.timeout},
		URL:    cfg.RatesURL,
		Path:   cfg.RatesJSONPath,
		Logger: logger,
	}
	if cfg.RedisURL != "" {
		cache, err := rates.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			// fetching still works without the cache.
			logger.Warn("rates cache unavailable", zap.Error(err))
		} else {
			defer cache.Close()
			fetcher.Cache = cache
		}
	}

	status := subcommands.ExitSuccess
	if err := table.Update(ctx, fetcher, currencies...); err != nil {
		fmt.Fprintf(os.Stderr, "Error updating rates: %v\n", err)
		status = subcommands.ExitFailure
	}
	// save what could be fetched anyway.
	if err := rates.Save(cfg.RatesFile, table); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving rates: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Rates against %s saved to %s\n", table.Base(), cfg.RatesFile)
	return status
}
