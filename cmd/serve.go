package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/accounts"
	"github.com/etnz/accounts/server"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

type serveCmd struct {
	shutdown time.Duration
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve balance histories and operations over HTTP" }
func (*serveCmd) Usage() string {
	return `acv serve [-shutdown <duration>]

  Starts an HTTP API on the -listen address:

    GET /history?days=N&unit=U
    GET /days?count=N
    GET /accounts/<id>/history?days=N
    GET /accounts/<id>/days?count=N

  Account IDs may contain slashes, e.g. /accounts/john/bnp/history. Days start
  at midnight in the -tz time zone. Ledgers are read on each request.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.shutdown, "shutdown", 10*time.Second, "graceful shutdown period")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, logger, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	defer logger.Sync()

	table, err := DecodeRates(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rates: %v\n", err)
		return subcommands.ExitFailure
	}
	load := func(query string) ([]*accounts.Account, error) {
		return accounts.FindAccounts(cfg.AccountsPath, query)
	}
	srv := server.New(load, table, server.Config{Unit: cfg.Unit, Location: cfg.Location}, logger)

	srvErrCh := make(chan error, 1)
	go func() {
		srvErrCh <- srv.Listen(cfg.Listen)
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-srvErrCh:
		if err != nil {
			logger.Error("server error", zap.Error(err))
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
		return subcommands.ExitFailure
	}
	logger.Info("server exited cleanly")
	return subcommands.ExitSuccess
}
