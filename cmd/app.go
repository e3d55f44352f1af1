// Package cmd implements the CLI application to browse account balances and operations.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // -tz must resolve on hosts without a zoneinfo database.

	"github.com/etnz/accounts"
	"github.com/etnz/accounts/rates"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Commands lists the subcommands, in the order they are registered.
var Commands = []subcommands.Command{
	&historyCmd{},
	&daysCmd{},
	&opCmd{},
	&ratesCmd{},
	&serveCmd{},
	&fmtCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
}

// IsCommand reports whether name is a builtin subcommand.
func IsCommand(name string) bool {
	switch name {
	case "help", "flags", "commands":
		return true
	}
	for _, c := range Commands {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	accountsPath = flag.String("accounts-path", env(EnvAccountsPath, "."), "Path to the folder of account ledgers (JSONL format)")
	ratesFile    = flag.String("rates-file", env(EnvRatesFile, "rates.jsonl"), "Path to the exchange rates file (JSONL format)")
	unit         = flag.String("unit", env(EnvUnit, "EUR"), "Reference currency to sum balances in")
	logLevel     = flag.String("log-level", env(EnvLogLevel, "warn"), "Log level (debug, info, warn, error)")
	logEncoding  = flag.String("log-encoding", env(EnvLogEncoding, "console"), "Log encoding (console, json)")
	redisURL     = flag.String("redis-url", env(EnvRedisURL, ""), "Redis URL to cache fetched rates, e.g. redis://localhost:6379/0")
	ratesURL     = flag.String("rates-url", env(EnvRatesURL, "https://api.frankfurter.app/latest?from={currency}&to={base}"), "Exchange rates endpoint, {base} and {currency} are replaced")
	ratesPath    = flag.String("rates-jsonpath", env(EnvRatesJSONPath, "$.rates.{base}"), "jsonpath of the rate in the endpoint response")
	listen       = flag.String("listen", env(EnvListen, ":8080"), "Address the HTTP API listens on")
	tz           = flag.String("tz", env(EnvTZ, "Local"), "Time zone where days start, e.g. UTC or Europe/Paris")
	plain        = flag.Bool("plain", env(EnvPlain, "") != "", "Print raw markdown instead of rendering it for the terminal")
)

func env(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// Config captures the application configuration, from flags and environment variables.
type Config struct {
	AccountsPath  string
	RatesFile     string
	Unit          string
	LogLevel      string
	LogEncoding   string
	RedisURL      string
	RatesURL      string
	RatesJSONPath string
	Listen        string
	Location      *time.Location
	Plain         bool
}

// LoadConfig reads and validates the global flags.
func LoadConfig() (Config, error) {
	cfg := Config{
		AccountsPath:  *accountsPath,
		RatesFile:     *ratesFile,
		Unit:          strings.ToUpper(*unit),
		LogLevel:      strings.ToLower(*logLevel),
		LogEncoding:   strings.ToLower(*logEncoding),
		RedisURL:      *redisURL,
		RatesURL:      *ratesURL,
		RatesJSONPath: *ratesPath,
		Listen:        *listen,
		Plain:         *plain,
	}
	var errs error
	loc, err := time.LoadLocation(*tz)
	if err != nil {
		errs = errors.Join(errs, fmt.Errorf("invalid time zone %q: %w", *tz, err))
	}
	cfg.Location = loc
	if cfg.AccountsPath == "" {
		errs = errors.Join(errs, fmt.Errorf("accounts path must be set"))
	}
	if cfg.Unit == "" {
		errs = errors.Join(errs, fmt.Errorf("unit must be set"))
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = errors.Join(errs, fmt.Errorf("invalid log level %q", cfg.LogLevel))
	}
	switch cfg.LogEncoding {
	case "console", "json":
	default:
		errs = errors.Join(errs, fmt.Errorf("invalid log encoding %q", cfg.LogEncoding))
	}
	if errs != nil {
		return Config{}, errs
	}
	return cfg, nil
}

// setup loads the configuration and creates the logger, common to all subcommands.
func setup() (Config, *zap.Logger, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return Config{}, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger, err := newLogger(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		return Config{}, nil, fmt.Errorf("cannot create logger: %w", err)
	}
	return cfg, logger, nil
}

// DecodeRates decodes the rates table from the app rates file.
func DecodeRates(cfg Config, logger *zap.Logger) (*rates.Table, error) {
	t, err := rates.Load(cfg.RatesFile)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn("rates file does not exist, using an empty table instead", zap.String("file", cfg.RatesFile))
		return rates.NewTable(cfg.Unit), nil
	}
	return t, err
}

// DecodeAccounts loads the accounts from the app accounts path, all of them if id is empty.
func DecodeAccounts(cfg Config, id string) ([]*accounts.Account, error) {
	if id == "" {
		return accounts.FindAccounts(cfg.AccountsPath, "")
	}
	a, err := accounts.FindAccount(cfg.AccountsPath, id)
	if err != nil {
		return nil, err
	}
	return []*accounts.Account{a}, nil
}

// EncodeOperation appends a single operation to the ledger of its account.
func EncodeOperation(cfg Config, op accounts.Operation) error {
	filename := accounts.LedgerFile(cfg.AccountsPath, op.Account)
	// Open the file in append mode, it must already exist with an open header.
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error opening ledger file %q: %w", filename, err)
	}
	defer f.Close()

	if err := accounts.EncodeOperation(f, op); err != nil {
		return fmt.Errorf("error writing to ledger file %q: %w", filename, err)
	}
	return nil
}
