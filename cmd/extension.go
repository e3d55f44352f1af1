package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Environment variables passed to extensions, they also set the global flags defaults.
const (
	EnvAccountsPath  = "ACV_ACCOUNTS_PATH"
	EnvRatesFile     = "ACV_RATES_FILE"
	EnvUnit          = "ACV_UNIT"
	EnvLogLevel      = "ACV_LOG_LEVEL"
	EnvLogEncoding   = "ACV_LOG_ENCODING"
	EnvRedisURL      = "ACV_REDIS_URL"
	EnvRatesURL      = "ACV_RATES_URL"
	EnvRatesJSONPath = "ACV_RATES_JSONPATH"
	EnvListen        = "ACV_LISTEN"
	EnvTZ            = "ACV_TZ"
	EnvPlain         = "ACV_PLAIN"
)

// RunExtension attempts to find and execute an external acv-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "acv-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = os.Stderr

	// Pass global flags as environment variables.
	cmd.Env = append(os.Environ(),
		EnvAccountsPath+"="+*accountsPath,
		EnvRatesFile+"="+*ratesFile,
		EnvUnit+"="+*unit,
		EnvLogLevel+"="+*logLevel,
		EnvLogEncoding+"="+*logEncoding,
		EnvRedisURL+"="+*redisURL,
		EnvRatesURL+"="+*ratesURL,
		EnvRatesJSONPath+"="+*ratesPath,
		EnvListen+"="+*listen,
		EnvTZ+"="+*tz,
	)
	if *plain {
		cmd.Env = append(cmd.Env, EnvPlain+"=1")
	}

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
