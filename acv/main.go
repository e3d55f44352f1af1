// Command acv browses account balances and operations.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/accounts/cmd"
	"github.com/google/subcommands"
)

func main() {
	// Shell completion, it exits when invoked by the shell.
	cmd.Completion().Complete("acv")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	// Unknown subcommands are delegated to acv-<name> binaries in PATH.
	if name := flag.Arg(0); name != "" && !cmd.IsCommand(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}
