package cmd

import (
	"flag"

	"github.com/etnz/accounts"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the application: global flags,
// subcommands and their flags.
func Completion() *complete.Command {
	accountIDs := complete.PredictFunc(func(prefix string) []string {
		all, err := accounts.FindAccounts(*accountsPath, "")
		if err != nil {
			return nil
		}
		ids := make([]string, len(all))
		for i, a := range all {
			ids[i] = a.ID
		}
		return ids
	})

	root := &complete.Command{
		Sub: make(map[string]*complete.Command),
		Flags: map[string]complete.Predictor{
			"accounts-path":  predict.Dirs("*"),
			"rates-file":     predict.Files("*.jsonl"),
			"unit":           predict.Something,
			"log-level":      predict.Set{"debug", "info", "warn", "error"},
			"log-encoding":   predict.Set{"console", "json"},
			"redis-url":      predict.Something,
			"rates-url":      predict.Something,
			"rates-jsonpath": predict.Something,
			"listen":         predict.Something,
			"tz":             predict.Set{"Local", "UTC"},
			"plain":          predict.Nothing,
		},
	}
	for _, c := range Commands {
		root.Sub[c.Name()] = commandCompletion(c, accountIDs)
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

// commandCompletion predicts a subcommand flags: "-a" is always an account.
func commandCompletion(c subcommands.Command, accountIDs complete.Predictor) *complete.Command {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	cc := &complete.Command{Flags: make(map[string]complete.Predictor)}
	fs.VisitAll(func(f *flag.Flag) {
		if f.Name == "a" {
			cc.Flags[f.Name] = accountIDs
			return
		}
		cc.Flags[f.Name] = predict.Something
	})
	return cc
}
