package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/emretezel/ibcapuk/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the CLI for shell completion. It returns
// immediately unless the shell is asking for completions.
func completion() {
	calculationFlags := map[string]complete.Predictor{
		"trades-file":       predict.Files("*.csv"),
		"fx-dir":            predict.Dirs("*"),
		"fx-policy":         predict.Set{"nearest", "exact"},
		"fx-max-stale-days": predict.Something,
		"currency":          predict.Something,
	}
	ibcap := &complete.Command{
		Flags: calculationFlags,
		Sub: map[string]*complete.Command{
			"match": {Flags: map[string]complete.Predictor{
				"holdings": predict.Files("*.csv"),
			}},
			"report": {Flags: map[string]complete.Predictor{
				"year": predict.Something,
				"o":    predict.Files("*.md"),
			}},
			"fetch-rates": {Flags: map[string]complete.Predictor{
				"c": predict.Something,
				"s": predict.Something,
				"d": predict.Something,
			}},
			"assist": {Flags: map[string]complete.Predictor{
				"year": predict.Something,
			}},
		},
	}
	ibcap.Complete("ibcap")
}

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
