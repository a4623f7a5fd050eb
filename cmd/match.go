package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/emretezel/ibcapuk"
	"github.com/emretezel/ibcapuk/renderer"
	"github.com/google/subcommands"
)

// matchCmd holds the flags for the 'match' subcommand.
type matchCmd struct {
	holdingsFile string
}

func (*matchCmd) Name() string     { return "match" }
func (*matchCmd) Synopsis() string { return "match every disposal against its acquisitions" }
func (*matchCmd) Usage() string {
	return `ibcap match [-holdings <file>]

  Runs the UK share-identification rules (same-day, 30-day, Section 104
  pool) over the whole trade history and prints every disposal with its
  match breakdown. The closing Section 104 holdings are written to the
  holdings file.
`
}

func (c *matchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.holdingsFile, "holdings", "holdings.csv", "File to write the closing holdings to (CSV)")
}

func (c *matchCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	result, err := Calculate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	fmt.Fprint(&b, "# Disposals\n\n")
	for i := range result.Disposals {
		fmt.Fprintln(&b, renderer.Disposal(&result.Disposals[i]))
	}
	fmt.Fprint(&b, renderer.Failures(result.Failed, failedSecurities(result)))
	printMarkdown(b.String())

	if err := writeHoldings(c.holdingsFile, result.Open); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	if len(result.Failed) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func writeHoldings(filename string, holdings []ibcapuk.Holding) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return ibcapuk.EncodeHoldings(f, holdings)
}

func failedSecurities(result *ibcapuk.Result) []string {
	securities := make([]string, 0, len(result.Failed))
	for security := range result.Failed {
		securities = append(securities, security)
	}
	sort.Strings(securities)
	return securities
}
