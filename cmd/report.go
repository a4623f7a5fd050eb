package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/emretezel/ibcapuk"
	"github.com/emretezel/ibcapuk/renderer"
	"github.com/google/subcommands"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	year       int
	outputFile string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "tax-year capital gains report" }
func (*reportCmd) Usage() string {
	return `ibcap report [-year <year>] [-o <file>]

  Aggregates the disposals of one UK tax year (6 April to 5 April) and
  prints the gains, losses and taxable amount after the annual exempt
  amount. The year is named by its 6 April start: -year 2024 reports
  6 April 2024 to 5 April 2025. Defaults to the current tax year.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", int(ibcapuk.TaxYearOf(ibcapuk.Today())), "Tax year to report (year of its 6 April start)")
	f.StringVar(&c.outputFile, "o", "", "Write the report markdown to a file instead of the terminal")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	result, err := Calculate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	report := ibcapuk.NewTaxYearReport(ibcapuk.TaxYear(c.year), result.Disposals, *reportingCurrency)

	var b strings.Builder
	fmt.Fprint(&b, renderer.TaxYearReport(report))
	fmt.Fprint(&b, renderer.Failures(result.Failed, failedSecurities(result)))

	if c.outputFile != "" {
		if err := os.WriteFile(c.outputFile, []byte(b.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			return subcommands.ExitFailure
		}
	} else {
		printMarkdown(b.String())
	}

	if len(result.Failed) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
