package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/emretezel/ibcapuk"
	"github.com/emretezel/ibcapuk/agent"
	"github.com/emretezel/ibcapuk/renderer"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// assistCmd holds the flags for the 'assist' subcommand.
type assistCmd struct {
	year int
}

func (*assistCmd) Name() string     { return "assist" }
func (*assistCmd) Synopsis() string { return "interactive AI session over the tax report" }
func (*assistCmd) Usage() string {
	return `ibcap assist [-year <year>] [question...]

  Computes the tax-year report and starts an interactive session with
  an AI assistant that answers questions about it. Requires Gemini API
  credentials in the environment.
`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", int(ibcapuk.TaxYearOf(ibcapuk.Today())), "Tax year the session is about")
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

	result, err := Calculate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	report := ibcapuk.NewTaxYearReport(ibcapuk.TaxYear(c.year), result.Disposals, *reportingCurrency)

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating Gemini client: %v\n", err)
		return subcommands.ExitFailure
	}

	a := agent.New(os.Stdout, os.Stdin, renderer.TaxYearReport(report))
	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
