// Package cmd implements the CLI application to compute UK capital
// gains from a normalized trade history.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/emretezel/ibcapuk"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&matchCmd{}, "calculation")
	c.Register(&reportCmd{}, "calculation")
	c.Register(&fetchRatesCmd{}, "rates")
	c.Register(&assistCmd{}, "assist")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var tradesFile = flag.String("trades-file", "trades.csv", "Path to the normalized trades file (CSV)")
var fxDir = flag.String("fx-dir", "fx", "Path to the folder of per-currency FX rate files")
var fxPolicy = flag.String("fx-policy", ibcapuk.NearestBefore.String(), "FX staleness policy (nearest, exact)")
var fxMaxStaleDays = flag.Int("fx-max-stale-days", ibcapuk.DefaultMaxStaleDays, "Lookback bound in days for the 'nearest' FX policy")
var reportingCurrency = flag.String("currency", "GBP", "Reporting currency, 3-letter code")

// DecodeTrades reads the normalized trades from the app trades file.
func DecodeTrades() (ibcapuk.Trades, error) {
	f, err := os.Open(*tradesFile)
	if err != nil {
		return nil, fmt.Errorf("could not open trades file %q: %w", *tradesFile, err)
	}
	defer f.Close()
	return ibcapuk.DecodeTrades(f)
}

// DecodeRates loads the FX rate history from the app FX folder, with
// the staleness policy selected by the app flags.
func DecodeRates() (*ibcapuk.RateHistory, error) {
	if err := ibcapuk.ValidateCurrency(*reportingCurrency); err != nil {
		return nil, err
	}
	history, err := ibcapuk.DecodeRateDir(*fxDir, *reportingCurrency)
	if err != nil {
		return nil, err
	}
	policy, err := ibcapuk.ParseStalePolicy(*fxPolicy)
	if err != nil {
		return nil, err
	}
	history.SetPolicy(policy, *fxMaxStaleDays)
	return history, nil
}

// Calculate runs the matching engine over the app trades and rates.
func Calculate() (*ibcapuk.Result, error) {
	trades, err := DecodeTrades()
	if err != nil {
		return nil, err
	}
	rates, err := DecodeRates()
	if err != nil {
		return nil, err
	}
	return ibcapuk.Calculate(trades, rates, *reportingCurrency), nil
}

// printMarkdown renders markdown for the terminal, falling back to the
// raw text when the renderer is unavailable.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Println(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}
