package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/emretezel/ibcapuk"
	"github.com/google/subcommands"
)

// fetchRatesCmd holds the flags for the 'fetch-rates' subcommand.
type fetchRatesCmd struct {
	currency string
	from     string
	to       string
}

func (*fetchRatesCmd) Name() string     { return "fetch-rates" }
func (*fetchRatesCmd) Synopsis() string { return "download daily FX rates into the FX folder" }
func (*fetchRatesCmd) Usage() string {
	return `ibcap fetch-rates -c <currency> -s <date> [-d <date>]

  Downloads the daily conversion rates from a currency to the reporting
  currency and writes them to <fx-dir>/<currency>.csv, merged with any
  rates already on file. Responses are cached on disk for a day.
`
}

func (c *fetchRatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Currency to fetch rates for, 3-letter code (required)")
	f.StringVar(&c.from, "s", "", "Start date of the range to fetch (required)")
	f.StringVar(&c.to, "d", ibcapuk.Today().String(), "End date of the range to fetch")
}

func (c *fetchRatesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.currency == "" || c.from == "" {
		fmt.Fprintln(os.Stderr, "Error: -c and -s flags are required.")
		return subcommands.ExitUsageError
	}
	if err := ibcapuk.ValidateCurrency(c.currency); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	from, err := ibcapuk.ParseDate(c.from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}
	to, err := ibcapuk.ParseDate(c.to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}

	points, err := ibcapuk.FetchRates(ibcapuk.DailyClient(), c.currency, *reportingCurrency, ibcapuk.NewRange(from, to))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching rates: %v\n", err)
		return subcommands.ExitFailure
	}

	merged, err := mergeRates(c.currency, points)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error merging rates: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := ibcapuk.EncodeRateDir(*fxDir, c.currency, merged); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing rates: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Fetched %d %s rates, %d on file.\n", len(points), c.currency, len(merged))
	return subcommands.ExitSuccess
}

// mergeRates combines fetched points with the rates already on file,
// fetched values winning on duplicate dates.
func mergeRates(currency string, points []ibcapuk.RatePoint) ([]ibcapuk.RatePoint, error) {
	history, err := ibcapuk.DecodeRateDir(*fxDir, *reportingCurrency)
	if errors.Is(err, fs.ErrNotExist) {
		return points, nil
	}
	if err != nil {
		return nil, err
	}

	byDate := make(map[ibcapuk.Date]ibcapuk.RatePoint)
	for _, p := range history.Points(currency) {
		byDate[p.On] = p
	}
	for _, p := range points {
		byDate[p.On] = p
	}

	merged := make([]ibcapuk.RatePoint, 0, len(byDate))
	for _, p := range byDate {
		merged = append(merged, p)
	}
	ibcapuk.SortRatePoints(merged)
	return merged, nil
}
