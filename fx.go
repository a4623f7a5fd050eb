package ibcapuk

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// RateSource resolves the conversion rate from a currency to the
// reporting currency on a given date. Implementations must fail with a
// RateUnavailableError rather than substitute an arbitrary rate.
type RateSource interface {
	Rate(currency string, on Date) (decimal.Decimal, error)
}

// RateUnavailableError reports that no conversion rate exists for a
// currency on a date under the configured staleness policy.
type RateUnavailableError struct {
	Currency string
	On       Date
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("no %s rate available on %s", e.Currency, e.On)
}

// StalePolicy selects the fallback behavior when no rate exists for the
// exact requested date.
type StalePolicy int

const (
	// NearestBefore falls back to the closest earlier rate, within a
	// bounded number of days. Daily FX series have no weekend or bank
	// holiday rows, so this is the usual choice.
	NearestBefore StalePolicy = iota
	// ExactDate requires a rate on the requested day.
	ExactDate
)

func (p StalePolicy) String() string {
	switch p {
	case NearestBefore:
		return "nearest"
	case ExactDate:
		return "exact"
	default:
		return "unknown"
	}
}

// ParseStalePolicy parses a string into a StalePolicy.
func ParseStalePolicy(s string) (StalePolicy, error) {
	switch s {
	case "nearest":
		return NearestBefore, nil
	case "exact":
		return ExactDate, nil
	default:
		return 0, fmt.Errorf("unknown FX staleness policy: %q", s)
	}
}

// DefaultMaxStaleDays bounds the NearestBefore lookback. A week covers
// any weekend plus bank holiday gap without hiding genuinely stale data.
const DefaultMaxStaleDays = 7

// RatePoint is one dated conversion rate.
type RatePoint struct {
	On   Date
	Rate decimal.Decimal // reporting currency units per 1 unit of the foreign currency
}

// RateHistory is an in-memory RateSource backed by per-currency dated
// rate series. All lookups happen on pre-fetched data: the matching
// engine never blocks on I/O.
type RateHistory struct {
	reporting    string
	policy       StalePolicy
	maxStaleDays int
	series       map[string][]RatePoint // sorted by date
}

// NewRateHistory returns an empty history converting to the given
// reporting currency, with the NearestBefore policy.
func NewRateHistory(reportingCurrency string) *RateHistory {
	return &RateHistory{
		reporting:    reportingCurrency,
		policy:       NearestBefore,
		maxStaleDays: DefaultMaxStaleDays,
		series:       make(map[string][]RatePoint),
	}
}

// SetPolicy configures the staleness fallback. maxStaleDays is only
// meaningful for NearestBefore.
func (h *RateHistory) SetPolicy(policy StalePolicy, maxStaleDays int) {
	h.policy = policy
	h.maxStaleDays = maxStaleDays
}

// ReportingCurrency returns the currency all rates convert to.
func (h *RateHistory) ReportingCurrency() string { return h.reporting }

// Append records a rate for a currency, keeping the series sorted.
func (h *RateHistory) Append(currency string, on Date, rate decimal.Decimal) {
	points := append(h.series[currency], RatePoint{On: on, Rate: rate})
	SortRatePoints(points)
	h.series[currency] = points
}

// Points returns a currency's rate series, sorted by date.
func (h *RateHistory) Points(currency string) []RatePoint {
	return h.series[currency]
}

// SortRatePoints orders rate points by date.
func SortRatePoints(points []RatePoint) {
	sort.SliceStable(points, func(i, j int) bool { return points[i].On.Before(points[j].On) })
}

// Rate implements RateSource. The reporting currency always converts at 1.
func (h *RateHistory) Rate(currency string, on Date) (decimal.Decimal, error) {
	if currency == h.reporting {
		return decimal.NewFromInt(1), nil
	}

	points := h.series[currency]
	// latest point at or before the requested date
	i := sort.Search(len(points), func(i int) bool { return points[i].On.After(on) }) - 1
	if i < 0 {
		return decimal.Decimal{}, &RateUnavailableError{Currency: currency, On: on}
	}

	point := points[i]
	switch h.policy {
	case ExactDate:
		if point.On != on {
			return decimal.Decimal{}, &RateUnavailableError{Currency: currency, On: on}
		}
	case NearestBefore:
		if point.On.Before(on.Add(-h.maxStaleDays)) {
			return decimal.Decimal{}, &RateUnavailableError{Currency: currency, On: on}
		}
	}
	return point.Rate, nil
}

// ratesHeader is the column set of a per-currency rates file.
var ratesHeader = []string{"date", "rate"}

// DecodeRates reads one currency's dated rate series from CSV data.
func DecodeRates(r io.Reader) ([]RatePoint, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read rates header: %w", err)
	}
	if len(header) != 2 || header[0] != ratesHeader[0] || header[1] != ratesHeader[1] {
		return nil, fmt.Errorf("invalid rates header %v: want %v", header, ratesHeader)
	}

	var points []RatePoint
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read rates line: %w", err)
		}
		on, err := ParseDate(record[0])
		if err != nil {
			return nil, err
		}
		rate, err := decimal.NewFromString(record[1])
		if err != nil {
			return nil, fmt.Errorf("invalid rate %q on %s: %w", record[1], on, err)
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("invalid rate %s on %s: must be positive", rate, on)
		}
		points = append(points, RatePoint{On: on, Rate: rate})
	}
	return points, nil
}

// EncodeRates writes one currency's rate series as CSV.
func EncodeRates(w io.Writer, points []RatePoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ratesHeader); err != nil {
		return err
	}
	for _, p := range points {
		if err := cw.Write([]string{p.On.String(), p.Rate.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeRateDir loads a RateHistory from a directory of per-currency
// CSV files. The file stem names the currency: USD.csv holds the dated
// USD rates to the reporting currency.
func DecodeRateDir(dir, reportingCurrency string) (*RateHistory, error) {
	history := NewRateHistory(reportingCurrency)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read FX directory %q: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		currency := strings.TrimSuffix(entry.Name(), ".csv")
		if err := ValidateCurrency(currency); err != nil {
			return nil, fmt.Errorf("FX file %q: %w", entry.Name(), err)
		}

		f, err := os.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		points, err := DecodeRates(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("FX file %q: %w", entry.Name(), err)
		}
		for _, p := range points {
			history.Append(currency, p.On, p.Rate)
		}
	}
	return history, nil
}

// EncodeRateDir writes one currency's series into its file in dir,
// creating the directory as needed.
func EncodeRateDir(dir, currency string, points []RatePoint) error {
	if err := os.MkdirAll(dir, fs.FileMode(0755)); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, currency+".csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeRates(f, points)
}
