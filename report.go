package ibcapuk

import (
	"fmt"
	"sort"
	"time"
)

// TaxYear is a UK tax year, named by the calendar year containing its
// 6 April start: TaxYear(2024) runs 6 April 2024 to 5 April 2025.
type TaxYear int

// TaxYearOf returns the tax year a date falls in.
func TaxYearOf(on Date) TaxYear {
	start := NewDate(on.Year(), time.April, 6)
	if on.Before(start) {
		return TaxYear(on.Year() - 1)
	}
	return TaxYear(on.Year())
}

// Range returns the inclusive date range of the tax year.
func (y TaxYear) Range() Range {
	return Range{
		From: NewDate(int(y), time.April, 6),
		To:   NewDate(int(y)+1, time.April, 5),
	}
}

// String formats a tax year the way HMRC writes it, e.g. "2024/25".
func (y TaxYear) String() string {
	return fmt.Sprintf("%d/%02d", int(y), (int(y)+1)%100)
}

// annualExemptAmounts is the HMRC annual exempt amount for individuals,
// in GBP, by tax year. Years not listed report a zero allowance.
var annualExemptAmounts = map[TaxYear]int64{
	2016: 11100,
	2017: 11300,
	2018: 11700,
	2019: 12000,
	2020: 12300,
	2021: 12300,
	2022: 12300,
	2023: 6000,
	2024: 3000,
	2025: 3000,
}

// AnnualExemptAmount returns the capital-gains allowance for a tax year.
func AnnualExemptAmount(y TaxYear) Money {
	return M(annualExemptAmounts[y], "GBP")
}

// TaxYearReport aggregates the disposals of one UK tax year. The
// matching engine knows nothing about tax-year boundaries: bucketing
// and summation happen entirely here, from each disposal's date.
type TaxYearReport struct {
	Year      TaxYear
	Disposals []Disposal
	Proceeds  Money // total disposal proceeds
	Costs     Money // total allowable costs
	Gains     Money // sum of gains, positive
	Losses    Money // sum of losses, positive magnitude
	Net       Money // Gains - Losses
	Allowance Money // annual exempt amount for the year
	Taxable   Money // Net less the allowance, floored at zero
}

// NewTaxYearReport buckets the disposals falling in the given tax year
// and computes its aggregates in the given reporting currency.
func NewTaxYearReport(year TaxYear, disposals []Disposal, reportingCurrency string) *TaxYearReport {
	report := &TaxYearReport{
		Year:      year,
		Proceeds:  M(0, reportingCurrency),
		Costs:     M(0, reportingCurrency),
		Gains:     M(0, reportingCurrency),
		Losses:    M(0, reportingCurrency),
		Allowance: M(0, reportingCurrency),
	}
	// The annual exempt amount is defined in GBP only.
	if reportingCurrency == "GBP" {
		report.Allowance = AnnualExemptAmount(year)
	}

	period := year.Range()
	for _, d := range disposals {
		if !period.Contains(d.On) {
			continue
		}
		report.Disposals = append(report.Disposals, d)
		report.Proceeds = report.Proceeds.Add(d.Proceeds)
		report.Costs = report.Costs.Add(d.Cost)
		if gain := d.Gain(); gain.IsNegative() {
			report.Losses = report.Losses.Add(gain.Neg())
		} else {
			report.Gains = report.Gains.Add(gain)
		}
	}

	report.Net = report.Gains.Sub(report.Losses)
	taxable := report.Net.Sub(report.Allowance)
	if taxable.IsNegative() {
		taxable = M(0, reportingCurrency)
	}
	report.Taxable = taxable
	return report
}

// TaxYears returns the sorted distinct tax years the disposals span.
func TaxYears(disposals []Disposal) []TaxYear {
	seen := make(map[TaxYear]bool)
	var years []TaxYear
	for _, d := range disposals {
		y := d.TaxYear()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Slice(years, func(i, j int) bool { return years[i] < years[j] })
	return years
}
