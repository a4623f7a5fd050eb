package renderer

import (
	"fmt"
	"strings"

	"github.com/emretezel/ibcapuk"
)

// TaxYearReport renders a full tax-year report as markdown: the
// summary table first, then the audit breakdown of every disposal.
func TaxYearReport(r *ibcapuk.TaxYearReport) string {
	var b strings.Builder

	period := r.Year.Range()
	fmt.Fprintf(&b, "# Capital Gains %s Tax Year\n\n", r.Year)
	fmt.Fprintf(&b, "%s to %s\n\n", period.From.Format("2 January 2006"), period.To.Format("2 January 2006"))

	fmt.Fprintln(&b, "| | |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Number of disposals | %d |\n", len(r.Disposals))
	fmt.Fprintf(&b, "| Disposal proceeds | %s |\n", r.Proceeds)
	fmt.Fprintf(&b, "| Allowable costs | %s |\n", r.Costs)
	fmt.Fprintf(&b, "| Gains | %s |\n", r.Gains)
	fmt.Fprintf(&b, "| Losses | %s |\n", r.Losses)
	fmt.Fprintf(&b, "| Net gain | %s |\n", r.Net.SignedString())
	fmt.Fprintf(&b, "| Annual exempt amount | %s |\n", r.Allowance)
	fmt.Fprintf(&b, "| Taxable gain | %s |\n", r.Taxable)

	if len(r.Disposals) > 0 {
		fmt.Fprint(&b, "\n## Disposals\n\n")
		for i := range r.Disposals {
			fmt.Fprintln(&b, Disposal(&r.Disposals[i]))
		}
	}
	return b.String()
}

// Failures renders the securities that could not be matched, with
// their reasons. The rest of the run is still reported: failures are
// isolated per security.
func Failures(failed map[string]error, securities []string) string {
	if len(failed) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprint(&b, "## Failed Securities\n\n")
	for _, security := range securities {
		if err, ok := failed[security]; ok {
			fmt.Fprintf(&b, "- `%s`: %v\n", security, err)
		}
	}
	return b.String()
}
