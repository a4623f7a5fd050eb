package ibcapuk

import "fmt"

// MatchRule identifies which UK share-identification rule matched a
// slice of a disposal to its acquisition.
type MatchRule int

const (
	// SameDay matches acquisitions made on the disposal date.
	SameDay MatchRule = iota
	// BedAndBreakfast matches acquisitions made in the 30 calendar days
	// following the disposal.
	BedAndBreakfast
	// Section104 matches against the pooled holding at average cost.
	Section104
)

func (r MatchRule) String() string {
	switch r {
	case SameDay:
		return "same-day"
	case BedAndBreakfast:
		return "30-day"
	case Section104:
		return "section-104"
	default:
		return "unknown"
	}
}

// ParseMatchRule parses a string into a MatchRule.
func ParseMatchRule(s string) (MatchRule, error) {
	switch s {
	case "same-day":
		return SameDay, nil
	case "30-day":
		return BedAndBreakfast, nil
	case "section-104":
		return Section104, nil
	default:
		return 0, fmt.Errorf("unknown match rule: %q", s)
	}
}

// Match is one audit component of a disposal: a quantity traced to an
// acquisition under one rule, with its allowable cost in the reporting
// currency (acquisition notional plus proportional acquisition fees,
// converted at the acquisition's own date).
//
// For SameDay and BedAndBreakfast, TradeID and On identify the matched
// buy trade. For Section104 they are zero: the pool has no single
// origin trade.
type Match struct {
	Rule     MatchRule
	Quantity Quantity
	Cost     Money
	TradeID  int
	On       Date
}

// Disposal is one sale event fully attributed to its acquisitions. It
// is the durable output of the matching engine, consumed by the
// tax-year report layer.
type Disposal struct {
	Security string
	TradeID  int
	On       Date
	Quantity Quantity
	Proceeds Money // quantity x price, reporting currency, converted at the disposal date
	Cost     Money // matched acquisition costs plus disposal fees, reporting currency
	Matches  []Match
}

// Gain returns proceeds minus allowable cost. Negative is a loss.
func (d Disposal) Gain() Money { return d.Proceeds.Sub(d.Cost) }

// TaxYear returns the UK tax year the disposal falls in.
func (d Disposal) TaxYear() TaxYear { return TaxYearOf(d.On) }

// MatchedQuantity sums the quantity across all match components. It
// always equals the disposal quantity: no unit is left unmatched and
// none is matched twice.
func (d Disposal) MatchedQuantity() Quantity {
	var total Quantity
	for _, m := range d.Matches {
		total = total.Add(m.Quantity)
	}
	return total
}
