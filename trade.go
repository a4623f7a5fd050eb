package ibcapuk

import (
	"fmt"
	"sort"
)

// Side identifies the direction of a trade.
type Side int

const (
	// Buy is an acquisition of a security.
	Buy Side = iota
	// Sell is a disposal of a security.
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return "unknown"
	}
}

// ParseSide parses a string into a Side.
func ParseSide(s string) (Side, error) {
	switch s {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown trade side: %q", s)
	}
}

// Trade is one normalized buy or sell of a security. It is an immutable
// value record: the matching engine tracks consumption in its own
// working state, never by mutating trades.
//
// ID is the stable sequence number assigned at decoding time. It breaks
// ties between trades on the same date, so matching is deterministic.
type Trade struct {
	ID       int
	Security string
	Side     Side
	Quantity Quantity
	Price    Money // unit price, in the trade currency
	Fees     Money // in the trade currency
	Date     Date
}

// Notional returns the trade's quantity times its unit price, in the
// trade currency, fees excluded.
func (t Trade) Notional() Money { return t.Price.Mul(t.Quantity) }

// Cost returns the full acquisition cost of the trade in the trade
// currency: notional plus fees.
func (t Trade) Cost() Money { return t.Notional().Add(t.Fees) }

// Equal reports whether two trades describe the same economic event,
// ignoring the assigned sequence number.
func (t Trade) Equal(o Trade) bool {
	return t.Security == o.Security &&
		t.Side == o.Side &&
		t.Date == o.Date &&
		t.Quantity.Equal(o.Quantity) &&
		t.Price.Equal(o.Price) &&
		t.Fees.Equal(o.Fees)
}

// Validate checks the basic validity of a trade. Invalid trades are
// rejected at the normalization boundary and never reach the matching
// engine.
func (t Trade) Validate() error {
	if t.Security == "" {
		return fmt.Errorf("trade %d: missing security", t.ID)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("trade %d (%s): quantity must be positive, got %s", t.ID, t.Security, t.Quantity)
	}
	if !t.Price.IsPositive() {
		return fmt.Errorf("trade %d (%s): price must be positive, got %s", t.ID, t.Security, t.Price)
	}
	if t.Fees.IsNegative() {
		return fmt.Errorf("trade %d (%s): fees must not be negative, got %s", t.ID, t.Security, t.Fees)
	}
	if t.Price.Currency() != t.Fees.Currency() {
		return fmt.Errorf("trade %d (%s): fees currency %s differs from price currency %s",
			t.ID, t.Security, t.Fees.Currency(), t.Price.Currency())
	}
	if err := ValidateCurrency(t.Price.Currency()); err != nil {
		return fmt.Errorf("trade %d (%s): %w", t.ID, t.Security, err)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("trade %d (%s): missing date", t.ID, t.Security)
	}
	return nil
}

// Trades is a chronologically sorted sequence of trades.
type Trades []Trade

// stableSort sorts trades by (date, sequence number).
func (ts Trades) stableSort() {
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].Date != ts[j].Date {
			return ts[i].Date.Before(ts[j].Date)
		}
		return ts[i].ID < ts[j].ID
	})
}

// Securities returns the sorted list of distinct securities traded.
func (ts Trades) Securities() []string {
	seen := make(map[string]bool)
	var securities []string
	for _, t := range ts {
		if !seen[t.Security] {
			seen[t.Security] = true
			securities = append(securities, t.Security)
		}
	}
	sort.Strings(securities)
	return securities
}

// bySecurity splits the trades per security, each slice kept in
// (date, sequence number) order.
func (ts Trades) bySecurity() map[string]Trades {
	grouped := make(map[string]Trades)
	for _, t := range ts {
		grouped[t.Security] = append(grouped[t.Security], t)
	}
	for _, g := range grouped {
		g.stableSort()
	}
	return grouped
}
