// Package renderer turns the calculator's results into markdown
// reports, ready for a terminal renderer or a plain file.
package renderer

import (
	"fmt"
	"strings"

	"github.com/emretezel/ibcapuk"
)

// Disposal renders one disposal with its full match breakdown as a
// markdown fragment.
func Disposal(d *ibcapuk.Disposal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "### %s — sold %s on %s (trade %d)\n\n",
		d.Security, d.Quantity, d.On, d.TradeID)

	fmt.Fprintln(&b, "| Rule | Quantity | Acquired | Trade | Cost |")
	fmt.Fprintln(&b, "|:---|---:|:---|---:|---:|")
	for _, m := range d.Matches {
		acquired, trade := "-", "-"
		if m.Rule != ibcapuk.Section104 {
			acquired = m.On.String()
			trade = fmt.Sprintf("%d", m.TradeID)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			m.Rule, m.Quantity, acquired, trade, m.Cost)
	}

	fmt.Fprintf(&b, "\nProceeds %s, allowable cost %s, %s %s.\n",
		d.Proceeds, d.Cost, gainOrLoss(d.Gain()), d.Gain().SignedString())
	return b.String()
}

func gainOrLoss(gain ibcapuk.Money) string {
	if gain.IsNegative() {
		return "loss"
	}
	return "gain"
}
