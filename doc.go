// Package ibcapuk computes UK capital-gains tax disposals from a
// brokerage trade history.
//
// The input is a normalized, chronological sequence of buy and sell
// trades per security (quantity, unit price, currency, date, fees).
// The matching engine identifies which acquisitions each disposal is
// matched against under the UK share-identification rules:
//
//   - Same-day rule: acquisitions made on the disposal date.
//   - 30-day ("bed and breakfast") rule: acquisitions made in the 30
//     calendar days following the disposal.
//   - Section 104 pool: everything else, held at average cost.
//
// Every leg is converted to the reporting currency at its own trade
// date, so all arithmetic is done with exact decimals rather than
// floats. The durable output is a sequence of Disposal records, each
// carrying the full audit breakdown of its matches, which the report
// layer buckets into UK tax years (6 April to 5 April).
//
// This package is the foundational logic for the `ibcap` command-line
// tool.
package ibcapuk
