package ibcapuk

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// tradesHeader is the canonical column set of a normalized trades file.
var tradesHeader = []string{"security", "side", "quantity", "price", "currency", "date", "fees"}

// DecodeTrades decodes normalized trades from CSV data.
//
// Each row is validated, identical duplicate rows are dropped, a stable
// sequence number is assigned from file order, and the result is sorted
// by (date, sequence number) as the matching engine requires.
func DecodeTrades(r io.Reader) (Trades, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty trades file")
	}
	if err != nil {
		return nil, fmt.Errorf("could not read trades header: %w", err)
	}
	if len(header) != len(tradesHeader) {
		return nil, fmt.Errorf("invalid trades header %v: want %v", header, tradesHeader)
	}
	for i, col := range tradesHeader {
		if header[i] != col {
			return nil, fmt.Errorf("invalid trades header %v: want %v", header, tradesHeader)
		}
	}

	var trades Trades
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("could not read trades line %d: %w", line, err)
		}

		trade, err := decodeTrade(record, len(trades)+1)
		if err != nil {
			return nil, fmt.Errorf("malformed trade on line %d: %w", line, err)
		}
		if err := trade.Validate(); err != nil {
			return nil, fmt.Errorf("malformed trade on line %d: %w", line, err)
		}

		if duplicated(trades, trade) {
			continue
		}
		trades = append(trades, trade)
	}

	trades.stableSort()
	return trades, nil
}

func decodeTrade(record []string, id int) (Trade, error) {
	if len(record) != len(tradesHeader) {
		return Trade{}, fmt.Errorf("want %d fields, got %d", len(tradesHeader), len(record))
	}

	side, err := ParseSide(record[1])
	if err != nil {
		return Trade{}, err
	}
	quantity, err := decimal.NewFromString(record[2])
	if err != nil {
		return Trade{}, fmt.Errorf("invalid quantity %q: %w", record[2], err)
	}
	price, err := decimal.NewFromString(record[3])
	if err != nil {
		return Trade{}, fmt.Errorf("invalid price %q: %w", record[3], err)
	}
	currency := record[4]
	on, err := ParseDate(record[5])
	if err != nil {
		return Trade{}, err
	}
	fees := decimal.Zero
	if record[6] != "" {
		fees, err = decimal.NewFromString(record[6])
		if err != nil {
			return Trade{}, fmt.Errorf("invalid fees %q: %w", record[6], err)
		}
	}

	return Trade{
		ID:       id,
		Security: record[0],
		Side:     side,
		Quantity: Q(quantity),
		Price:    M(price, currency),
		Fees:     M(fees, currency),
		Date:     on,
	}, nil
}

// duplicated reports whether an identical trade was already decoded.
// Broker exports routinely repeat rows when statements overlap.
func duplicated(trades Trades, trade Trade) bool {
	for _, t := range trades {
		if t.Equal(trade) {
			return true
		}
	}
	return false
}

// holdingsHeader is the column set of the open-holdings dump.
var holdingsHeader = []string{"security", "quantity", "cost", "currency", "average"}

// EncodeHoldings writes the closing Section 104 holdings as CSV.
func EncodeHoldings(w io.Writer, holdings []Holding) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(holdingsHeader); err != nil {
		return err
	}
	for _, h := range holdings {
		record := []string{
			h.Security,
			h.Quantity.String(),
			h.Cost.Amount().String(),
			h.Cost.Currency(),
			h.AverageCost().Amount().String(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeTrades writes trades as canonical CSV, the inverse of DecodeTrades.
func EncodeTrades(w io.Writer, trades Trades) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tradesHeader); err != nil {
		return err
	}
	for _, t := range trades {
		record := []string{
			t.Security,
			t.Side.String(),
			t.Quantity.String(),
			t.Price.Amount().String(),
			t.Price.Currency(),
			t.Date.String(),
			t.Fees.Amount().String(),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
