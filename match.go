package ibcapuk

import (
	"fmt"
	"sort"
)

// bedAndBreakfastDays is the lookahead window of the UK 30-day rule.
const bedAndBreakfastDays = 30

// OversoldPositionError reports a disposal whose quantity exceeds all
// matchable supply (same-day, 30-day and pool combined). It is fatal
// for the whole security: it means the input history is incomplete or
// wrong, and must never be silently clamped.
type OversoldPositionError struct {
	Security string
	On       Date
	Quantity Quantity
}

func (e *OversoldPositionError) Error() string {
	return fmt.Sprintf("%s: disposal of %s on %s exceeds all matchable acquisitions",
		e.Security, e.Quantity, e.On)
}

// Result is the outcome of matching a full trade history. Failures are
// isolated per security: one security's error never discards another's
// disposals.
type Result struct {
	// Disposals from every successfully matched security, sorted by
	// (date, sequence number).
	Disposals []Disposal
	// Open holds the non-empty closing Section 104 pools, sorted by
	// security.
	Open []Holding
	// Failed maps each failed security to its reason.
	Failed map[string]error
}

// Holding is the closing Section 104 pool of one security once the
// whole history is matched: what is still held, at what total cost.
type Holding struct {
	Security string
	Quantity Quantity
	Cost     Money // reporting currency
}

// AverageCost returns the holding's cost per unit.
func (h Holding) AverageCost() Money { return h.Cost.Div(h.Quantity) }

// Calculate runs the matching engine over a normalized trade history
// and returns every disposal with its full audit breakdown, in the
// given reporting currency.
//
// Trades must be validated and sorted by (date, sequence number), as
// DecodeTrades guarantees. All FX rates are resolved through rates at
// each trade's own date.
func Calculate(trades Trades, rates RateSource, reportingCurrency string) *Result {
	result := &Result{Failed: make(map[string]error)}

	grouped := trades.bySecurity()
	for _, security := range trades.Securities() {
		disposals, open, err := matchSecurity(security, grouped[security], rates, reportingCurrency)
		if err != nil {
			result.Failed[security] = err
			continue
		}
		result.Disposals = append(result.Disposals, disposals...)
		if !open.Quantity.IsZero() {
			result.Open = append(result.Open, open)
		}
	}

	sortDisposals(result.Disposals)
	return result
}

// openTrade tracks the unconsumed quantity of one trade during
// matching. The Trade itself stays immutable.
type openTrade struct {
	Trade
	remaining Quantity
}

// matcher holds the working state for one security's history.
type matcher struct {
	security  string
	reporting string
	rates     RateSource
	trades    []*openTrade // sorted by (date, sequence number)
	sells     []*sellState // sorted likewise
}

// sellState accumulates the match components of one disposal.
type sellState struct {
	*openTrade
	matches []Match
}

// matchSecurity produces the disposals of a single security.
//
// The 30-day rule looks ahead in the history, so this cannot be a
// single forward pass. It runs in three sweeps over the full history:
//
//  1. every disposal claims its same-day acquisitions, so that a buy is
//     reserved for the sells of its own date before any earlier
//     disposal may take it under the 30-day rule;
//  2. every disposal, earliest first, claims unconsumed acquisitions of
//     the following 30 calendar days, earliest first;
//  3. the remaining quantities stream through the Section 104 pool in
//     chronological order.
//
// A buy consumed in sweeps 1-2 is matched at its own cost and its
// consumed quantity never enters the pool; only the unconsumed
// remainder of a partially matched buy does, at its own proportional
// cost.
func matchSecurity(security string, trades Trades, rates RateSource, reportingCurrency string) ([]Disposal, Holding, error) {
	m := &matcher{security: security, reporting: reportingCurrency, rates: rates}
	for _, t := range trades {
		open := &openTrade{Trade: t, remaining: t.Quantity}
		m.trades = append(m.trades, open)
		if t.Side == Sell {
			m.sells = append(m.sells, &sellState{openTrade: open})
		}
	}

	for _, sell := range m.sells {
		if err := m.claim(sell, SameDay); err != nil {
			return nil, Holding{}, err
		}
	}
	for _, sell := range m.sells {
		if err := m.claim(sell, BedAndBreakfast); err != nil {
			return nil, Holding{}, err
		}
	}
	pool, err := m.pool()
	if err != nil {
		return nil, Holding{}, err
	}

	disposals := make([]Disposal, 0, len(m.sells))
	for _, sell := range m.sells {
		d, err := m.disposal(sell)
		if err != nil {
			return nil, Holding{}, err
		}
		disposals = append(disposals, d)
	}
	open := Holding{Security: security, Quantity: pool.Quantity(), Cost: pool.Cost()}
	return disposals, open, nil
}

// claim consumes acquisition candidates for one disposal under one
// rule. Candidates come in (date, sequence number) order, which is the
// deterministic tie-break.
func (m *matcher) claim(sell *sellState, rule MatchRule) error {
	window := Range{From: sell.Date, To: sell.Date}
	if rule == BedAndBreakfast {
		window = Range{From: sell.Date.Add(1), To: sell.Date.Add(bedAndBreakfastDays)}
	}

	for _, buy := range m.trades {
		if sell.remaining.IsZero() {
			return nil
		}
		if buy.Side != Buy || buy.remaining.IsZero() || !window.Contains(buy.Date) {
			continue
		}

		quantity := sell.remaining.Min(buy.remaining)
		cost, err := m.costShare(buy.Trade, quantity)
		if err != nil {
			return err
		}
		sell.matches = append(sell.matches, Match{
			Rule:     rule,
			Quantity: quantity,
			Cost:     cost,
			TradeID:  buy.ID,
			On:       buy.Date,
		})
		sell.remaining = sell.remaining.Sub(quantity)
		buy.remaining = buy.remaining.Sub(quantity)
	}
	return nil
}

// pool streams every remaining quantity through the Section 104 pool in
// chronological order, and returns the closing pool.
func (m *matcher) pool() (*Pool, error) {
	pool := NewPool(m.security, m.reporting)
	for _, t := range m.trades {
		if t.remaining.IsZero() {
			continue
		}
		switch t.Side {
		case Buy:
			cost, err := m.costShare(t.Trade, t.remaining)
			if err != nil {
				return nil, err
			}
			pool.Acquire(t.remaining, cost)
		case Sell:
			sell := m.sell(t)
			attributed, err := pool.Dispose(t.remaining)
			if err != nil {
				return nil, &OversoldPositionError{Security: m.security, On: t.Date, Quantity: t.remaining}
			}
			sell.matches = append(sell.matches, Match{
				Rule:     Section104,
				Quantity: t.remaining,
				Cost:     attributed,
			})
			t.remaining = Q(0)
		}
	}
	return pool, nil
}

// sell returns the sell state tracking an open trade.
func (m *matcher) sell(t *openTrade) *sellState {
	for _, s := range m.sells {
		if s.openTrade == t {
			return s
		}
	}
	panic("sell trade without state")
}

// disposal finalizes one disposal: proceeds and disposal fees converted
// at the disposal date, matched costs summed in.
func (m *matcher) disposal(sell *sellState) (Disposal, error) {
	proceeds, err := m.convert(sell.Notional(), sell.Date)
	if err != nil {
		return Disposal{}, err
	}
	fees, err := m.convert(sell.Fees, sell.Date)
	if err != nil {
		return Disposal{}, err
	}

	cost := fees
	for _, match := range sell.matches {
		cost = cost.Add(match.Cost)
	}
	return Disposal{
		Security: sell.Security,
		TradeID:  sell.ID,
		On:       sell.Date,
		Quantity: sell.Quantity,
		Proceeds: proceeds,
		Cost:     cost,
		Matches:  sell.matches,
	}, nil
}

// costShare returns the allowable cost of a quantity slice of a buy:
// the proportional share of its notional plus fees, converted to the
// reporting currency at the buy's own date.
func (m *matcher) costShare(t Trade, quantity Quantity) (Money, error) {
	cost, err := m.convert(t.Cost(), t.Date)
	if err != nil {
		return Money{}, err
	}
	if quantity.Equal(t.Quantity) {
		return cost, nil
	}
	return cost.Mul(quantity).Div(t.Quantity), nil
}

// convert expresses an amount in the reporting currency at the rate of
// the given date. Rate failures carry the security context: they are
// fatal for this security's report, never defaulted.
func (m *matcher) convert(amount Money, on Date) (Money, error) {
	if amount.Currency() == m.reporting {
		return amount, nil
	}
	rate, err := m.rates.Rate(amount.Currency(), on)
	if err != nil {
		return Money{}, fmt.Errorf("%s: %w", m.security, err)
	}
	return amount.Convert(rate, m.reporting), nil
}

// sortDisposals orders disposals by (date, sequence number).
func sortDisposals(disposals []Disposal) {
	sort.SliceStable(disposals, func(i, j int) bool {
		if disposals[i].On != disposals[j].On {
			return disposals[i].On.Before(disposals[j].On)
		}
		return disposals[i].TradeID < disposals[j].TradeID
	})
}
