package ibcapuk

import "github.com/shopspring/decimal"

// GBP is a helper for tests to create pound money from const
func GBP(v float64) Money { return M(v, "GBP") }

// USD is a helper for tests to create dollar money from const
func USD(v float64) Money { return M(v, "USD") }

// fixedRates is a RateSource with hard-coded (currency, date) rates,
// keyed by "USD 2024-01-02".
type fixedRates map[string]float64

func (r fixedRates) Rate(currency string, on Date) (decimal.Decimal, error) {
	if currency == "GBP" {
		return decimal.NewFromInt(1), nil
	}
	if rate, ok := r[currency+" "+on.String()]; ok {
		return decimal.NewFromFloat(rate), nil
	}
	return decimal.Decimal{}, &RateUnavailableError{Currency: currency, On: on}
}

// tr builds a trade for tests.
func tr(id int, security string, side Side, quantity, price float64, currency, on string, fees float64) Trade {
	return Trade{
		ID:       id,
		Security: security,
		Side:     side,
		Quantity: Q(quantity),
		Price:    M(price, currency),
		Fees:     M(fees, currency),
		Date:     MustParseDate(on),
	}
}
