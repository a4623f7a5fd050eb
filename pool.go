package ibcapuk

import "errors"

// ErrOversold is returned by Pool.Dispose when more quantity is
// requested than the pool holds. The engine wraps it with the security
// and date context.
var ErrOversold = errors.New("disposal exceeds pooled quantity")

// Pool is the Section 104 holding of one security: the total quantity
// and total cost (in the reporting currency) of every acquisition not
// matched by the same-day or 30-day rules.
//
// The average cost is always derived from cost/quantity, never stored,
// so it self-corrects after every acquisition. Disposals reduce
// quantity and cost proportionally, which keeps the immediate
// acquire-then-dispose round trip exact.
type Pool struct {
	security string
	quantity Quantity
	cost     Money
}

// NewPool returns an empty pool for a security, costed in the given
// reporting currency.
func NewPool(security, reportingCurrency string) *Pool {
	return &Pool{security: security, cost: M(0, reportingCurrency)}
}

// Security returns the security this pool holds.
func (p *Pool) Security() string { return p.security }

// Quantity returns the pooled quantity.
func (p *Pool) Quantity() Quantity { return p.quantity }

// Cost returns the total pooled cost in the reporting currency.
func (p *Pool) Cost() Money { return p.cost }

// IsEmpty reports whether the pool holds nothing.
func (p *Pool) IsEmpty() bool { return p.quantity.IsZero() }

// AverageCost returns the pooled cost per unit, zero for an empty pool.
func (p *Pool) AverageCost() Money {
	if p.quantity.IsZero() {
		return M(0, p.cost.Currency())
	}
	return p.cost.Div(p.quantity)
}

// Acquire adds a quantity at its full acquisition cost.
func (p *Pool) Acquire(quantity Quantity, cost Money) {
	p.quantity = p.quantity.Add(quantity)
	p.cost = p.cost.Add(cost)
}

// Dispose removes a quantity and returns the cost attributed to it at
// the pool's average. Both quantity and cost are reduced by the exact
// proportional amount rather than recomputed independently, to avoid
// rounding drift. Asking for more than the pool holds is ErrOversold:
// the pool is never clamped.
func (p *Pool) Dispose(quantity Quantity) (Money, error) {
	if quantity.GreaterThan(p.quantity) {
		return Money{}, ErrOversold
	}
	attributed := p.cost.Mul(quantity).Div(p.quantity)
	p.quantity = p.quantity.Sub(quantity)
	p.cost = p.cost.Sub(attributed)
	return attributed, nil
}
