package ibcapuk

import (
	"errors"
	"testing"
)

func TestPool_AcquireThenDisposeIsExact(t *testing.T) {
	pool := NewPool("VOD", "GBP")
	pool.Acquire(Q(3), GBP(100))

	got, err := pool.Dispose(Q(3))
	if err != nil {
		t.Fatalf("Dispose() error = %v", err)
	}
	if !got.Equal(GBP(100)) {
		t.Errorf("Dispose(3) cost = %s, want exactly %s", got, GBP(100))
	}
	if !pool.IsEmpty() {
		t.Errorf("pool quantity after full disposal = %s, want 0", pool.Quantity())
	}
	if !pool.Cost().IsZero() {
		t.Errorf("pool cost after full disposal = %s, want 0", pool.Cost())
	}
}

func TestPool_ProportionalReduction(t *testing.T) {
	pool := NewPool("VOD", "GBP")
	pool.Acquire(Q(50), GBP(500))  // 50 @ 10
	pool.Acquire(Q(50), GBP(600))  // 50 @ 12, average now 11

	got, err := pool.Dispose(Q(40))
	if err != nil {
		t.Fatalf("Dispose() error = %v", err)
	}
	if !got.Equal(GBP(440)) {
		t.Errorf("Dispose(40) cost = %s, want %s", got, GBP(440))
	}
	if !pool.Quantity().Equal(Q(60)) {
		t.Errorf("pool quantity = %s, want 60", pool.Quantity())
	}
	if !pool.Cost().Equal(GBP(660)) {
		t.Errorf("pool cost = %s, want %s", pool.Cost(), GBP(660))
	}
	if !pool.AverageCost().Equal(GBP(11)) {
		t.Errorf("pool average = %s, want %s", pool.AverageCost(), GBP(11))
	}
}

// A repeating-decimal average must not drift: the final disposal takes
// the exact remaining cost, so the attributed costs always sum back to
// the acquired cost.
func TestPool_NoRoundingDrift(t *testing.T) {
	pool := NewPool("VOD", "GBP")
	pool.Acquire(Q(3), GBP(100)) // average 33.333...

	var total Money
	for i := 0; i < 3; i++ {
		cost, err := pool.Dispose(Q(1))
		if err != nil {
			t.Fatalf("Dispose() error = %v", err)
		}
		total = total.Add(cost)
	}
	if !total.Equal(GBP(100)) {
		t.Errorf("sum of attributed costs = %s, want exactly %s", total, GBP(100))
	}
	if !pool.IsEmpty() || !pool.Cost().IsZero() {
		t.Errorf("pool not empty after disposing everything: %s @ %s", pool.Quantity(), pool.Cost())
	}
}

func TestPool_DisposeMoreThanHeld(t *testing.T) {
	pool := NewPool("VOD", "GBP")
	pool.Acquire(Q(5), GBP(50))

	if _, err := pool.Dispose(Q(10)); !errors.Is(err, ErrOversold) {
		t.Fatalf("Dispose(10) error = %v, want ErrOversold", err)
	}
	// The pool must be untouched by the failed disposal.
	if !pool.Quantity().Equal(Q(5)) || !pool.Cost().Equal(GBP(50)) {
		t.Errorf("pool mutated by failed disposal: %s @ %s", pool.Quantity(), pool.Cost())
	}
}

func TestPool_MonotonicConsistency(t *testing.T) {
	pool := NewPool("VOD", "GBP")

	steps := []struct {
		acquire  bool
		quantity float64
		cost     float64
	}{
		{acquire: true, quantity: 100, cost: 1000},
		{acquire: false, quantity: 30},
		{acquire: true, quantity: 10, cost: 200},
		{acquire: false, quantity: 70},
		{acquire: true, quantity: 1, cost: 15},
		{acquire: false, quantity: 11},
	}
	for i, step := range steps {
		if step.acquire {
			pool.Acquire(Q(step.quantity), GBP(step.cost))
		} else if _, err := pool.Dispose(Q(step.quantity)); err != nil {
			t.Fatalf("step %d: Dispose(%v) error = %v", i, step.quantity, err)
		}
		if pool.Quantity().IsNegative() {
			t.Fatalf("step %d: negative pool quantity %s", i, pool.Quantity())
		}
		if pool.AverageCost().IsNegative() {
			t.Fatalf("step %d: negative average cost %s", i, pool.AverageCost())
		}
	}
	if !pool.IsEmpty() {
		t.Errorf("pool quantity = %s, want 0", pool.Quantity())
	}
}

func TestPool_AverageCostOfEmptyPool(t *testing.T) {
	pool := NewPool("VOD", "GBP")
	if !pool.AverageCost().IsZero() {
		t.Errorf("empty pool average = %s, want 0", pool.AverageCost())
	}
}
