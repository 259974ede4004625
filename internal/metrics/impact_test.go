package metrics

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"serum-market-lab/internal/domain"
)

func level(price, size string) domain.PriceLevel {
	return domain.PriceLevel{
		Price: decimal.RequireFromString(price),
		Size:  decimal.RequireFromString(size),
	}
}

func TestPriceImpact_RisingAsks(t *testing.T) {
	asks := domain.Side{
		level("1.00", "5000"),
		level("1.01", "5000"),
		level("1.02", "20000"),
	}
	budget := decimal.NewFromInt(10000)

	r := PriceImpact(asks, budget)

	if r.Indeterminate || r.Partial {
		t.Fatalf("expected determinate full fill, got %+v", r)
	}
	if !r.AvgPrice1.LessThan(r.AvgPrice2) {
		t.Errorf("expected avgPrice1 < avgPrice2, got %s >= %s", r.AvgPrice1, r.AvgPrice2)
	}

	// Fill 1: 5000@1.00 + 4950.495...@1.01
	// Fill 2: remaining 49.504...@1.01 (50 notional) + 9950/1.02 @1.02
	filled1 := 5000 + 5000/1.01
	filled2 := (5000 - 5000/1.01) + 9950/1.02
	want := math.Abs(1-(10000/filled1)/(10000/filled2)) * 100

	got := r.Impact().Pct.InexactFloat64()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("impact pct: got %.12f, want %.12f", got, want)
	}
	if got <= 0 {
		t.Errorf("expected positive impact, got %f", got)
	}
}

func TestPriceImpact_DescendingBids(t *testing.T) {
	bids := domain.Side{
		level("0.99", "20000"),
		level("0.98", "20000"),
		level("0.97", "20000"),
	}

	r := PriceImpact(bids, decimal.NewFromInt(10000))
	if r.Indeterminate {
		t.Fatal("expected determinate result")
	}
	// Falling prices: the second tranche gets more size per dollar.
	if !r.AvgPrice1.GreaterThan(r.AvgPrice2) {
		t.Errorf("expected avgPrice1 > avgPrice2 for bids, got %s <= %s", r.AvgPrice1, r.AvgPrice2)
	}
	if !r.Ratio.IsNegative() {
		t.Errorf("expected negative signed ratio for bids, got %s", r.Ratio)
	}
	if !r.Impact().Pct.IsPositive() {
		t.Errorf("expected positive absolute impact, got %s", r.Impact().Pct)
	}
}

func TestPriceImpact_IdenticalPricesIsZero(t *testing.T) {
	levels := domain.Side{
		level("1.25", "3000"),
		level("1.25", "7000"),
		level("1.25", "50000"),
	}

	for _, b := range []string{"1", "100", "2500", "10000", "31250"} {
		r := PriceImpact(levels, decimal.RequireFromString(b))
		if r.Indeterminate || r.Partial {
			t.Fatalf("budget %s: expected full fill, got %+v", b, r)
		}
		if !r.Ratio.IsZero() {
			t.Errorf("budget %s: expected exactly zero impact, got %s", b, r.Ratio)
		}
	}
}

func TestPriceImpact_DeepBookFiniteNonNegative(t *testing.T) {
	levels := domain.Side{}
	for i := 0; i < 50; i++ {
		price := decimal.NewFromFloat(1.0).Add(decimal.NewFromInt(int64(i)).Mul(decimal.RequireFromString("0.003")))
		levels = append(levels, domain.PriceLevel{Price: price, Size: decimal.NewFromInt(700)})
	}
	// Total depth is roughly 36k notional, more than 2x budget.
	r := PriceImpact(levels, decimal.NewFromInt(10000))
	if r.Indeterminate || r.Partial {
		t.Fatalf("expected full fill, got %+v", r)
	}
	if r.Impact().Pct.IsNegative() {
		t.Errorf("expected non-negative impact, got %s", r.Impact().Pct)
	}
}

func TestPriceImpact_StopsAfterSecondTranche(t *testing.T) {
	levels := domain.Side{
		level("2", "10000"),
		level("1000", "1"), // would distort the result if consumed
	}

	r := PriceImpact(levels, decimal.NewFromInt(100))
	if !r.Ratio.IsZero() {
		t.Errorf("expected walk to stop before the second level, ratio %s", r.Ratio)
	}
	if !r.Filled1.Equal(decimal.NewFromInt(50)) || !r.Filled2.Equal(decimal.NewFromInt(50)) {
		t.Errorf("unexpected fills: %s / %s", r.Filled1, r.Filled2)
	}
}

func TestPriceImpact_DoesNotMutateInput(t *testing.T) {
	levels := domain.Side{level("1", "10"), level("2", "10")}
	before := make(domain.Side, len(levels))
	copy(before, levels)

	PriceImpact(levels, decimal.NewFromInt(15))

	for i := range levels {
		if !levels[i].Price.Equal(before[i].Price) || !levels[i].Size.Equal(before[i].Size) {
			t.Fatalf("level %d mutated: %+v -> %+v", i, before[i], levels[i])
		}
	}
}

// Degenerate books are reported as flags on the result, not as errors.
func TestPriceImpact_InsufficientDepthForFirstTranche(t *testing.T) {
	levels := domain.Side{level("1", "100")}

	r := PriceImpact(levels, decimal.NewFromInt(10000))

	if !r.Partial {
		t.Error("expected partial fill")
	}
	if !r.Indeterminate {
		t.Error("expected indeterminate result: second tranche filled nothing")
	}
	if !r.Impact().Indeterminate {
		t.Error("expected indeterminate impact")
	}
}

func TestPriceImpact_PartialSecondTranche(t *testing.T) {
	levels := domain.Side{level("1", "100"), level("2", "10")}

	r := PriceImpact(levels, decimal.NewFromInt(100))

	if r.Indeterminate {
		t.Fatal("expected determinate result")
	}
	if !r.Partial {
		t.Error("expected partial flag")
	}
	// Second tranche spent only 20 of 100; its average price is inflated: 100/10.
	if !r.AvgPrice2.Equal(decimal.NewFromInt(10)) {
		t.Errorf("expected inflated avgPrice2 10, got %s", r.AvgPrice2)
	}
}

func TestPriceImpact_EmptyBook(t *testing.T) {
	r := PriceImpact(nil, decimal.NewFromInt(10000))
	if !r.Indeterminate || !r.Partial {
		t.Errorf("expected indeterminate partial result, got %+v", r)
	}
	if got := r.Impact().String(); got != "n/a" {
		t.Errorf("expected n/a, got %s", got)
	}
}

func TestPriceImpact_SkipsEmptyLevels(t *testing.T) {
	levels := domain.Side{level("0", "100"), level("1", "0"), level("2", "100")}

	r := PriceImpact(levels, decimal.NewFromInt(50))
	if r.Indeterminate {
		t.Fatal("expected determinate result")
	}
	if !r.AvgPrice1.Equal(decimal.NewFromInt(2)) {
		t.Errorf("expected avgPrice1 2, got %s", r.AvgPrice1)
	}
}

func TestReverse(t *testing.T) {
	levels := domain.Side{level("1", "1"), level("2", "2"), level("3", "3")}

	rev := Reverse(levels)

	if !rev[0].Price.Equal(decimal.NewFromInt(3)) || !rev[2].Price.Equal(decimal.NewFromInt(1)) {
		t.Errorf("unexpected order: %v", rev)
	}
	if !levels[0].Price.Equal(decimal.NewFromInt(1)) {
		t.Error("input was modified")
	}
}
