// Package metrics computes market-quality metrics from order book sides.
package metrics

import (
	"github.com/shopspring/decimal"

	"serum-market-lab/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// ImpactResult holds the outcome of a two-tranche walk over one side.
type ImpactResult struct {
	Budget    decimal.Decimal
	Filled1   decimal.Decimal // size bought/sold by the first tranche
	Filled2   decimal.Decimal // size bought/sold by the second tranche
	AvgPrice1 decimal.Decimal
	AvgPrice2 decimal.Decimal
	Ratio     decimal.Decimal // 1 - AvgPrice1/AvgPrice2, signed

	// Partial is set when the book ended before both budgets were spent.
	// Average prices are still computed over what was filled.
	Partial bool
	// Indeterminate is set when a tranche filled nothing.
	// Ratio and average prices are zero in that case.
	Indeterminate bool
}

// Impact converts the walk result to an absolute percentage.
func (r ImpactResult) Impact() domain.Impact {
	if r.Indeterminate {
		return domain.Impact{Partial: r.Partial, Indeterminate: true}
	}
	return domain.Impact{
		Pct:     r.Ratio.Abs().Mul(hundred),
		Partial: r.Partial,
	}
}

// walkState carries the accumulators of both tranches through the fold.
type walkState struct {
	remaining1 decimal.Decimal
	filled1    decimal.Decimal
	remaining2 decimal.Decimal
	filled2    decimal.Decimal
}

func (s walkState) done() bool {
	return !s.remaining1.IsPositive() && !s.remaining2.IsPositive()
}

// step consumes one level. The second tranche starts on whatever size
// the first tranche left at the level where it finished.
func (s walkState) step(level domain.PriceLevel) walkState {
	if !level.Price.IsPositive() || !level.Size.IsPositive() {
		return s
	}

	available := level.Size
	if s.remaining1.IsPositive() {
		size, spent := take(s.remaining1, level.Price, available)
		s.filled1 = s.filled1.Add(size)
		s.remaining1 = s.remaining1.Sub(spent)
		available = available.Sub(size)
	}

	if !s.remaining1.IsPositive() && s.remaining2.IsPositive() && available.IsPositive() {
		size, spent := take(s.remaining2, level.Price, available)
		s.filled2 = s.filled2.Add(size)
		s.remaining2 = s.remaining2.Sub(spent)
	}

	return s
}

// take fills up to budget notional at price from available size.
// When the level covers the budget the whole budget is reported as spent,
// so the remaining budget reaches exactly zero.
func take(budget, price, available decimal.Decimal) (size, spent decimal.Decimal) {
	sizeMax := budget.Div(price)
	if sizeMax.LessThan(available) {
		return sizeMax, budget
	}
	return available, available.Mul(price)
}

// PriceImpact walks levels (best price first) with two consecutive tranches
// of budget notional each and compares their average execution prices.
// The input is not modified. Bids must be passed in descending price order.
func PriceImpact(levels domain.Side, budget decimal.Decimal) ImpactResult {
	state := walkState{remaining1: budget, remaining2: budget}
	for _, level := range levels {
		state = state.step(level)
		if state.done() {
			break
		}
	}

	result := ImpactResult{
		Budget:  budget,
		Filled1: state.filled1,
		Filled2: state.filled2,
		Partial: state.remaining1.IsPositive() || state.remaining2.IsPositive(),
	}

	if !state.filled1.IsPositive() || !state.filled2.IsPositive() {
		result.Indeterminate = true
		return result
	}

	result.AvgPrice1 = budget.Div(state.filled1)
	result.AvgPrice2 = budget.Div(state.filled2)
	result.Ratio = decimal.NewFromInt(1).Sub(result.AvgPrice1.Div(result.AvgPrice2))
	return result
}

// Reverse returns a reversed copy of levels.
func Reverse(levels domain.Side) domain.Side {
	out := make(domain.Side, len(levels))
	for i, level := range levels {
		out[len(levels)-1-i] = level
	}
	return out
}
