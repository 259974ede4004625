package metrics

import (
	"github.com/shopspring/decimal"

	"serum-market-lab/internal/domain"
)

// Liquidity returns the total resting notional on a side: sum of price * size
// over every level, not limited to any trade budget.
func Liquidity(levels domain.Side) decimal.Decimal {
	total := decimal.Zero
	for _, level := range levels {
		total = total.Add(level.Price.Mul(level.Size))
	}
	return total
}
