package analytics

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"serum-market-lab/internal/domain"
	"serum-market-lab/internal/network"
)

// Report is the outcome of a run.
type Report struct {
	// Network and Program are unset for watchlist runs.
	Network network.ID        `json:"network,omitempty"`
	Program *solana.PublicKey `json:"program,omitempty"`

	// Markets lists every market considered, sorted.
	Markets []domain.Market `json:"markets"`

	// PriceChange is set when Results hold order book analytics.
	PriceChange bool                     `json:"priceChange"`
	Results     []domain.AnalyticsResult `json:"results,omitempty"`
	Notional    decimal.Decimal          `json:"notional"`
	Threshold   *decimal.Decimal         `json:"threshold,omitempty"`

	// Dropped counts markets removed by the threshold.
	Dropped int       `json:"dropped"`
	Skipped []Skipped `json:"skipped,omitempty"`
}

// Skipped is a market whose book could not be loaded.
type Skipped struct {
	Market domain.Market `json:"market"`
	Reason string        `json:"reason"`
}
