package domain

import "github.com/shopspring/decimal"

// Impact is a price impact measurement in percent.
// Indeterminate is set when a tranche filled nothing and the ratio has no value.
// Partial is set when the book ran out before a tranche's budget was spent.
type Impact struct {
	Pct           decimal.Decimal `json:"pct"`
	Partial       bool            `json:"partial,omitempty"`
	Indeterminate bool            `json:"indeterminate,omitempty"`
}

// Exceeds reports whether the impact is above threshold.
// An indeterminate impact always exceeds.
func (i Impact) Exceeds(threshold decimal.Decimal) bool {
	if i.Indeterminate {
		return true
	}
	return i.Pct.GreaterThan(threshold)
}

// String renders the impact with two decimals, "n/a" when indeterminate.
func (i Impact) String() string {
	if i.Indeterminate {
		return "n/a"
	}
	s := i.Pct.StringFixed(2)
	if i.Partial {
		s += "*"
	}
	return s
}

// AnalyticsResult is the per-market outcome of an analytics run.
type AnalyticsResult struct {
	Market          Market          `json:"market"`
	BidImpact       Impact          `json:"bidImpact"`
	AskImpact       Impact          `json:"askImpact"`
	BidLiquidityUSD decimal.Decimal `json:"bidLiquidityUsd"`
	AskLiquidityUSD decimal.Decimal `json:"askLiquidityUsd"`
}
