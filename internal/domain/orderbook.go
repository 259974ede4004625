package domain

import "github.com/shopspring/decimal"

// PriceLevel is resting size aggregated at one price.
type PriceLevel struct {
	Price decimal.Decimal `json:"price"`
	Size  decimal.Decimal `json:"size"`
}

// Side is one side of a book, best price first:
// asks ascending by price, bids descending by price.
type Side []PriceLevel

// OrderBook is a snapshot of both sides of a market.
type OrderBook struct {
	Bids Side // descending
	Asks Side // ascending
}
