package domain

import (
	"github.com/gagliardetto/solana-go"
)

// MarketRecordSize is the byte length of a Serum v3 market account.
const MarketRecordSize = 388

// AccountFlag is a bit in the Serum account flags word.
type AccountFlag uint64

// Serum account flags.
const (
	FlagInitialized  AccountFlag = 1 << 0
	FlagMarket       AccountFlag = 1 << 1
	FlagOpenOrders   AccountFlag = 1 << 2
	FlagRequestQueue AccountFlag = 1 << 3
	FlagEventQueue   AccountFlag = 1 << 4
	FlagBids         AccountFlag = 1 << 5
	FlagAsks         AccountFlag = 1 << 6
	FlagDisabled     AccountFlag = 1 << 7
)

// MarketFlags is the exact flag word carried by a live market account.
const MarketFlags = FlagInitialized | FlagMarket

// Has reports whether all bits of f are set.
func (a AccountFlag) Has(f AccountFlag) bool {
	return a&f == f
}

// MarketRecord holds the decoded fields of one on-chain market account.
type MarketRecord struct {
	Address      solana.PublicKey
	AccountFlags AccountFlag
	BaseMint     solana.PublicKey
	QuoteMint    solana.PublicKey
	DataLen      int
}

// IsLiveMarket reports whether the record carries exactly the initialized and market flags.
func (r *MarketRecord) IsLiveMarket() bool {
	return r.AccountFlags == MarketFlags
}

// Market is a resolved venue passed to analytics.
type Market struct {
	Name      string           `json:"name"`
	Address   solana.PublicKey `json:"address"`
	ProgramID solana.PublicKey `json:"programId"`

	// Named is false when the record could not be decoded into a name.
	// Unnamed markets sort after all named ones.
	Named bool `json:"-"`
}
