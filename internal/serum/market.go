// Package serum reads Serum DEX v3 market and order book accounts.
package serum

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"serum-market-lab/internal/domain"
)

// ErrInvalidAccount is returned when account data does not match the expected layout.
var ErrInvalidAccount = errors.New("invalid serum account")

// Field offsets within a market account.
const (
	OffsetAccountFlags = 5
	OffsetBaseMint     = 53
	OffsetQuoteMint    = 85
)

// MarketState is the Serum v3 market account layout.
type MarketState struct {
	Padding1               [5]byte
	AccountFlags           uint64
	OwnAddress             solana.PublicKey
	VaultSignerNonce       uint64
	BaseMint               solana.PublicKey
	QuoteMint              solana.PublicKey
	BaseVault              solana.PublicKey
	BaseDepositsTotal      uint64
	BaseFeesAccrued        uint64
	QuoteVault             solana.PublicKey
	QuoteDepositsTotal     uint64
	QuoteFeesAccrued       uint64
	QuoteDustThreshold     uint64
	RequestQueue           solana.PublicKey
	EventQueue             solana.PublicKey
	Bids                   solana.PublicKey
	Asks                   solana.PublicKey
	BaseLotSize            uint64
	QuoteLotSize           uint64
	FeeRateBps             uint64
	ReferrerRebatesAccrued uint64
	Padding2               [7]byte
}

// DecodeMarketState decodes a market account.
func DecodeMarketState(data []byte) (*MarketState, error) {
	if len(data) != domain.MarketRecordSize {
		return nil, fmt.Errorf("%w: market data is %d bytes, want %d", ErrInvalidAccount, len(data), domain.MarketRecordSize)
	}

	var state MarketState
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &state); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAccount, err)
	}
	return &state, nil
}

// Flags returns the account flags word.
func (s *MarketState) Flags() domain.AccountFlag {
	return domain.AccountFlag(s.AccountFlags)
}

// Record projects the state onto the fields market discovery needs.
func (s *MarketState) Record(address solana.PublicKey) domain.MarketRecord {
	return domain.MarketRecord{
		Address:      address,
		AccountFlags: s.Flags(),
		BaseMint:     s.BaseMint,
		QuoteMint:    s.QuoteMint,
		DataLen:      domain.MarketRecordSize,
	}
}
