// Package discovery locates Serum market accounts and names them.
package discovery

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"serum-market-lab/internal/domain"
	"serum-market-lab/internal/serum"
	rpc "serum-market-lab/internal/solana"
)

// ErrInvalidUsage is returned when the mint constraint is missing or ambiguous.
var ErrInvalidUsage = errors.New("tradeable or lendable should be provided")

// FilterOptions constrains discovery to markets trading one token.
// Exactly one field must be set.
type FilterOptions struct {
	// Tradeable matches markets whose base mint is this token.
	Tradeable *solana.PublicKey
	// Lendable matches markets whose quote mint is this token.
	Lendable *solana.PublicKey
}

// Validate checks that exactly one mint constraint is set.
func (o FilterOptions) Validate() error {
	switch {
	case o.Tradeable == nil && o.Lendable == nil:
		return ErrInvalidUsage
	case o.Tradeable != nil && o.Lendable != nil:
		return fmt.Errorf("%w: tradeable and lendable are mutually exclusive", ErrInvalidUsage)
	}
	return nil
}

// NewFilter builds the getProgramAccounts predicates selecting live market
// accounts that match opts.
func NewFilter(opts FilterOptions) ([]rpc.Filter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	flags := make([]byte, 8)
	binary.LittleEndian.PutUint64(flags, uint64(domain.MarketFlags))

	filters := []rpc.Filter{
		rpc.DataSizeFilter(domain.MarketRecordSize),
		rpc.MemcmpFilter(serum.OffsetAccountFlags, flags),
	}

	if opts.Tradeable != nil {
		filters = append(filters, rpc.MemcmpFilter(serum.OffsetBaseMint, opts.Tradeable.Bytes()))
	} else {
		filters = append(filters, rpc.MemcmpFilter(serum.OffsetQuoteMint, opts.Lendable.Bytes()))
	}
	return filters, nil
}
