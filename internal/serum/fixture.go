package serum

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/gagliardetto/solana-go"

	"serum-market-lab/internal/domain"
)

// Fixture helpers build account data for tests in dependent packages.

// EncodeMarketState serializes a market state into a 388-byte account.
func EncodeMarketState(state *MarketState) []byte {
	var buf bytes.Buffer
	buf.Grow(domain.MarketRecordSize)
	// writes into a bytes.Buffer do not fail
	_ = binary.Write(&buf, binary.LittleEndian, state)
	return buf.Bytes()
}

// NewMarketState returns a live market state with the given mints and book accounts.
func NewMarketState(address, baseMint, quoteMint, bids, asks solana.PublicKey, baseLot, quoteLot uint64) *MarketState {
	s := &MarketState{
		AccountFlags: uint64(domain.MarketFlags),
		OwnAddress:   address,
		BaseMint:     baseMint,
		QuoteMint:    quoteMint,
		Bids:         bids,
		Asks:         asks,
		BaseLotSize:  baseLot,
		QuoteLotSize: quoteLot,
	}
	copy(s.Padding1[:], "serum")
	copy(s.Padding2[:], "padding")
	return s
}

// EncodeMint builds an SPL mint account with the given decimals.
func EncodeMint(decimals uint8) []byte {
	data := make([]byte, mintAccountSize)
	data[mintDecimalsAt] = decimals
	data[mintDecimalsAt+1] = 1 // isInitialized
	return data
}

// EncodeSlab builds an order book account holding orders. Leaves are laid
// out by ascending price under a left-leaning chain of inner nodes.
func EncodeSlab(flags domain.AccountFlag, orders []Order) []byte {
	sorted := make([]Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].PriceLots < sorted[j].PriceLots })

	n := len(sorted)
	count := 0
	if n > 0 {
		count = 2*n - 1
	}

	data := make([]byte, slabNodesOffset+count*slabNodeSize+7)
	copy(data, "serum")
	binary.LittleEndian.PutUint64(data[slabFlagsOffset:], uint64(flags))

	header := data[slabHeaderOffset:]
	binary.LittleEndian.PutUint32(header[0:], uint32(count))
	binary.LittleEndian.PutUint32(header[24:], uint32(n))

	node := func(i int) []byte {
		start := slabNodesOffset + i*slabNodeSize
		return data[start : start+slabNodeSize]
	}

	for i, o := range sorted {
		leaf := node(i)
		binary.LittleEndian.PutUint32(leaf[0:], nodeLeaf)
		leaf[4] = o.OwnerSlot
		binary.LittleEndian.PutUint64(leaf[8:], uint64(i)) // sequence number
		binary.LittleEndian.PutUint64(leaf[16:], o.PriceLots)
		binary.LittleEndian.PutUint64(leaf[56:], o.QuantityLots)
	}

	root := 0
	for j := 0; j < n-1; j++ {
		idx := n + j
		inner := node(idx)
		left := 0
		if j > 0 {
			left = idx - 1
		}
		binary.LittleEndian.PutUint32(inner[0:], nodeInner)
		binary.LittleEndian.PutUint32(inner[24:], uint32(left))
		binary.LittleEndian.PutUint32(inner[28:], uint32(j+1))
		root = idx
	}
	binary.LittleEndian.PutUint32(header[20:], uint32(root))

	copy(data[len(data)-7:], "padding")
	return data
}
