package serum

import (
	"context"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"

	"serum-market-lab/internal/domain"
	"serum-market-lab/internal/metrics"
	rpc "serum-market-lab/internal/solana"
)

// Loader loads markets and their order books over RPC.
type Loader struct {
	rpc rpc.RPCClient
}

// NewLoader creates a new Loader.
func NewLoader(client rpc.RPCClient) *Loader {
	return &Loader{rpc: client}
}

// Market is a loaded market with the parameters needed to read its book.
type Market struct {
	Address       solana.PublicKey
	ProgramID     solana.PublicKey
	State         *MarketState
	BaseDecimals  int
	QuoteDecimals int

	rpc rpc.RPCClient
}

// LoadMarket fetches and validates a market account and its mint decimals.
func (l *Loader) LoadMarket(ctx context.Context, address, programID solana.PublicKey) (*Market, error) {
	info, err := l.rpc.GetAccountInfo(ctx, address.String())
	if err != nil {
		return nil, fmt.Errorf("get market account %s: %w", address, err)
	}
	if info == nil {
		return nil, fmt.Errorf("%w: market %s not found", ErrInvalidAccount, address)
	}
	if info.Owner != "" && info.Owner != programID.String() {
		return nil, fmt.Errorf("%w: market %s is owned by %s, not %s", ErrInvalidAccount, address, info.Owner, programID)
	}

	state, err := DecodeMarketState(info.Data)
	if err != nil {
		return nil, fmt.Errorf("decode market %s: %w", address, err)
	}
	if state.Flags() != domain.MarketFlags {
		return nil, fmt.Errorf("%w: market %s has flags %#x", ErrInvalidAccount, address, state.AccountFlags)
	}
	if !state.OwnAddress.Equals(address) {
		return nil, fmt.Errorf("%w: market %s reports own address %s", ErrInvalidAccount, address, state.OwnAddress)
	}
	if state.BaseLotSize == 0 || state.QuoteLotSize == 0 {
		return nil, fmt.Errorf("%w: market %s has zero lot size", ErrInvalidAccount, address)
	}

	mints, err := l.rpc.GetMultipleAccounts(ctx, []string{state.BaseMint.String(), state.QuoteMint.String()})
	if err != nil {
		return nil, fmt.Errorf("get mints of market %s: %w", address, err)
	}

	decimals := make([]int, 2)
	for i, m := range mints {
		if m == nil {
			return nil, fmt.Errorf("%w: mint account missing for market %s", ErrInvalidAccount, address)
		}
		if decimals[i], err = MintDecimals(m.Data); err != nil {
			return nil, fmt.Errorf("market %s: %w", address, err)
		}
	}

	return &Market{
		Address:       address,
		ProgramID:     programID,
		State:         state,
		BaseDecimals:  decimals[0],
		QuoteDecimals: decimals[1],
		rpc:           l.rpc,
	}, nil
}

// LoadBids returns the bid side, best (highest) price first.
func (m *Market) LoadBids(ctx context.Context) (domain.Side, error) {
	orders, err := m.loadOrders(ctx, m.State.Bids, domain.FlagBids)
	if err != nil {
		return nil, err
	}
	// Ledger order is ascending; bids are walked from the top.
	return metrics.Reverse(m.Levels(orders)), nil
}

// LoadAsks returns the ask side, best (lowest) price first.
func (m *Market) LoadAsks(ctx context.Context) (domain.Side, error) {
	orders, err := m.loadOrders(ctx, m.State.Asks, domain.FlagAsks)
	if err != nil {
		return nil, err
	}
	return m.Levels(orders), nil
}

func (m *Market) loadOrders(ctx context.Context, account solana.PublicKey, flag domain.AccountFlag) ([]Order, error) {
	info, err := m.rpc.GetAccountInfo(ctx, account.String())
	if err != nil {
		return nil, fmt.Errorf("get order book %s: %w", account, err)
	}
	if info == nil {
		return nil, fmt.Errorf("%w: order book %s not found", ErrInvalidAccount, account)
	}

	s, err := decodeSlab(info.Data)
	if err != nil {
		return nil, fmt.Errorf("decode order book %s: %w", account, err)
	}
	if !domain.AccountFlag(s.flags).Has(domain.FlagInitialized | flag) {
		return nil, fmt.Errorf("%w: order book %s has flags %#x", ErrInvalidAccount, account, s.flags)
	}

	return s.orders()
}

// Levels converts orders to UI price levels, merging adjacent orders at equal price.
func (m *Market) Levels(orders []Order) domain.Side {
	levels := make(domain.Side, 0, len(orders))
	var lastPrice uint64
	for i, o := range orders {
		if i > 0 && o.PriceLots == lastPrice {
			last := &levels[len(levels)-1]
			last.Size = last.Size.Add(m.sizeLotsToNumber(o.QuantityLots))
			continue
		}
		levels = append(levels, domain.PriceLevel{
			Price: m.priceLotsToNumber(o.PriceLots),
			Size:  m.sizeLotsToNumber(o.QuantityLots),
		})
		lastPrice = o.PriceLots
	}
	return levels
}

// priceLotsToNumber converts quote lots per base lot into a UI price:
// lots * quoteLotSize * 10^baseDecimals / (baseLotSize * 10^quoteDecimals).
func (m *Market) priceLotsToNumber(lots uint64) decimal.Decimal {
	return u64(lots).
		Mul(u64(m.State.QuoteLotSize)).
		Shift(int32(m.BaseDecimals - m.QuoteDecimals)).
		Div(u64(m.State.BaseLotSize))
}

// sizeLotsToNumber converts base lots into UI base units.
func (m *Market) sizeLotsToNumber(lots uint64) decimal.Decimal {
	return u64(lots).Mul(u64(m.State.BaseLotSize)).Shift(-int32(m.BaseDecimals))
}

func u64(v uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(v), 0)
}
