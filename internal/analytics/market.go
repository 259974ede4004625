package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"serum-market-lab/internal/domain"
	"serum-market-lab/internal/metrics"
	"serum-market-lab/internal/serum"
)

// BookReader reads both sides of one market's order book, best price first.
type BookReader interface {
	LoadBids(ctx context.Context) (domain.Side, error)
	LoadAsks(ctx context.Context) (domain.Side, error)
}

// OrderBookSource opens a market's order book.
type OrderBookSource interface {
	LoadMarket(ctx context.Context, market domain.Market) (BookReader, error)
}

// BookSourceFunc adapts a function to OrderBookSource.
type BookSourceFunc func(ctx context.Context, market domain.Market) (BookReader, error)

// LoadMarket calls f.
func (f BookSourceFunc) LoadMarket(ctx context.Context, market domain.Market) (BookReader, error) {
	return f(ctx, market)
}

// analyzeMarket loads one book, fetching bids and asks concurrently, and
// walks both sides.
func (p *Pipeline) analyzeMarket(ctx context.Context, market domain.Market) (domain.AnalyticsResult, error) {
	book, err := p.books.LoadMarket(ctx, market)
	if err != nil {
		return domain.AnalyticsResult{}, fmt.Errorf("%w: load market %s: %w", ErrTransport, market.Name, err)
	}

	var bids, asks domain.Side
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bids, err = book.LoadBids(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		asks, err = book.LoadAsks(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.AnalyticsResult{}, fmt.Errorf("%w: load order book %s: %w", ErrTransport, market.Name, err)
	}
	p.metrics.RecordBookDepth(len(bids), len(asks))

	return Analyze(market, bids, asks, p.notional), nil
}

// Analyze computes impact and liquidity for a book. bids must be in
// descending and asks in ascending price order.
func Analyze(market domain.Market, bids, asks domain.Side, notional decimal.Decimal) domain.AnalyticsResult {
	return domain.AnalyticsResult{
		Market:          market,
		BidImpact:       metrics.PriceImpact(bids, notional).Impact(),
		AskImpact:       metrics.PriceImpact(asks, notional).Impact(),
		BidLiquidityUSD: metrics.Liquidity(bids),
		AskLiquidityUSD: metrics.Liquidity(asks),
	}
}

// SerumBooks reads order books through a Serum market loader.
func SerumBooks(loader *serum.Loader) OrderBookSource {
	return BookSourceFunc(func(ctx context.Context, market domain.Market) (BookReader, error) {
		m, err := loader.LoadMarket(ctx, market.Address, market.ProgramID)
		if err != nil {
			return nil, err
		}
		return m, nil
	})
}
