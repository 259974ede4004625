// Package analytics runs market discovery and order book analytics.
// It coordinates: network resolution → discovery → naming → per-market analytics
package analytics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"serum-market-lab/internal/discovery"
	"serum-market-lab/internal/domain"
	"serum-market-lab/internal/network"
	"serum-market-lab/internal/observability"
	rpc "serum-market-lab/internal/solana"
	"serum-market-lab/internal/tokens"
)

// ErrTransport wraps failures of the ledger, the order book source or the token source.
var ErrTransport = errors.New("transport failure")

// Defaults.
const (
	DefaultDelay    = time.Second
	DefaultNotional = 10000
)

// TokenSource loads token metadata for a network.
type TokenSource interface {
	Load(ctx context.Context, network int) (*tokens.Registry, error)
	Complete(ctx context.Context, reg *tokens.Registry, mints []solana.PublicKey) (*tokens.Registry, error)
}

// Pipeline coordinates discovery and analytics runs.
type Pipeline struct {
	rpc     rpc.RPCClient
	books   OrderBookSource
	tokens  TokenSource
	logger  *logrus.Entry
	metrics *observability.Metrics

	notional   decimal.Decimal
	delay      time.Duration
	threshold  *decimal.Decimal
	skipFailed bool
	sleep      func(ctx context.Context, d time.Duration) error
}

// Options for creating Pipeline.
type Options struct {
	// Collaborators
	RPC    rpc.RPCClient
	Books  OrderBookSource
	Tokens TokenSource

	// Optional observability
	Logger  *logrus.Entry
	Metrics *observability.Metrics

	// Notional is the quote amount of each impact tranche (default 10000).
	Notional decimal.Decimal
	// Delay is the pause before each market (default 1s, negative disables).
	Delay time.Duration
	// Threshold, when set, drops markets whose bid or ask impact exceeds it.
	Threshold *decimal.Decimal
	// SkipFailed logs and skips markets whose book cannot be loaded
	// instead of failing the run.
	SkipFailed bool

	// Sleep overrides the throttle wait (tests).
	Sleep func(ctx context.Context, d time.Duration) error
}

// New creates a new Pipeline.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		rpc:        opts.RPC,
		books:      opts.Books,
		tokens:     opts.Tokens,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		notional:   opts.Notional,
		delay:      opts.Delay,
		threshold:  opts.Threshold,
		skipFailed: opts.SkipFailed,
		sleep:      opts.Sleep,
	}

	if p.logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		p.logger = logrus.NewEntry(l)
	}
	if !p.notional.IsPositive() {
		p.notional = decimal.NewFromInt(DefaultNotional)
	}
	if p.delay == 0 {
		p.delay = DefaultDelay
	} else if p.delay < 0 {
		p.delay = 0
	}
	if p.sleep == nil {
		p.sleep = sleepContext
	}
	return p
}

// SearchRequest describes one discovery run.
type SearchRequest struct {
	// Program overrides the network default DEX program.
	Program *solana.PublicKey
	// Filter selects markets by base or quote mint.
	Filter discovery.FilterOptions
	// PriceChange runs order book analytics on every discovered market.
	PriceChange bool
}

// Run discovers markets and, when requested, analyzes each of them.
// Flow:
//  1. Validate the mint filter
//  2. Resolve network from the genesis hash
//  3. Load token metadata
//  4. Resolve the DEX program
//  5. Fetch, name and sort market accounts
//  6. Analyze each market (optional)
func (p *Pipeline) Run(ctx context.Context, req SearchRequest) (report *Report, err error) {
	start := time.Now()
	defer func() { p.metrics.RecordRun("search", time.Since(start), err) }()

	if err := req.Filter.Validate(); err != nil {
		return nil, err
	}

	hash, err := p.rpc.GetGenesisHash(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: get genesis hash: %w", ErrTransport, err)
	}
	networkID, err := network.FromGenesisHash(hash)
	if err != nil {
		return nil, err
	}
	log := p.logger.WithField("network", networkID.String())

	reg, err := p.tokens.Load(ctx, int(networkID))
	if err != nil {
		return nil, fmt.Errorf("%w: load tokens: %w", ErrTransport, err)
	}

	program, err := p.program(networkID, req.Program)
	if err != nil {
		return nil, err
	}

	log.WithField("program", program.String()).Info("searching markets")
	markets, err := discovery.Search(ctx, p.rpc, program, req.Filter,
		func(ctx context.Context, mints []solana.PublicKey) (discovery.TokenLookup, error) {
			return p.tokens.Complete(ctx, reg, mints)
		})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	p.metrics.RecordDiscovered(len(markets))
	log.WithField("markets", len(markets)).Info("markets found")

	report = &Report{
		Network:     networkID,
		Program:     &program,
		Markets:     markets,
		PriceChange: req.PriceChange,
		Notional:    p.notional,
		Threshold:   p.threshold,
	}
	if !req.PriceChange {
		return report, nil
	}

	if err := p.analyze(ctx, markets, report); err != nil {
		return nil, err
	}
	return report, nil
}

// RunWatchlist analyzes a fixed list of markets without discovery.
func (p *Pipeline) RunWatchlist(ctx context.Context, markets []domain.Market) (report *Report, err error) {
	start := time.Now()
	defer func() { p.metrics.RecordRun("watchlist", time.Since(start), err) }()

	report = &Report{
		Markets:     markets,
		PriceChange: true,
		Notional:    p.notional,
		Threshold:   p.threshold,
	}
	if err := p.analyze(ctx, markets, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (p *Pipeline) program(id network.ID, override *solana.PublicKey) (solana.PublicKey, error) {
	if override != nil {
		return *override, nil
	}
	return network.DexProgram(id)
}

// analyze walks markets one at a time, pausing before each.
func (p *Pipeline) analyze(ctx context.Context, markets []domain.Market, report *Report) error {
	for i, market := range markets {
		log := p.logger.WithField("market", market.Address.String())
		log.Infof("[%d/%d] %s", i+1, len(markets), market.Name)

		if err := p.sleep(ctx, p.delay); err != nil {
			return err
		}

		result, err := p.analyzeMarket(ctx, market)
		if err != nil {
			if ctx.Err() != nil || !p.skipFailed {
				return err
			}
			log.WithError(err).Warn("skipping market")
			report.Skipped = append(report.Skipped, Skipped{Market: market, Reason: err.Error()})
			p.metrics.RecordMarket(observability.OutcomeSkipped)
			continue
		}

		if p.threshold != nil && (result.BidImpact.Exceeds(*p.threshold) || result.AskImpact.Exceeds(*p.threshold)) {
			log.WithFields(logrus.Fields{
				"bid": result.BidImpact.String(),
				"ask": result.AskImpact.String(),
			}).Debug("impact above threshold")
			report.Dropped++
			p.metrics.RecordMarket(observability.OutcomeDropped)
			continue
		}

		report.Results = append(report.Results, result)
		p.metrics.RecordMarket(observability.OutcomeReported)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
