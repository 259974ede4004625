package tokens

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/gagliardetto/solana-go"
	"github.com/sirupsen/logrus"

	"serum-market-lab/internal/domain"
	"serum-market-lab/internal/storage"
)

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// List provides the bulk token list. Required.
	List ListLoader
	// OnChain, when set, resolves mints missing from the list.
	OnChain MetadataFetcher
	// Store, when set, caches resolved metadata across runs.
	Store storage.TokenMetadataStore
	// Logger defaults to a discarding logger.
	Logger *logrus.Entry
}

// Resolver builds registries from the token list, the cache and the chain.
type Resolver struct {
	list    ListLoader
	onChain MetadataFetcher
	store   storage.TokenMetadataStore
	logger  *logrus.Entry
}

// NewResolver creates a new Resolver.
func NewResolver(opts ResolverOptions) *Resolver {
	logger := opts.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}
	return &Resolver{
		list:    opts.List,
		onChain: opts.OnChain,
		store:   opts.Store,
		logger:  logger,
	}
}

// Load builds the registry for network. Cached entries fill in when the
// list cannot be fetched; fresh list entries refresh the cache.
func (r *Resolver) Load(ctx context.Context, network int) (*Registry, error) {
	var cached []domain.TokenMetadata
	if r.store != nil {
		rows, err := r.store.ListByNetwork(ctx, network)
		if err != nil {
			r.logger.WithError(err).Warn("token cache unavailable")
		}
		for _, m := range rows {
			cached = append(cached, *m)
		}
	}

	entries, err := r.list.Load(ctx, network)
	if err != nil {
		if len(cached) == 0 {
			return nil, fmt.Errorf("load token list: %w", err)
		}
		r.logger.WithError(err).WithField("cached", len(cached)).Warn("token list unavailable, using cache")
		return NewRegistry(network, cached), nil
	}

	if r.store != nil {
		r.persist(ctx, NewRegistry(network, entries).Entries())
	}

	// list entries win over cached ones
	reg := NewRegistry(network, append(entries, cached...))
	r.logger.WithFields(logrus.Fields{
		"network": network,
		"tokens":  reg.Len(),
	}).Debug("token registry loaded")
	return reg, nil
}

// Complete returns a registry extended with on-chain metadata for every mint
// reg does not know. Without an on-chain source reg is returned unchanged.
func (r *Resolver) Complete(ctx context.Context, reg *Registry, mints []solana.PublicKey) (*Registry, error) {
	if r.onChain == nil {
		return reg, nil
	}

	seen := make(map[solana.PublicKey]bool)
	var found []domain.TokenMetadata
	for _, mint := range mints {
		if seen[mint] {
			continue
		}
		seen[mint] = true
		if _, ok := reg.Lookup(mint.String()); ok {
			continue
		}

		meta, err := r.onChain.Fetch(ctx, reg.Network(), mint)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			r.logger.WithError(err).WithField("mint", mint.String()).Warn("on-chain metadata lookup failed")
			continue
		}
		if meta == nil {
			continue
		}
		found = append(found, *meta)
	}

	if len(found) == 0 {
		return reg, nil
	}
	if r.store != nil {
		r.persist(ctx, found)
	}
	return reg.With(found), nil
}

func (r *Resolver) persist(ctx context.Context, entries []domain.TokenMetadata) {
	for i := range entries {
		if err := r.store.Upsert(ctx, &entries[i]); err != nil {
			r.logger.WithError(err).Warn("token cache write failed")
			return
		}
	}
}
