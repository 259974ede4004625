// Package tokens resolves mint addresses to token metadata.
package tokens

import (
	"serum-market-lab/internal/domain"
)

// Registry is a read-only mint -> metadata table for one network.
type Registry struct {
	network int
	byMint  map[string]domain.TokenMetadata
}

// NewRegistry indexes entries that belong to network. When a mint appears
// more than once the first entry wins.
func NewRegistry(network int, entries []domain.TokenMetadata) *Registry {
	r := &Registry{
		network: network,
		byMint:  make(map[string]domain.TokenMetadata, len(entries)),
	}
	for _, e := range entries {
		if e.NetworkID != network || e.Mint == "" {
			continue
		}
		if _, exists := r.byMint[e.Mint]; !exists {
			r.byMint[e.Mint] = e
		}
	}
	return r
}

// Lookup returns the metadata for mint.
func (r *Registry) Lookup(mint string) (domain.TokenMetadata, bool) {
	if r == nil {
		return domain.TokenMetadata{}, false
	}
	m, ok := r.byMint[mint]
	return m, ok
}

// Network returns the network id the registry was built for.
func (r *Registry) Network() int {
	return r.network
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byMint)
}

// Entries returns a copy of all entries in unspecified order.
func (r *Registry) Entries() []domain.TokenMetadata {
	out := make([]domain.TokenMetadata, 0, r.Len())
	for _, m := range r.byMint {
		out = append(out, m)
	}
	return out
}

// With returns a new registry holding r's entries plus extra. Existing
// entries take precedence.
func (r *Registry) With(extra []domain.TokenMetadata) *Registry {
	return NewRegistry(r.network, append(r.Entries(), extra...))
}
