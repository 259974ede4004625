package storage

import (
	"context"

	"serum-market-lab/internal/domain"
)

// TokenMetadataStore caches token metadata keyed by (network_id, mint).
type TokenMetadataStore interface {
	// Insert adds new metadata. Returns ErrDuplicateKey if (network_id, mint) exists.
	Insert(ctx context.Context, m *domain.TokenMetadata) error

	// Upsert inserts metadata or replaces the existing entry for (network_id, mint).
	Upsert(ctx context.Context, m *domain.TokenMetadata) error

	// GetByMint retrieves metadata for a mint on a network. Returns ErrNotFound if not exists.
	GetByMint(ctx context.Context, networkID int, mint string) (*domain.TokenMetadata, error)

	// ListByNetwork retrieves all metadata for a network, ordered by mint ASC.
	ListByNetwork(ctx context.Context, networkID int) ([]*domain.TokenMetadata, error)
}
