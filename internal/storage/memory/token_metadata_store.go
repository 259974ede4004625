package memory

import (
	"context"
	"sort"
	"sync"

	"serum-market-lab/internal/domain"
	"serum-market-lab/internal/storage"
)

type metadataKey struct {
	network int
	mint    string
}

// TokenMetadataStore is an in-memory implementation of storage.TokenMetadataStore.
type TokenMetadataStore struct {
	mu      sync.RWMutex
	entries map[metadataKey]*domain.TokenMetadata
}

// NewTokenMetadataStore creates a new in-memory token metadata store.
func NewTokenMetadataStore() *TokenMetadataStore {
	return &TokenMetadataStore{
		entries: make(map[metadataKey]*domain.TokenMetadata),
	}
}

func validate(m *domain.TokenMetadata) error {
	if m == nil || m.Mint == "" || m.NetworkID == 0 {
		return storage.ErrInvalidInput
	}
	return nil
}

// Insert adds new metadata. Returns ErrDuplicateKey if (network_id, mint) exists.
func (s *TokenMetadataStore) Insert(_ context.Context, m *domain.TokenMetadata) error {
	if err := validate(m); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := metadataKey{m.NetworkID, m.Mint}
	if _, exists := s.entries[key]; exists {
		return storage.ErrDuplicateKey
	}

	metaCopy := *m
	s.entries[key] = &metaCopy
	return nil
}

// Upsert inserts metadata or replaces the existing entry.
func (s *TokenMetadataStore) Upsert(_ context.Context, m *domain.TokenMetadata) error {
	if err := validate(m); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := metadataKey{m.NetworkID, m.Mint}
	metaCopy := *m
	if prev, exists := s.entries[key]; exists {
		metaCopy.CreatedAt = prev.CreatedAt
	}
	s.entries[key] = &metaCopy
	return nil
}

// GetByMint retrieves metadata by mint address. Returns ErrNotFound if not exists.
func (s *TokenMetadataStore) GetByMint(_ context.Context, networkID int, mint string) (*domain.TokenMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.entries[metadataKey{networkID, mint}]
	if !exists {
		return nil, storage.ErrNotFound
	}

	metaCopy := *m
	return &metaCopy, nil
}

// ListByNetwork retrieves all metadata for a network, ordered by mint.
func (s *TokenMetadataStore) ListByNetwork(_ context.Context, networkID int) ([]*domain.TokenMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.TokenMetadata
	for key, m := range s.entries {
		if key.network != networkID {
			continue
		}
		metaCopy := *m
		out = append(out, &metaCopy)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Mint < out[j].Mint
	})
	return out, nil
}

var _ storage.TokenMetadataStore = (*TokenMetadataStore)(nil)
