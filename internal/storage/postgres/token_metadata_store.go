package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"serum-market-lab/internal/domain"
	"serum-market-lab/internal/storage"
)

// TokenMetadataStore implements storage.TokenMetadataStore using PostgreSQL.
type TokenMetadataStore struct {
	pool *Pool
}

// NewTokenMetadataStore creates a new TokenMetadataStore.
func NewTokenMetadataStore(pool *Pool) *TokenMetadataStore {
	return &TokenMetadataStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenMetadataStore = (*TokenMetadataStore)(nil)

const tokenMetadataColumns = `network_id, mint, name, symbol, decimals, source, fetched_at, created_at`

// Insert adds new metadata. Returns ErrDuplicateKey if (network_id, mint) exists.
func (s *TokenMetadataStore) Insert(ctx context.Context, m *domain.TokenMetadata) error {
	query := `
		INSERT INTO token_metadata (
			network_id, mint, name, symbol, decimals, source, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		m.NetworkID,
		m.Mint,
		m.Name,
		m.Symbol,
		m.Decimals,
		m.Source,
		m.FetchedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token metadata: %w", err)
	}
	return nil
}

// Upsert inserts metadata or refreshes the existing row. created_at is kept.
func (s *TokenMetadataStore) Upsert(ctx context.Context, m *domain.TokenMetadata) error {
	query := `
		INSERT INTO token_metadata (
			network_id, mint, name, symbol, decimals, source, fetched_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (network_id, mint) DO UPDATE SET
			name = EXCLUDED.name,
			symbol = EXCLUDED.symbol,
			decimals = EXCLUDED.decimals,
			source = EXCLUDED.source,
			fetched_at = EXCLUDED.fetched_at
	`

	_, err := s.pool.Exec(ctx, query,
		m.NetworkID,
		m.Mint,
		m.Name,
		m.Symbol,
		m.Decimals,
		m.Source,
		m.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert token metadata: %w", err)
	}
	return nil
}

// GetByMint retrieves metadata for a mint. Returns ErrNotFound if not exists.
func (s *TokenMetadataStore) GetByMint(ctx context.Context, networkID int, mint string) (*domain.TokenMetadata, error) {
	query := `SELECT ` + tokenMetadataColumns + `
		FROM token_metadata
		WHERE network_id = $1 AND mint = $2
	`

	row := s.pool.QueryRow(ctx, query, networkID, mint)
	m, err := scanTokenMetadata(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token metadata by mint: %w", err)
	}
	return m, nil
}

// ListByNetwork retrieves all metadata for a network, ordered by mint.
func (s *TokenMetadataStore) ListByNetwork(ctx context.Context, networkID int) ([]*domain.TokenMetadata, error) {
	query := `SELECT ` + tokenMetadataColumns + `
		FROM token_metadata
		WHERE network_id = $1
		ORDER BY mint ASC
	`

	rows, err := s.pool.Query(ctx, query, networkID)
	if err != nil {
		return nil, fmt.Errorf("list token metadata: %w", err)
	}
	defer rows.Close()

	var out []*domain.TokenMetadata
	for rows.Next() {
		m, err := scanTokenMetadata(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token metadata: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token metadata: %w", err)
	}
	return out, nil
}

func scanTokenMetadata(row pgx.Row) (*domain.TokenMetadata, error) {
	var m domain.TokenMetadata

	err := row.Scan(
		&m.NetworkID,
		&m.Mint,
		&m.Name,
		&m.Symbol,
		&m.Decimals,
		&m.Source,
		&m.FetchedAt,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
