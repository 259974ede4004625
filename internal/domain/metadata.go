package domain

// TokenMetadata represents display metadata for a mint.
// Corresponds to token_metadata table in PostgreSQL.
type TokenMetadata struct {
	NetworkID int    // chain id the entry belongs to (101, 102, 103)
	Mint      string // token mint address (base58)
	Name      string // token name, may be empty
	Symbol    string // token symbol, may be empty
	Decimals  int    // token decimals
	Source    string // registry, onchain
	FetchedAt int64  // when metadata was fetched (ms)
	CreatedAt int64  // record creation timestamp (ms)
}

// Metadata sources.
const (
	MetadataSourceRegistry = "registry"
	MetadataSourceOnChain  = "onchain"
)
