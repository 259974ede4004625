package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serum-market-lab/internal/domain"
	"serum-market-lab/internal/storage"
)

func TestTokenMetadataStore_InsertAndGetByMint(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTokenMetadataStore(pool)

	metadata := &domain.TokenMetadata{
		NetworkID: 101,
		Mint:      "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGvkZwyTDt1v",
		Name:      "USD Coin",
		Symbol:    "USDC",
		Decimals:  6,
		Source:    domain.MetadataSourceRegistry,
		FetchedAt: 1700000000000,
	}

	require.NoError(t, store.Insert(ctx, metadata))

	retrieved, err := store.GetByMint(ctx, 101, metadata.Mint)
	require.NoError(t, err)

	assert.Equal(t, metadata.NetworkID, retrieved.NetworkID)
	assert.Equal(t, metadata.Mint, retrieved.Mint)
	assert.Equal(t, metadata.Name, retrieved.Name)
	assert.Equal(t, metadata.Symbol, retrieved.Symbol)
	assert.Equal(t, metadata.Decimals, retrieved.Decimals)
	assert.Equal(t, metadata.Source, retrieved.Source)
	assert.Equal(t, metadata.FetchedAt, retrieved.FetchedAt)
	assert.NotZero(t, retrieved.CreatedAt)
}

func TestTokenMetadataStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTokenMetadataStore(pool)

	metadata := &domain.TokenMetadata{
		NetworkID: 101,
		Mint:      "MintDup",
		Symbol:    "DUP",
		Decimals:  9,
		Source:    domain.MetadataSourceOnChain,
		FetchedAt: 1700000000000,
	}

	require.NoError(t, store.Insert(ctx, metadata))

	err := store.Insert(ctx, metadata)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// a different network is a different key
	metadata.NetworkID = 103
	assert.NoError(t, store.Insert(ctx, metadata))
}

func TestTokenMetadataStore_Upsert(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTokenMetadataStore(pool)

	require.NoError(t, store.Upsert(ctx, &domain.TokenMetadata{
		NetworkID: 101,
		Mint:      "UpsertMint",
		Symbol:    "OLD",
		Decimals:  9,
		Source:    domain.MetadataSourceOnChain,
		FetchedAt: 1700000000000,
	}))

	first, err := store.GetByMint(ctx, 101, "UpsertMint")
	require.NoError(t, err)

	require.NoError(t, store.Upsert(ctx, &domain.TokenMetadata{
		NetworkID: 101,
		Mint:      "UpsertMint",
		Symbol:    "NEW",
		Decimals:  6,
		Source:    domain.MetadataSourceRegistry,
		FetchedAt: 1700000001000,
	}))

	second, err := store.GetByMint(ctx, 101, "UpsertMint")
	require.NoError(t, err)

	assert.Equal(t, "NEW", second.Symbol)
	assert.Equal(t, 6, second.Decimals)
	assert.Equal(t, domain.MetadataSourceRegistry, second.Source)
	assert.Equal(t, int64(1700000001000), second.FetchedAt)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
}

func TestTokenMetadataStore_GetByMintNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTokenMetadataStore(pool)

	_, err := store.GetByMint(context.Background(), 101, "nonexistent-mint")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTokenMetadataStore_ListByNetwork(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewTokenMetadataStore(pool)

	for _, m := range []*domain.TokenMetadata{
		{NetworkID: 101, Mint: "mint-c", Symbol: "C", Decimals: 6, Source: domain.MetadataSourceRegistry, FetchedAt: 1},
		{NetworkID: 101, Mint: "mint-a", Symbol: "A", Decimals: 6, Source: domain.MetadataSourceRegistry, FetchedAt: 1},
		{NetworkID: 103, Mint: "mint-b", Symbol: "B", Decimals: 6, Source: domain.MetadataSourceRegistry, FetchedAt: 1},
	} {
		require.NoError(t, store.Insert(ctx, m))
	}

	list, err := store.ListByNetwork(ctx, 101)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "mint-a", list[0].Mint)
	assert.Equal(t, "mint-c", list[1].Mint)

	empty, err := store.ListByNetwork(ctx, 102)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
