package tokens

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"

	"serum-market-lab/internal/domain"
	"serum-market-lab/internal/serum"
	rpc "serum-market-lab/internal/solana"
)

// MetaplexProgramID is the Metaplex Token Metadata program.
var MetaplexProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

// MetadataFetcher resolves a single mint.
type MetadataFetcher interface {
	// Fetch returns nil, nil when the mint account does not exist.
	Fetch(ctx context.Context, network int, mint solana.PublicKey) (*domain.TokenMetadata, error)
}

// OnChainSource reads decimals from the mint account and name/symbol from
// the Metaplex metadata account.
type OnChainSource struct {
	rpc rpc.RPCClient
	now func() time.Time
}

// NewOnChainSource creates a new RPC-backed metadata source.
func NewOnChainSource(client rpc.RPCClient) *OnChainSource {
	return &OnChainSource{rpc: client, now: time.Now}
}

// Fetch fetches the mint and its metadata PDA in one request.
func (s *OnChainSource) Fetch(ctx context.Context, network int, mint solana.PublicKey) (*domain.TokenMetadata, error) {
	keys := []string{mint.String()}
	pda, ok := MetadataAddress(mint)
	if ok {
		keys = append(keys, pda.String())
	}

	accounts, err := s.rpc.GetMultipleAccounts(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get mint %s: %w", mint, err)
	}
	if accounts[0] == nil {
		return nil, nil
	}

	decimals, err := serum.MintDecimals(accounts[0].Data)
	if err != nil {
		return nil, fmt.Errorf("mint %s: %w", mint, err)
	}

	meta := &domain.TokenMetadata{
		NetworkID: network,
		Mint:      mint.String(),
		Decimals:  decimals,
		Source:    domain.MetadataSourceOnChain,
		FetchedAt: s.now().UnixMilli(),
	}
	if len(accounts) > 1 && accounts[1] != nil {
		meta.Name, meta.Symbol = parseMetaplex(accounts[1].Data)
	}
	return meta, nil
}

// MetadataAddress derives the Metaplex metadata PDA for mint.
// Seeds: ["metadata", metaplex_program_id, mint]
func MetadataAddress(mint solana.PublicKey) (solana.PublicKey, bool) {
	pda, _, err := solana.FindProgramAddress([][]byte{
		[]byte("metadata"),
		MetaplexProgramID.Bytes(),
		mint.Bytes(),
	}, MetaplexProgramID)
	if err != nil {
		return solana.PublicKey{}, false
	}
	return pda, true
}

// parseMetaplex extracts name and symbol from a Metaplex metadata account.
// Layout: key u8 (4 = MetadataV1), updateAuthority [32], mint [32],
// name borsh string, symbol borsh string, ...
func parseMetaplex(data []byte) (name, symbol string) {
	const keyMetadataV1 = 4
	if len(data) < 65 || data[0] != keyMetadataV1 {
		return "", ""
	}

	offset := 65
	name, offset, ok := borshString(data, offset, 64)
	if !ok {
		return "", ""
	}
	symbol, _, ok = borshString(data, offset, 32)
	if !ok {
		return name, ""
	}
	return name, symbol
}

func borshString(data []byte, offset, maxLen int) (string, int, bool) {
	if offset+4 > len(data) {
		return "", offset, false
	}
	n := int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	if n > maxLen || offset+n > len(data) {
		return "", offset, false
	}
	s := strings.TrimRight(string(data[offset:offset+n]), "\x00")
	return strings.TrimSpace(s), offset + n, true
}
