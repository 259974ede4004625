package discovery

import (
	"github.com/gagliardetto/solana-go"

	"serum-market-lab/internal/domain"
)

// TokenLookup resolves mint addresses to token metadata.
type TokenLookup interface {
	Lookup(mint string) (domain.TokenMetadata, bool)
}

// Name renders a record as "BASE/QUOTE". Unknown mints fall back to their
// base58 address.
func Name(record domain.MarketRecord, tokens TokenLookup) string {
	return symbol(record.BaseMint, tokens) + "/" + symbol(record.QuoteMint, tokens)
}

func symbol(mint solana.PublicKey, tokens TokenLookup) string {
	address := mint.String()
	if tokens == nil {
		return address
	}
	meta, ok := tokens.Lookup(address)
	if !ok || meta.Symbol == "" {
		return address
	}
	return meta.Symbol
}
