package discovery

import (
	"context"
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"

	"serum-market-lab/internal/domain"
	"serum-market-lab/internal/serum"
	rpc "serum-market-lab/internal/solana"
)

// TokenResolver returns the lookup used to name markets built on mints.
type TokenResolver func(ctx context.Context, mints []solana.PublicKey) (TokenLookup, error)

// Static returns a TokenResolver that always answers with tokens.
func Static(tokens TokenLookup) TokenResolver {
	return func(context.Context, []solana.PublicKey) (TokenLookup, error) {
		return tokens, nil
	}
}

// Search fetches every market account of programID matching opts, resolves
// the tokens of the decoded mints, then names and sorts the results.
// The filter is validated before any RPC call.
func Search(ctx context.Context, client rpc.RPCClient, programID solana.PublicKey, opts FilterOptions, resolve TokenResolver) ([]domain.Market, error) {
	filters, err := NewFilter(opts)
	if err != nil {
		return nil, err
	}

	accounts, err := client.GetProgramAccounts(ctx, programID.String(), filters)
	if err != nil {
		return nil, fmt.Errorf("get program accounts: %w", err)
	}

	tokens, err := resolve(ctx, Mints(accounts))
	if err != nil {
		return nil, fmt.Errorf("resolve tokens: %w", err)
	}

	markets := Resolve(accounts, programID, tokens)
	SortMarkets(markets)
	return markets, nil
}

// Resolve turns fetched accounts into named markets. Accounts that cannot be
// decoded are kept unnamed, labelled with their address.
func Resolve(accounts []rpc.KeyedAccount, programID solana.PublicKey, tokens TokenLookup) []domain.Market {
	markets := make([]domain.Market, 0, len(accounts))
	for _, acc := range accounts {
		address, err := solana.PublicKeyFromBase58(acc.Pubkey)
		if err != nil {
			markets = append(markets, domain.Market{Name: acc.Pubkey, ProgramID: programID})
			continue
		}

		market := domain.Market{Name: acc.Pubkey, Address: address, ProgramID: programID}
		if state, err := serum.DecodeMarketState(acc.Account.Data); err == nil {
			market.Name = Name(state.Record(address), tokens)
			market.Named = true
		}
		markets = append(markets, market)
	}
	return markets
}

// SortMarkets orders markets by name with unnamed entries last. Ties break
// on address so the order is total.
func SortMarkets(markets []domain.Market) {
	sort.SliceStable(markets, func(i, j int) bool {
		a, b := markets[i], markets[j]
		if a.Named != b.Named {
			return a.Named
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Address.String() < b.Address.String()
	})
}

// Mints returns the distinct base and quote mints of the decodable accounts.
func Mints(accounts []rpc.KeyedAccount) []solana.PublicKey {
	seen := make(map[solana.PublicKey]bool)
	var out []solana.PublicKey
	for _, acc := range accounts {
		state, err := serum.DecodeMarketState(acc.Account.Data)
		if err != nil {
			continue
		}
		for _, mint := range []solana.PublicKey{state.BaseMint, state.QuoteMint} {
			if !seen[mint] {
				seen[mint] = true
				out = append(out, mint)
			}
		}
	}
	return out
}
