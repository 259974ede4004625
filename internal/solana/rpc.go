package solana

import "context"

// RPCClient defines the Solana RPC HTTP interface used for market discovery
// and order book loading.
type RPCClient interface {
	// GetGenesisHash returns the cluster's genesis hash (base58).
	GetGenesisHash(ctx context.Context) (string, error)

	// GetProgramAccounts returns all accounts owned by program matching every filter.
	GetProgramAccounts(ctx context.Context, program string, filters []Filter) ([]KeyedAccount, error)

	// GetAccountInfo retrieves account info by public key. Returns nil if not found.
	GetAccountInfo(ctx context.Context, pubkey string) (*AccountInfo, error)

	// GetMultipleAccounts retrieves several accounts in one request.
	// The result has one entry per key, nil for missing accounts.
	GetMultipleAccounts(ctx context.Context, pubkeys []string) ([]*AccountInfo, error)
}
