package stub

import (
	"bytes"
	"context"
	"sync"

	"github.com/mr-tron/base58"

	"serum-market-lab/internal/solana"
)

// RPCClient implements solana.RPCClient for testing.
type RPCClient struct {
	mu sync.Mutex

	Genesis  string
	Accounts map[string]*solana.AccountInfo // pubkey -> account
	Programs map[string][]string            // program -> owned pubkeys

	// Err, when set, is returned by every call.
	Err error
	// FailAccounts makes GetAccountInfo fail for specific keys.
	FailAccounts map[string]error

	calls map[string]int
}

// NewRPCClient creates a new stub RPC client.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Accounts:     make(map[string]*solana.AccountInfo),
		Programs:     make(map[string][]string),
		FailAccounts: make(map[string]error),
		calls:        make(map[string]int),
	}
}

func (c *RPCClient) record(method string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls[method]++
	return c.Err
}

// Calls returns how many times method was invoked.
func (c *RPCClient) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (c *RPCClient) TotalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.calls {
		total += n
	}
	return total
}

// GetGenesisHash returns the configured genesis hash.
func (c *RPCClient) GetGenesisHash(_ context.Context) (string, error) {
	if err := c.record("getGenesisHash"); err != nil {
		return "", err
	}
	return c.Genesis, nil
}

// GetProgramAccounts returns the program's accounts that satisfy every filter.
func (c *RPCClient) GetProgramAccounts(_ context.Context, program string, filters []solana.Filter) ([]solana.KeyedAccount, error) {
	if err := c.record("getProgramAccounts"); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	keys, ok := c.Programs[program]
	if !ok {
		return nil, nil
	}

	var out []solana.KeyedAccount
	for _, key := range keys {
		info := c.Accounts[key]
		if info == nil {
			continue
		}
		match, err := matches(info.Data, filters)
		if err != nil {
			return nil, err
		}
		if match {
			out = append(out, solana.KeyedAccount{Pubkey: key, Account: *info})
		}
	}
	return out, nil
}

func matches(data []byte, filters []solana.Filter) (bool, error) {
	for _, f := range filters {
		if f.DataSize != 0 && uint64(len(data)) != f.DataSize {
			return false, nil
		}
		if f.Memcmp != nil {
			want, err := base58.Decode(f.Memcmp.Bytes)
			if err != nil {
				return false, err
			}
			end := f.Memcmp.Offset + uint64(len(want))
			if end > uint64(len(data)) || !bytes.Equal(data[f.Memcmp.Offset:end], want) {
				return false, nil
			}
		}
	}
	return true, nil
}

// GetAccountInfo retrieves an account from the stub store, nil if missing.
func (c *RPCClient) GetAccountInfo(_ context.Context, pubkey string) (*solana.AccountInfo, error) {
	if err := c.record("getAccountInfo"); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err, ok := c.FailAccounts[pubkey]; ok {
		return nil, err
	}
	return c.Accounts[pubkey], nil
}

// GetMultipleAccounts retrieves several accounts from the stub store.
func (c *RPCClient) GetMultipleAccounts(_ context.Context, pubkeys []string) ([]*solana.AccountInfo, error) {
	if err := c.record("getMultipleAccounts"); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*solana.AccountInfo, len(pubkeys))
	for i, key := range pubkeys {
		if err, ok := c.FailAccounts[key]; ok {
			return nil, err
		}
		out[i] = c.Accounts[key]
	}
	return out, nil
}

// AddAccount stores an account owned by program.
func (c *RPCClient) AddAccount(program, pubkey string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Accounts[pubkey] = &solana.AccountInfo{Owner: program, Data: data}
	if program != "" {
		c.Programs[program] = append(c.Programs[program], pubkey)
	}
}

var _ solana.RPCClient = (*RPCClient)(nil)
