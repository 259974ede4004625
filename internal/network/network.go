// Package network maps a ledger's genesis hash to a network id and a network
// id to the Serum DEX program deployed there.
package network

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ErrUnknownNetwork is returned for genesis hashes or network ids with no known mapping.
var ErrUnknownNetwork = errors.New("unknown network")

// ID is a logical network identifier (token-list chain id).
type ID int

// Known networks.
const (
	MainnetBeta ID = 101
	Testnet     ID = 102
	Devnet      ID = 103
)

func (id ID) String() string {
	switch id {
	case MainnetBeta:
		return "mainnet-beta"
	case Testnet:
		return "testnet"
	case Devnet:
		return "devnet"
	default:
		return fmt.Sprintf("network(%d)", int(id))
	}
}

// Genesis hashes of the public clusters.
const (
	MainnetBetaGenesis = "5eykt4UsFv8P8NJdTREpY1vzqKqZKvdpKuc147dw2N9d"
	TestnetGenesis     = "4uhcVJyU9pJkvQyS88uRDiswHXSCkY3zQawwpjk2NsNY"
	DevnetGenesis      = "EtWTRABZaYq6iMfeYKouRu166VU2xqa1wcaWoxPkrZBG"
)

// Serum DEX v3 program deployments.
const (
	MainnetDexProgram = "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"
	DevnetDexProgram  = "DESVgJVGajEgKGXhb6XmqDHGz3VjdgP7rEVESBgxmroY"
)

var byGenesis = map[string]ID{
	MainnetBetaGenesis: MainnetBeta,
	TestnetGenesis:     Testnet,
	DevnetGenesis:      Devnet,
}

var dexPrograms = map[ID]solana.PublicKey{
	MainnetBeta: solana.MustPublicKeyFromBase58(MainnetDexProgram),
	Devnet:      solana.MustPublicKeyFromBase58(DevnetDexProgram),
}

// FromGenesisHash resolves the network id for a genesis hash.
func FromGenesisHash(hash string) (ID, error) {
	id, ok := byGenesis[hash]
	if !ok {
		return 0, fmt.Errorf("%w: genesis hash %s", ErrUnknownNetwork, hash)
	}
	return id, nil
}

// DexProgram returns the Serum program address deployed on a network.
func DexProgram(id ID) (solana.PublicKey, error) {
	program, ok := dexPrograms[id]
	if !ok {
		return solana.PublicKey{}, fmt.Errorf("%w: no dex deployment for chain id %d", ErrUnknownNetwork, int(id))
	}
	return program, nil
}
