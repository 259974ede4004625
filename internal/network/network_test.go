package network

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromGenesisHash_Known(t *testing.T) {
	cases := map[string]ID{
		MainnetBetaGenesis: MainnetBeta,
		TestnetGenesis:     Testnet,
		DevnetGenesis:      Devnet,
	}

	for hash, want := range cases {
		got, err := FromGenesisHash(hash)
		require.NoError(t, err, hash)
		assert.Equal(t, want, got)
	}
}

func TestFromGenesisHash_Unknown(t *testing.T) {
	for _, hash := range []string{"", "11111111111111111111111111111111", "5eykt4UsFv8P8NJdTREpY1vzqKqZKvdpKuc147dw2N9D"} {
		_, err := FromGenesisHash(hash)
		assert.True(t, errors.Is(err, ErrUnknownNetwork), "hash %q: got %v", hash, err)
	}
}

func TestDexProgram(t *testing.T) {
	program, err := DexProgram(MainnetBeta)
	require.NoError(t, err)
	assert.Equal(t, MainnetDexProgram, program.String())

	program, err = DexProgram(Devnet)
	require.NoError(t, err)
	assert.Equal(t, DevnetDexProgram, program.String())
}

func TestDexProgram_NoDeployment(t *testing.T) {
	_, err := DexProgram(Testnet)
	assert.ErrorIs(t, err, ErrUnknownNetwork)

	_, err = DexProgram(ID(999))
	assert.ErrorIs(t, err, ErrUnknownNetwork)
}

func TestID_String(t *testing.T) {
	assert.Equal(t, "mainnet-beta", MainnetBeta.String())
	assert.Equal(t, "devnet", Devnet.String())
	assert.Equal(t, "network(7)", ID(7).String())
}
