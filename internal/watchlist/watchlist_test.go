package watchlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	markets, err := Default()
	require.NoError(t, err)
	require.NotEmpty(t, markets)

	for _, m := range markets {
		assert.Regexp(t, `/(USDC|USDT)$`, m.Name)
		assert.False(t, m.Address.IsZero(), m.Name)
		assert.False(t, m.ProgramID.IsZero(), m.Name)
		assert.True(t, m.Named)
	}

	// SRM/SOL is not quoted in a stablecoin, the old SOL/USDT is deprecated
	var names []string
	for _, m := range markets {
		names = append(names, m.Name)
	}
	assert.NotContains(t, names, "SRM/SOL")
	assert.Len(t, names, 6)
}

func TestParse_Filters(t *testing.T) {
	raw := []byte(`[
		{"name": "A/USDC", "address": "9wFFyRfZBsuAha4YcuxcXLKwMxJR43S7fPfQLusDBzvT", "programId": "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"},
		{"name": "B/USDT", "address": "HWHvQhFmJB3NUcu1aihKmrKegfVxBEHzwVX6yZCKEsi1", "programId": "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin", "deprecated": true},
		{"name": "C/SOL", "address": "jyei9Fpj2GtHLDDGgcuhDacxYLLiSyxU4TY7KxB2xai", "programId": "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"},
		{"name": "NOSLASH", "address": "jyei9Fpj2GtHLDDGgcuhDacxYLLiSyxU4TY7KxB2xai", "programId": "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"}
	]`)

	markets, err := Parse(raw)
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.Equal(t, "A/USDC", markets[0].Name)
	assert.Equal(t, "9wFFyRfZBsuAha4YcuxcXLKwMxJR43S7fPfQLusDBzvT", markets[0].Address.String())
}

func TestParse_InvalidAddress(t *testing.T) {
	_, err := Parse([]byte(`[{"name": "A/USDC", "address": "not-base58!", "programId": "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"}]`))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchlist.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name": "X/USDT", "address": "9wFFyRfZBsuAha4YcuxcXLKwMxJR43S7fPfQLusDBzvT", "programId": "9xQeWvG816bUx9EPjHmaT23yvVM2ZWbrrpZb9PusVFin"}]`), 0o644))

	markets, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, markets, 1)
	assert.Equal(t, "X/USDT", markets[0].Name)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
