package serum

import "fmt"

// SPL Token Mint layout (82 bytes):
// - mintAuthority: Option<Pubkey> (36 bytes: 4 + 32)
// - supply: u64 (8 bytes)
// - decimals: u8 (1 byte)
// - isInitialized: bool (1 byte)
// - freezeAuthority: Option<Pubkey> (36 bytes: 4 + 32)
const (
	mintAccountSize = 82
	mintDecimalsAt  = 44
)

// MintDecimals returns the decimals of an SPL token mint account.
func MintDecimals(data []byte) (int, error) {
	if len(data) < mintAccountSize {
		return 0, fmt.Errorf("%w: mint data too short: %d", ErrInvalidAccount, len(data))
	}
	return int(data[mintDecimalsAt]), nil
}
