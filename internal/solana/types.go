package solana

import "github.com/mr-tron/base58"

// AccountInfo represents Solana account information with decoded data.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Data       []byte
	Executable bool
	RentEpoch  uint64
}

// KeyedAccount is an account returned by getProgramAccounts.
type KeyedAccount struct {
	Pubkey  string
	Account AccountInfo
}

// Filter is one getProgramAccounts predicate. Exactly one field is set.
type Filter struct {
	DataSize uint64  `json:"dataSize,omitempty"`
	Memcmp   *Memcmp `json:"memcmp,omitempty"`
}

// Memcmp compares account data at Offset with Bytes (base58 encoded).
type Memcmp struct {
	Offset uint64 `json:"offset"`
	Bytes  string `json:"bytes"`
}

// DataSizeFilter matches accounts whose data is exactly size bytes long.
func DataSizeFilter(size uint64) Filter {
	return Filter{DataSize: size}
}

// MemcmpFilter matches accounts whose data at offset equals raw.
func MemcmpFilter(offset uint64, raw []byte) Filter {
	return Filter{Memcmp: &Memcmp{Offset: offset, Bytes: base58.Encode(raw)}}
}
