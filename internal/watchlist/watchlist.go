// Package watchlist provides the curated set of markets analyzed without discovery.
package watchlist

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"

	"serum-market-lab/internal/domain"
)

//go:embed markets.json
var defaultMarkets []byte

// QuoteSymbols are the quote tokens kept in the watchlist.
var QuoteSymbols = []string{"USDC", "USDT"}

// Entry is one market in a watchlist document.
type Entry struct {
	Name       string           `json:"name"`
	Address    solana.PublicKey `json:"address"`
	ProgramID  solana.PublicKey `json:"programId"`
	Deprecated bool             `json:"deprecated"`
}

// Default returns the embedded watchlist.
func Default() ([]domain.Market, error) {
	return Parse(defaultMarkets)
}

// LoadFile reads a watchlist from path.
func LoadFile(path string) ([]domain.Market, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a watchlist document and keeps the live markets quoted in
// one of QuoteSymbols, in document order.
func Parse(raw []byte) ([]domain.Market, error) {
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode watchlist: %w", err)
	}

	var out []domain.Market
	for _, e := range entries {
		if e.Deprecated || !quotedIn(e.Name, QuoteSymbols) {
			continue
		}
		out = append(out, domain.Market{
			Name:      e.Name,
			Address:   e.Address,
			ProgramID: e.ProgramID,
			Named:     true,
		})
	}
	return out, nil
}

func quotedIn(name string, quotes []string) bool {
	_, quote, ok := strings.Cut(name, "/")
	if !ok {
		return false
	}
	for _, q := range quotes {
		if quote == q {
			return true
		}
	}
	return false
}
