package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"serum-market-lab/internal/domain"
)

// DefaultListURL is the community SPL token list.
const DefaultListURL = "https://cdn.jsdelivr.net/gh/solana-labs/token-list@main/src/tokens/solana.tokenlist.json"

// ListLoader loads the token entries for a network.
type ListLoader interface {
	Load(ctx context.Context, network int) ([]domain.TokenMetadata, error)
}

// ListSource reads a token-list JSON document from a URL or a local file.
type ListSource struct {
	location   string
	httpClient *http.Client
	now        func() time.Time
}

// NewListSource creates a source for location. An http(s) location is
// fetched, anything else is read from disk.
func NewListSource(location string, timeout time.Duration) *ListSource {
	if location == "" {
		location = DefaultListURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ListSource{
		location:   location,
		httpClient: &http.Client{Timeout: timeout},
		now:        time.Now,
	}
}

type tokenList struct {
	Tokens []struct {
		ChainID  int    `json:"chainId"`
		Address  string `json:"address"`
		Symbol   string `json:"symbol"`
		Name     string `json:"name"`
		Decimals int    `json:"decimals"`
	} `json:"tokens"`
}

// Load returns the list entries whose chainId equals network.
func (s *ListSource) Load(ctx context.Context, network int) ([]domain.TokenMetadata, error) {
	raw, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	var list tokenList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode token list: %w", err)
	}

	fetchedAt := s.now().UnixMilli()
	var out []domain.TokenMetadata
	for _, t := range list.Tokens {
		if t.ChainID != network {
			continue
		}
		out = append(out, domain.TokenMetadata{
			NetworkID: t.ChainID,
			Mint:      t.Address,
			Name:      t.Name,
			Symbol:    t.Symbol,
			Decimals:  t.Decimals,
			Source:    domain.MetadataSourceRegistry,
			FetchedAt: fetchedAt,
		})
	}
	return out, nil
}

func (s *ListSource) read(ctx context.Context) ([]byte, error) {
	if !strings.HasPrefix(s.location, "http://") && !strings.HasPrefix(s.location, "https://") {
		raw, err := os.ReadFile(s.location)
		if err != nil {
			return nil, fmt.Errorf("read token list: %w", err)
		}
		return raw, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch token list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch token list: status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read token list body: %w", err)
	}
	return raw, nil
}
