package reporting

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serum-market-lab/internal/analytics"
	"serum-market-lab/internal/domain"
	"serum-market-lab/internal/network"
)

var solUSDC = domain.Market{
	Name:      "SOL/USDC",
	Address:   solana.MustPublicKeyFromBase58("9wFFyRfZBsuAha4YcuxcXLKwMxJR43S7fPfQLusDBzvT"),
	ProgramID: solana.MustPublicKeyFromBase58(network.MainnetDexProgram),
	Named:     true,
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func analyticsReport() *analytics.Report {
	threshold := d("5")
	return &analytics.Report{
		Markets:     []domain.Market{solUSDC},
		PriceChange: true,
		Notional:    d("10000"),
		Threshold:   &threshold,
		Results: []domain.AnalyticsResult{{
			Market:          solUSDC,
			BidImpact:       domain.Impact{Pct: d("0.1234")},
			AskImpact:       domain.Impact{Pct: d("2.5"), Partial: true},
			BidLiquidityUSD: d("12345"),
			AskLiquidityUSD: d("3400000"),
		}},
		Dropped: 2,
		Skipped: []analytics.Skipped{{Market: domain.Market{Name: "BTC/USDC"}, Reason: "timeout"}},
	}
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"950", "$950.00"},
		{"999.5", "$999.50"},
		{"1000", "$1.000k"},
		{"12345", "$12.345k"},
		{"3400000", "$3.400m"},
		{"7250000000", "$7.250b"},
		{"-950", "-$950.00"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUSD(d(tt.in)))
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"":         FormatTable,
		"table":    FormatTable,
		"JSON":     FormatJSON,
		"csv":      FormatCSV,
		"md":       FormatMarkdown,
		"markdown": FormatMarkdown,
	} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestRenderTable_Analytics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, analyticsReport(), Options{Format: FormatTable, Liquidity: true}))

	out := buf.String()
	assert.Contains(t, out, "Price change for $10000 (bid), %")
	assert.Contains(t, out, "SOL/USDC")
	assert.Contains(t, out, "0.12")
	assert.Contains(t, out, "2.50*")
	assert.Contains(t, out, "$12.345k")
	assert.Contains(t, out, "$3.400m")
	assert.Contains(t, out, "2 markets above 5% threshold dropped")
	assert.Contains(t, out, "skipped BTC/USDC")
}

func TestRenderTable_WithoutLiquidity(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, analyticsReport(), Options{}))

	assert.NotContains(t, buf.String(), "Bid liquidity")
	assert.NotContains(t, buf.String(), "$12.345k")
}

func TestRenderTable_Listing(t *testing.T) {
	r := &analytics.Report{Markets: []domain.Market{solUSDC}}

	var buf bytes.Buffer
	require.NoError(t, RenderTable(&buf, r, true))

	out := buf.String()
	assert.Contains(t, out, solUSDC.Address.String())
	assert.NotContains(t, out, "Price change")
	assert.Contains(t, out, "Found 1 markets")
}

func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, analyticsReport(), Options{Format: FormatCSV, Liquidity: true}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Len(t, records[0], 6)
	assert.Equal(t, []string{"SOL/USDC", solUSDC.Address.String(), "0.12", "2.50*", "$12.345k", "$3.400m"}, records[1])
}

func TestRenderMarkdown(t *testing.T) {
	r := analyticsReport()
	r.Network = network.MainnetBeta
	r.Program = &solUSDC.ProgramID

	out := RenderMarkdown(r, false)
	lines := strings.Split(out, "\n")

	assert.Equal(t, "# Market Price Impact", lines[0])
	assert.Contains(t, out, "Network: mainnet-beta")
	assert.Contains(t, out, "| SOL/USDC | "+solUSDC.Address.String()+" | 0.12 | 2.50* |")
	assert.Contains(t, out, "|---|---|---|---|")
	assert.Contains(t, out, "- skipped BTC/USDC")
}

func TestRenderMarkdown_Empty(t *testing.T) {
	r := &analytics.Report{PriceChange: true, Notional: d("10000")}
	assert.Contains(t, RenderMarkdown(r, false), "No markets to report.")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, analyticsReport(), Options{Format: FormatJSON}))

	var decoded struct {
		Results []struct {
			Market struct {
				Name    string `json:"name"`
				Address string `json:"address"`
			} `json:"market"`
			AskImpact struct {
				Pct     string `json:"pct"`
				Partial bool   `json:"partial"`
			} `json:"askImpact"`
		} `json:"results"`
		Dropped int `json:"dropped"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.Len(t, decoded.Results, 1)
	assert.Equal(t, "SOL/USDC", decoded.Results[0].Market.Name)
	assert.Equal(t, solUSDC.Address.String(), decoded.Results[0].Market.Address)
	assert.Equal(t, "2.5", decoded.Results[0].AskImpact.Pct)
	assert.True(t, decoded.Results[0].AskImpact.Partial)
	assert.Equal(t, 2, decoded.Dropped)
}

func TestWriteJSON_WatchlistOmitsProgram(t *testing.T) {
	r := analyticsReport()
	r.Network = 0
	r.Program = nil

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, r, Options{Format: FormatJSON}))

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.NotContains(t, decoded, "program")
	assert.NotContains(t, decoded, "network")
	assert.NotContains(t, buf.String(), "11111111111111111111111111111111")
}
