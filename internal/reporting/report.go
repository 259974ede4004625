// Package reporting renders analytics reports.
package reporting

import (
	"encoding/json"
	"fmt"
	"io"

	"serum-market-lab/internal/analytics"
	"serum-market-lab/internal/domain"
)

// Options controls report rendering.
type Options struct {
	Format Format
	// Liquidity adds bid/ask liquidity columns.
	Liquidity bool
}

// Write renders r to w.
func Write(w io.Writer, r *analytics.Report, opts Options) error {
	switch opts.Format {
	case FormatTable, "":
		return RenderTable(w, r, opts.Liquidity)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatCSV:
		return RenderCSV(w, r, opts.Liquidity)
	case FormatMarkdown:
		_, err := io.WriteString(w, RenderMarkdown(r, opts.Liquidity))
		return err
	default:
		return fmt.Errorf("unknown format %q", opts.Format)
	}
}

// header returns the column titles for r.
func header(r *analytics.Report, liquidity bool) []string {
	if !r.PriceChange {
		return []string{"Market", "Address"}
	}
	notional := "$" + r.Notional.String()
	cols := []string{
		"Market",
		"Address",
		fmt.Sprintf("Price change for %s (bid), %%", notional),
		fmt.Sprintf("Price change for %s (ask), %%", notional),
	}
	if liquidity {
		cols = append(cols, "Bid liquidity", "Ask liquidity")
	}
	return cols
}

// rows returns one formatted row per market (listing) or result (analytics).
func rows(r *analytics.Report, liquidity bool) [][]string {
	if !r.PriceChange {
		out := make([][]string, 0, len(r.Markets))
		for _, m := range r.Markets {
			out = append(out, []string{m.Name, m.Address.String()})
		}
		return out
	}

	out := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		out = append(out, resultRow(res, liquidity))
	}
	return out
}

func resultRow(res domain.AnalyticsResult, liquidity bool) []string {
	row := []string{
		res.Market.Name,
		res.Market.Address.String(),
		res.BidImpact.String(),
		res.AskImpact.String(),
	}
	if liquidity {
		row = append(row, FormatUSD(res.BidLiquidityUSD), FormatUSD(res.AskLiquidityUSD))
	}
	return row
}

// summary describes what the run left out of the rows.
func summary(r *analytics.Report) []string {
	if !r.PriceChange {
		return []string{fmt.Sprintf("Found %d markets", len(r.Markets))}
	}

	var lines []string
	if r.Threshold != nil {
		lines = append(lines, fmt.Sprintf("%d markets above %s%% threshold dropped", r.Dropped, r.Threshold.String()))
	}
	for _, s := range r.Skipped {
		lines = append(lines, fmt.Sprintf("skipped %s (%s): %s", s.Market.Name, s.Market.Address, s.Reason))
	}
	return lines
}
