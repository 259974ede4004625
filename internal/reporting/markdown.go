package reporting

import (
	"fmt"
	"strings"

	"serum-market-lab/internal/analytics"
)

// RenderMarkdown renders r as a Markdown document.
func RenderMarkdown(r *analytics.Report, liquidity bool) string {
	var sb strings.Builder

	// Header
	if r.PriceChange {
		sb.WriteString("# Market Price Impact\n\n")
		sb.WriteString(fmt.Sprintf("Notional: %s per tranche\n\n", FormatUSD(r.Notional)))
	} else {
		sb.WriteString("# Markets\n\n")
	}
	if r.Network != 0 && r.Program != nil {
		sb.WriteString(fmt.Sprintf("Network: %s | Program: `%s`\n\n", r.Network, r.Program))
	}

	cols := header(r, liquidity)
	sb.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("---|", len(cols)) + "\n")

	body := rows(r, liquidity)
	for _, row := range body {
		sb.WriteString("| " + strings.Join(escapeCells(row), " | ") + " |\n")
	}
	if len(body) == 0 {
		sb.WriteString("\nNo markets to report.\n")
	}

	// Summary
	if lines := summary(r); len(lines) > 0 {
		sb.WriteString("\n")
		for _, line := range lines {
			sb.WriteString(fmt.Sprintf("- %s\n", line))
		}
	}

	return sb.String()
}

func escapeCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.ReplaceAll(c, "|", `\|`)
	}
	return out
}
