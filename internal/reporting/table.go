package reporting

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"serum-market-lab/internal/analytics"
)

// RenderTable writes r as a bordered text table followed by the summary lines.
func RenderTable(w io.Writer, r *analytics.Report, liquidity bool) error {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header(r, liquidity))
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows(r, liquidity))
	table.Render()

	for _, line := range summary(r) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
