package reporting

import (
	"encoding/csv"
	"io"

	"serum-market-lab/internal/analytics"
)

// RenderCSV writes r as CSV with a header row.
func RenderCSV(w io.Writer, r *analytics.Report, liquidity bool) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header(r, liquidity)); err != nil {
		return err
	}
	if err := cw.WriteAll(rows(r, liquidity)); err != nil {
		return err
	}
	return cw.Error()
}
