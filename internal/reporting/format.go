package reporting

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Format is an output format.
type Format string

// Supported formats.
const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatCSV, FormatMarkdown:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format %q (want table, json, csv or markdown)", s)
	}
}

var usdScales = []struct {
	limit  decimal.Decimal
	div    decimal.Decimal
	suffix string
}{
	{decimal.New(1, 3), decimal.New(1, 0), ""},
	{decimal.New(1, 6), decimal.New(1, 3), "k"},
	{decimal.New(1, 9), decimal.New(1, 6), "m"},
}

// FormatUSD renders a dollar amount with metric-prefix scaling:
// below 1e3 with cents, then thousands "k", millions "m" and billions "b"
// with three decimals.
func FormatUSD(v decimal.Decimal) string {
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Abs()
	}

	if v.LessThan(usdScales[0].limit) {
		return sign + "$" + v.StringFixed(2)
	}
	for _, s := range usdScales[1:] {
		if v.LessThan(s.limit) {
			return sign + "$" + v.Div(s.div).StringFixed(3) + s.suffix
		}
	}
	return sign + "$" + v.Div(decimal.New(1, 9)).StringFixed(3) + "b"
}
