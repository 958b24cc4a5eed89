package grid

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyFormat is the one number format statements use.
const CurrencyFormat = "$#,##0"

// FormatNumber renders v for display under numFmt. Only CurrencyFormat and
// the general format are understood; anything else falls back to general.
func FormatNumber(v decimal.Decimal, numFmt string) string {
	if numFmt != CurrencyFormat {
		return v.String()
	}
	neg := v.IsNegative()
	digits := v.Abs().Round(0).StringFixed(0)
	var b strings.Builder
	if neg && digits != "0" {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}
