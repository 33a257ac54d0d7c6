package decline

import (
	"strings"

	"github.com/shopspring/decimal"
)

// formatUSD renders d as whole dollars with thousands separators: "$150,000".
func formatUSD(d decimal.Decimal) string {
	s := d.Round(0).Abs().String()

	var b strings.Builder
	if d.Round(0).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}
