package utils

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL renders an amount the way Brazilian reais are written:
// "R$ 1.234,56", negatives as "-R$ 1.234,56".
func FormatBRL(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return sign + "R$ " + groupBR(rounded.StringFixed(2))
}

// FormatNumberBR renders n with the given number of decimal places using
// "." for thousands and "," for decimals. Non-finite values render as "0".
func FormatNumberBR(n float64, places int32) string {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		n = 0
	}
	d := decimal.NewFromFloat(n).Round(places)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + groupBR(d.StringFixed(places))
}

// groupBR converts an unsigned "1234.56" into "1.234,56".
func groupBR(fixed string) string {
	intPart, fracPart, hasFrac := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return b.String()
}
