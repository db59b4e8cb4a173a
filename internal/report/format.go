// Package report renders a computed summary result for humans and machines.
// All numeric formatting happens here; the pipeline upstream only ever works
// with numeric values.
package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders a decimal with two fraction digits and thousands
// separators, e.g. 1234567.5 becomes "1,234,567.50".
func FormatCurrency(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	return sign + groupThousands(whole) + "." + frac
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
