package render

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is how issue dates appear on a document (DD-MM-YYYY).
const DateLayout = "02-01-2006"

// Money formats d with two decimals and thousands separators: 1234.5 -> "1,234.50".
// The digits are grouped as text, so amounts of any size keep their separators.
func Money(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(fixed, ".")

	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}

	return sign + groupThousands(whole) + "." + frac
}

// groupThousands inserts a comma every three digits from the right.
func groupThousands(digits string) string {
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	b.Grow(len(digits) + len(digits)/3)
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Date formats an issue date.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}
