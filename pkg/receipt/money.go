package receipt

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a money string like "$1,234.56" or "5" into integer
// cents. Currency symbols, commas and whitespace are ignored.
func ParseAmount(s string) (int64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return 0, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), true
}
