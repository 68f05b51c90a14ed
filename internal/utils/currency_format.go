package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCOP renders whole pesos the way Colombian statements do:
// "$1.234.567", with a leading minus for negatives.
func FormatCOP(amount int64) string {
	digits := decimal.NewFromInt(amount).Abs().StringFixed(0)

	var b strings.Builder
	if amount < 0 {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatPercent renders part/whole as a percentage with one decimal, "0%"
// when whole is zero.
func FormatPercent(part, whole int64) string {
	if whole == 0 {
		return "0%"
	}
	pct := decimal.NewFromInt(part).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(whole)).Round(1)
	return pct.String() + "%"
}
