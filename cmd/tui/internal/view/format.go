package view

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

// FormatAmount formats an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// bar renders share of width as a block bar. share is clamped to [0, 1].
func bar(share float64, width int) string {
	share = min(max(share, 0), 1)
	filled := int(share*float64(width) + 0.5)

	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
