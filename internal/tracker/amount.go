package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-entered amount. Both "12.50" and "12,50" are
// accepted. A comma is read as the decimal separator only when it is the sole
// separator and one or two digits follow it, so "1,234" is rejected rather than
// read as 1.234. Empty, non-numeric and negative input yields ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return decimal.Zero, ErrInvalidAmount
	}

	if i := strings.IndexByte(clean, ','); i >= 0 {
		frac := clean[i+1:]
		if strings.ContainsAny(frac, ",.") || strings.Contains(clean[:i], ".") || len(frac) < 1 || len(frac) > 2 {
			return decimal.Zero, fmt.Errorf("%w: ambiguous separator in %q", ErrInvalidAmount, s)
		}

		clean = clean[:i] + "." + frac
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}

	return d, nil
}

// ValidateAmount reports ErrInvalidAmount for a negative amount.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%w: %s is negative", ErrInvalidAmount, d)
	}

	return nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	return t, nil
}
