package summary

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	printer = message.NewPrinter(language.AmericanEnglish)
	rupee   = printer.Sprint(currency.Symbol(currency.INR))
)

// FormatCurrency renders an amount in Indian rupees with grouped thousands
// and two decimals, e.g. "₹1,234.50" or "-₹50.00".
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	value := printer.Sprint(number.Decimal(amount.Round(2).InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))

	return sign + rupee + value
}

// FormatPercentage renders a spent percentage with one decimal, or "n/a"
// when it is undefined.
func FormatPercentage(pct decimal.Decimal, ok bool) string {
	if !ok {
		return "n/a"
	}

	return pct.StringFixed(1) + "%"
}
