// Package summary derives totals and breakdowns from tracker state. Nothing
// here is stored: every value is recomputed from the expenses it is given.
package summary

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

var hundred = decimal.NewFromInt(100)

// CategoryAmount is the amount spent in one category.
type CategoryAmount struct {
	Category string
	Amount   decimal.Decimal
}

// Summary bundles the derived values a dashboard shows.
type Summary struct {
	Month      string
	Budget     decimal.Decimal
	Total      decimal.Decimal
	Remaining  decimal.Decimal
	OverBudget bool
	// Percentage is only meaningful when PercentageOK is true; it is
	// undefined for a zero budget.
	Percentage   decimal.Decimal
	PercentageOK bool
	Progress     float64
	Breakdown    []CategoryAmount
}

// Of computes the summary of a state.
func Of(state tracker.State) Summary {
	pct, ok := SpentPercentage(state.Budget, state.Expenses)

	return Summary{
		Month:        state.Budget.Month,
		Budget:       state.Budget.MonthlyBalance,
		Total:        Total(state.Expenses),
		Remaining:    Remaining(state.Budget, state.Expenses),
		OverBudget:   IsOverBudget(state.Budget, state.Expenses),
		Percentage:   pct,
		PercentageOK: ok,
		Progress:     Progress(state.Budget, state.Expenses),
		Breakdown:    Breakdown(state.Expenses),
	}
}

// Total is the sum of every expense amount; zero for no expenses.
func Total(expenses []tracker.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}

	return total
}

// Remaining is the budget minus the total spent. It is negative when over
// budget.
func Remaining(budget tracker.Budget, expenses []tracker.Expense) decimal.Decimal {
	return budget.MonthlyBalance.Sub(Total(expenses))
}

func IsOverBudget(budget tracker.Budget, expenses []tracker.Expense) bool {
	return Remaining(budget, expenses).IsNegative()
}

// SpentPercentage returns total / budget * 100. ok is false when the budget
// is zero, where the ratio has no value.
func SpentPercentage(budget tracker.Budget, expenses []tracker.Expense) (pct decimal.Decimal, ok bool) {
	if budget.MonthlyBalance.IsZero() {
		return decimal.Zero, false
	}

	return Total(expenses).Div(budget.MonthlyBalance).Mul(hundred), true
}

// Progress is the spent percentage clamped to [0, 100] for a progress bar.
// With a zero budget it is 0 when nothing was spent and 100 otherwise.
func Progress(budget tracker.Budget, expenses []tracker.Expense) float64 {
	pct, ok := SpentPercentage(budget, expenses)
	if !ok {
		if Total(expenses).IsPositive() {
			return 100
		}

		return 0
	}

	return decimal.Min(decimal.Max(pct, decimal.Zero), hundred).InexactFloat64()
}

// CategoryTotals sums amounts per category. Categories without expenses are
// absent from the map.
func CategoryTotals(expenses []tracker.Expense) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}

	return totals
}

// Breakdown is CategoryTotals ordered by amount, largest first, then by name.
func Breakdown(expenses []tracker.Expense) []CategoryAmount {
	totals := CategoryTotals(expenses)

	out := make([]CategoryAmount, 0, len(totals))
	for cat, amount := range totals {
		out = append(out, CategoryAmount{Category: cat, Amount: amount})
	}

	slices.SortFunc(out, func(a, b CategoryAmount) int {
		if c := b.Amount.Cmp(a.Amount); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	return out
}
