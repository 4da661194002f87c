package tracker

import "time"

// AllCategories is the Filter.Category value matching every category.
const AllCategories = "all"

// Filter selects expenses for display. A zero Filter matches everything.
// StartDate and EndDate are inclusive calendar dates.
type Filter struct {
	Category  string
	StartDate *time.Time
	EndDate   *time.Time
}

// Match reports whether e passes the filter.
func (f Filter) Match(e Expense) bool {
	if f.Category != "" && f.Category != AllCategories && e.Category != f.Category {
		return false
	}

	if f.StartDate != nil && e.Date.Before(NewDate(*f.StartDate)) {
		return false
	}

	if f.EndDate != nil && e.Date.After(NewDate(*f.EndDate)) {
		return false
	}

	return true
}

// FilterExpenses returns the expenses matching f, keeping their order. The
// input is not modified.
func FilterExpenses(expenses []Expense, f Filter) []Expense {
	out := make([]Expense, 0, len(expenses))

	for _, e := range expenses {
		if f.Match(e) {
			out = append(out, e)
		}
	}

	return out
}
