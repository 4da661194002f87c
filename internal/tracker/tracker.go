package tracker

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// MonthLayout is the layout of Budget.Month.
const MonthLayout = "2006-01"

// Expense is a single recorded expense. ID is assigned on creation and never
// changes afterwards.
type Expense struct {
	ID       string
	Name     string
	Amount   decimal.Decimal
	Date     time.Time // Calendar date, UTC midnight
	Category string
}

// Draft is an expense as submitted by the user, before an ID is assigned.
type Draft struct {
	Name     string
	Amount   decimal.Decimal
	Date     time.Time
	Category string
}

// Budget is the monthly balance for a given month.
type Budget struct {
	MonthlyBalance decimal.Decimal
	Month          string // YYYY-MM
}

// State is the whole tracker: the active budget, every expense in insertion
// order and the user-defined categories.
//
// A State handed out by Service is a snapshot: mutations build a new State
// rather than changing the slices of an existing one.
type State struct {
	Budget           Budget
	Expenses         []Expense
	CustomCategories []string
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{
		Budget:           s.Budget,
		Expenses:         slices.Clone(s.Expenses),
		CustomCategories: slices.Clone(s.CustomCategories),
	}
}

// Find returns the expense with the given id.
func (s State) Find(id string) (Expense, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Expense{}, false
	}

	return s.Expenses[idx], true
}

func (s State) indexOf(id string) int {
	return slices.IndexFunc(s.Expenses, func(e Expense) bool { return e.ID == id })
}

// CurrentMonth returns the calendar month of now as YYYY-MM, in now's location.
func CurrentMonth(now time.Time) string {
	return now.Format(MonthLayout)
}

// EmptyState returns the state a tracker starts from: a zero budget for month
// and no expenses or custom categories.
func EmptyState(month string) State {
	return State{
		Budget:           Budget{MonthlyBalance: decimal.Zero, Month: month},
		Expenses:         []Expense{},
		CustomCategories: []string{},
	}
}

// NewDate returns the calendar date of t as UTC midnight.
func NewDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
