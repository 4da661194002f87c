package view

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

// expenseFields backs the add and edit form. Forms keep pointers into it,
// so it must outlive the value copies bubbletea makes of the model.
type expenseFields struct {
	Name     string
	Amount   string
	Date     string
	Category string
}

func newExpenseFields(now time.Time) *expenseFields {
	return &expenseFields{Date: FormatDate(now), Category: "food"}
}

func fieldsFromExpense(e tracker.Expense) *expenseFields {
	return &expenseFields{
		Name:     e.Name,
		Amount:   e.Amount.String(),
		Date:     FormatDate(e.Date),
		Category: e.Category,
	}
}

func (f *expenseFields) draft() (tracker.Draft, error) {
	amount, err := tracker.ParseAmount(f.Amount)
	if err != nil {
		return tracker.Draft{}, err
	}

	date, err := tracker.ParseDate(f.Date)
	if err != nil {
		return tracker.Draft{}, err
	}

	return tracker.Draft{
		Name:     strings.TrimSpace(f.Name),
		Amount:   amount,
		Date:     date,
		Category: f.Category,
	}, nil
}

func newExpenseForm(f *expenseFields, categories []string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Value(&f.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("name cannot be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("amount").
				Title("Amount").
				Placeholder("0.00").
				Value(&f.Amount).
				Validate(func(s string) error {
					_, err := tracker.ParseAmount(s)
					return err
				}),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.Date).
				Validate(func(s string) error {
					_, err := tracker.ParseDate(s)
					return err
				}),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(huh.NewOptions(categories...)...).
				Value(&f.Category),
		),
	).WithWidth(44).WithShowHelp(false)
}

type budgetFields struct {
	Amount string
}

func (f *budgetFields) amount() (decimal.Decimal, error) {
	return tracker.ParseAmount(f.Amount)
}

func newBudgetForm(f *budgetFields, month string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Monthly budget").
				Description("For " + month).
				Placeholder("0.00").
				Value(&f.Amount).
				Validate(func(s string) error {
					_, err := tracker.ParseAmount(s)
					return err
				}),
		),
	).WithWidth(44).WithShowHelp(false)
}
