// Package api holds the JSON shapes and response helpers shared by the HTTP
// handlers.
package api

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgie/internal/category"
	"github.com/MrJamesThe3rd/budgie/internal/summary"
	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

type ExpenseResponse struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Amount   json.Number `json:"amount"`
	Date     string      `json:"date"`
	Category string      `json:"category"`
}

type BudgetResponse struct {
	MonthlyBalance json.Number `json:"monthlyBalance"`
	Month          string      `json:"month"`
}

type StateResponse struct {
	Budget           BudgetResponse    `json:"budget"`
	Expenses         []ExpenseResponse `json:"expenses"`
	CustomCategories []string          `json:"customCategories"`
}

type CategoryAmountResponse struct {
	Category string      `json:"category"`
	Amount   json.Number `json:"amount"`
}

type SummaryResponse struct {
	Month      string      `json:"month"`
	Budget     json.Number `json:"budget"`
	Total      json.Number `json:"total"`
	Remaining  json.Number `json:"remaining"`
	OverBudget bool        `json:"overBudget"`
	// Percentage is null for a zero budget.
	Percentage *json.Number             `json:"percentage"`
	Progress   float64                  `json:"progress"`
	Breakdown  []CategoryAmountResponse `json:"breakdown"`
	Formatted  map[string]string        `json:"formatted"`
}

type CategoriesResponse struct {
	Builtin []string `json:"builtin"`
	Custom  []string `json:"custom"`
	All     []string `json:"all"`
}

func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

func ToExpense(e tracker.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:       e.ID,
		Name:     e.Name,
		Amount:   number(e.Amount),
		Date:     e.Date.Format(time.DateOnly),
		Category: e.Category,
	}
}

func ToExpenses(expenses []tracker.Expense) []ExpenseResponse {
	resp := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		resp[i] = ToExpense(e)
	}

	return resp
}

func ToBudget(b tracker.Budget) BudgetResponse {
	return BudgetResponse{MonthlyBalance: number(b.MonthlyBalance), Month: b.Month}
}

func ToState(s tracker.State) StateResponse {
	custom := s.CustomCategories
	if custom == nil {
		custom = []string{}
	}

	return StateResponse{
		Budget:           ToBudget(s.Budget),
		Expenses:         ToExpenses(s.Expenses),
		CustomCategories: custom,
	}
}

func ToSummary(s summary.Summary) SummaryResponse {
	resp := SummaryResponse{
		Month:      s.Month,
		Budget:     number(s.Budget),
		Total:      number(s.Total),
		Remaining:  number(s.Remaining),
		OverBudget: s.OverBudget,
		Progress:   s.Progress,
		Breakdown:  make([]CategoryAmountResponse, len(s.Breakdown)),
		Formatted: map[string]string{
			"budget":     summary.FormatCurrency(s.Budget),
			"total":      summary.FormatCurrency(s.Total),
			"remaining":  summary.FormatCurrency(s.Remaining),
			"percentage": summary.FormatPercentage(s.Percentage, s.PercentageOK),
		},
	}

	if s.PercentageOK {
		resp.Percentage = new(number(s.Percentage.Round(2)))
	}

	for i, c := range s.Breakdown {
		resp.Breakdown[i] = CategoryAmountResponse{Category: c.Category, Amount: number(c.Amount)}
	}

	return resp
}

func ToCategories(custom []string) CategoriesResponse {
	if custom == nil {
		custom = []string{}
	}

	return CategoriesResponse{
		Builtin: category.Builtins(),
		Custom:  custom,
		All:     category.List(custom),
	}
}
