// Package store saves the tracker state as a single JSON document under one
// key of a kv.Store.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgie/internal/kv"
	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

const DefaultKey = "expense-tracker-state"

type Store struct {
	kv     kv.Store
	key    string
	logger *slog.Logger
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

func New(s kv.Store, key string, opts ...Option) *Store {
	if key == "" {
		key = DefaultKey
	}

	st := &Store{kv: s, key: key, logger: slog.Default()}
	for _, opt := range opts {
		opt(st)
	}

	return st
}

// Load returns nil, nil when nothing has been saved under the key.
func (s *Store) Load(ctx context.Context) (*tracker.State, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("%w: %w", tracker.ErrPersistenceRead, err)
	}

	state, err := Decode(data)
	if err != nil {
		return nil, err
	}

	for _, e := range state.Expenses {
		if e.Date.IsZero() {
			s.logger.WarnContext(ctx, "expense has an unreadable date", "id", e.ID, "name", e.Name)
		}
	}

	return &state, nil
}

func (s *Store) Save(ctx context.Context, state tracker.State) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}

	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("%w: %w", tracker.ErrPersistenceWrite, err)
	}

	return nil
}

// Encode renders state in the persisted layout.
func Encode(state tracker.State) ([]byte, error) {
	doc := stateDoc{
		Budget: budgetDoc{
			MonthlyBalance: number(state.Budget.MonthlyBalance),
			Month:          state.Budget.Month,
		},
		Expenses:         make([]expenseDoc, 0, len(state.Expenses)),
		CustomCategories: state.CustomCategories,
	}

	if doc.CustomCategories == nil {
		doc.CustomCategories = []string{}
	}

	for _, e := range state.Expenses {
		doc.Expenses = append(doc.Expenses, expenseDoc{
			ID:       e.ID,
			Name:     e.Name,
			Amount:   number(e.Amount),
			Date:     e.Date.Format(time.DateOnly),
			Category: e.Category,
		})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding state: %w", tracker.ErrPersistenceWrite, err)
	}

	return data, nil
}

// Decode parses the persisted layout. A missing customCategories field reads
// as no custom categories. An expense whose date cannot be read is kept with a
// zero Date so one damaged entry never discards the rest of the document.
func Decode(data []byte) (tracker.State, error) {
	var doc stateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return tracker.State{}, fmt.Errorf("%w: decoding state: %w", tracker.ErrPersistenceRead, err)
	}

	state := tracker.State{
		Budget: tracker.Budget{
			MonthlyBalance: decimal.Decimal(doc.Budget.MonthlyBalance),
			Month:          doc.Budget.Month,
		},
		Expenses:         make([]tracker.Expense, 0, len(doc.Expenses)),
		CustomCategories: doc.CustomCategories,
	}

	if state.CustomCategories == nil {
		state.CustomCategories = []string{}
	}

	for _, e := range doc.Expenses {
		date, err := parseDate(e.Date)
		if err != nil {
			date = time.Time{}
		}

		state.Expenses = append(state.Expenses, tracker.Expense{
			ID:       e.ID,
			Name:     e.Name,
			Amount:   decimal.Decimal(e.Amount),
			Date:     date,
			Category: e.Category,
		})
	}

	return state, nil
}

// parseDate accepts a calendar date or a full timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}

	return tracker.NewDate(t), nil
}

type stateDoc struct {
	Budget           budgetDoc    `json:"budget"`
	Expenses         []expenseDoc `json:"expenses"`
	CustomCategories []string     `json:"customCategories"`
}

type budgetDoc struct {
	MonthlyBalance number `json:"monthlyBalance"`
	Month          string `json:"month"`
}

type expenseDoc struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Amount   number `json:"amount"`
	Date     string `json:"date"`
	Category string `json:"category"`
}

// number is a decimal written as a bare JSON number with its exact text.
type number decimal.Decimal

func (n number) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(n).String()), nil
}

// UnmarshalJSON accepts both bare and quoted numbers.
func (n *number) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}

	*n = number(d)

	return nil
}
