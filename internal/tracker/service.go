package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/budgie/internal/category"
)

// maxIDAttempts bounds how often an id is requested before giving up on a
// provider that keeps returning ids already in use.
const maxIDAttempts = 3

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=tracker
type Repository interface {
	// Load returns the saved state, or nil when nothing has been saved yet.
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, state State) error
}

// Service owns the tracker state. It is the only writer: every mutation
// builds the next State, saves it and notifies subscribers while holding the
// writer lock, so observers never see a partially applied change.
//
// Subscribers run synchronously and must not call back into the Service.
type Service struct {
	repo   Repository
	ids    IDProvider
	now    func() time.Time
	logger *slog.Logger

	mu          sync.Mutex
	state       State
	subscribers []subscriber
	nextSubID   int
}

type subscriber struct {
	id int
	fn func(State)
}

type Option func(*Service)

// WithIDProvider replaces the default UUID provider.
func WithIDProvider(p IDProvider) Option {
	return func(s *Service) { s.ids = p }
}

// WithClock replaces time.Now. It decides the current month.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService loads the saved state through repo and returns a Service
// holding it.
//
// A missing or unreadable saved state is not an error: the service starts
// from an empty state for the current month. A saved budget from another
// month is reset to zero for the current month while expenses and custom
// categories carry over. The resulting state is saved straight away.
func NewService(ctx context.Context, repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		ids:    UUIDProvider{},
		now:    time.Now,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.state = s.load(ctx)
	s.save(ctx, s.state)

	return s
}

func (s *Service) load(ctx context.Context) State {
	month := CurrentMonth(s.now())

	saved, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Warn("failed to load saved state, starting empty", "error", err)
		return EmptyState(month)
	}

	if saved == nil {
		return EmptyState(month)
	}

	state := saved.Clone()
	if state.Expenses == nil {
		state.Expenses = []Expense{}
	}

	if state.CustomCategories == nil {
		state.CustomCategories = []string{}
	}

	state.Expenses = s.dropDuplicateIDs(state.Expenses)

	if state.Budget.Month != month {
		s.logger.Info("saved budget is from another month, resetting",
			"saved_month", state.Budget.Month, "current_month", month)

		state.Budget = EmptyState(month).Budget
	}

	return state
}

func (s *Service) dropDuplicateIDs(expenses []Expense) []Expense {
	seen := make(map[string]struct{}, len(expenses))
	out := make([]Expense, 0, len(expenses))

	for _, e := range expenses {
		if _, dup := seen[e.ID]; dup {
			s.logger.Warn("dropping expense with duplicate id", "id", e.ID)
			continue
		}

		seen[e.ID] = struct{}{}
		out = append(out, e)
	}

	return out
}

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Clone()
}

// Categories returns the built-in categories followed by the custom ones.
func (s *Service) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return category.List(s.state.CustomCategories)
}

// Subscribe registers fn to receive every new state. The returned function
// removes the subscription.
func (s *Service) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.subscribers = slices.DeleteFunc(s.subscribers, func(sub subscriber) bool { return sub.id == id })
	}
}

// SetBudget replaces the budget wholesale. The month is taken as given.
func (s *Service) SetBudget(ctx context.Context, budget Budget) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state
	next.Budget = budget

	return s.commit(ctx, next)
}

// SetMonthlyBalance sets the budget amount for the current month.
func (s *Service) SetMonthlyBalance(ctx context.Context, amount decimal.Decimal) (State, error) {
	if err := ValidateAmount(amount); err != nil {
		return s.Snapshot(), err
	}

	return s.SetBudget(ctx, Budget{MonthlyBalance: amount, Month: CurrentMonth(s.now())}), nil
}

// AddExpense assigns a new id to d and appends it.
func (s *Service) AddExpense(ctx context.Context, d Draft) (Expense, error) {
	if err := ValidateAmount(d.Amount); err != nil {
		return Expense{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.newID(func(id string) bool { return s.state.indexOf(id) >= 0 })
	if err != nil {
		return Expense{}, err
	}

	e := fromDraft(id, d)

	next := s.state
	next.Expenses = append(slices.Clip(s.state.Expenses), e)
	s.commit(ctx, next)

	return e, nil
}

// ImportExpenses appends every draft in one transition. Nothing is added if
// any draft has an invalid amount.
func (s *Service) ImportExpenses(ctx context.Context, drafts []Draft) ([]Expense, error) {
	for i, d := range drafts {
		if err := ValidateAmount(d.Amount); err != nil {
			return nil, fmt.Errorf("draft %d: %w", i, err)
		}
	}

	if len(drafts) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	taken := make(map[string]struct{}, len(s.state.Expenses)+len(drafts))
	for _, e := range s.state.Expenses {
		taken[e.ID] = struct{}{}
	}

	added := make([]Expense, 0, len(drafts))

	for _, d := range drafts {
		id, err := s.newID(func(id string) bool {
			_, ok := taken[id]
			return ok
		})
		if err != nil {
			return nil, err
		}

		taken[id] = struct{}{}
		added = append(added, fromDraft(id, d))
	}

	next := s.state
	next.Expenses = append(slices.Clip(s.state.Expenses), added...)
	s.commit(ctx, next)

	return added, nil
}

// EditExpense replaces the expense with the same id, keeping its position.
// An unknown id leaves the state untouched and reports false.
func (s *Service) EditExpense(ctx context.Context, updated Expense) (State, bool, error) {
	if err := ValidateAmount(updated.Amount); err != nil {
		return s.Snapshot(), false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.state.indexOf(updated.ID)
	if idx < 0 {
		return s.state.Clone(), false, nil
	}

	updated.Date = NewDate(updated.Date)
	updated.Category = normalizeCategory(updated.Category)

	next := s.state
	next.Expenses = slices.Clone(s.state.Expenses)
	next.Expenses[idx] = updated

	return s.commit(ctx, next), true, nil
}

// DeleteExpense removes the expense with the given id and returns it so it
// can be restored. An unknown id is a no-op and reports false.
func (s *Service) DeleteExpense(ctx context.Context, id string) (Expense, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.state.indexOf(id)
	if idx < 0 {
		return Expense{}, false
	}

	removed := s.state.Expenses[idx]

	next := s.state
	next.Expenses = slices.Delete(slices.Clone(s.state.Expenses), idx, idx+1)
	s.commit(ctx, next)

	return removed, true
}

// RestoreExpense appends a previously deleted expense. It goes to the end
// of the list, not back to its original position. Restoring an id that is
// already present is a no-op.
func (s *Service) RestoreExpense(ctx context.Context, e Expense) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.indexOf(e.ID) >= 0 {
		return s.state.Clone()
	}

	next := s.state
	next.Expenses = append(slices.Clip(s.state.Expenses), e)

	return s.commit(ctx, next)
}

// AddCategory adds a custom category. It reports false when the name is
// blank, already present or a built-in.
func (s *Service) AddCategory(ctx context.Context, name string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	custom, added := category.Add(s.state.CustomCategories, name)
	if !added {
		return s.state.Clone(), false
	}

	next := s.state
	next.CustomCategories = custom

	return s.commit(ctx, next), true
}

// DeleteCategory removes a custom category and moves every expense tagged
// with it to category.Other, in the same transition. It reports false when
// name is not a custom category.
func (s *Service) DeleteCategory(ctx context.Context, name string) (State, bool) {
	name = category.Normalize(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	custom, removed := category.Remove(s.state.CustomCategories, name)
	if !removed {
		return s.state.Clone(), false
	}

	expenses := slices.Clone(s.state.Expenses)
	for i := range expenses {
		if expenses[i].Category == name {
			expenses[i].Category = category.Other
		}
	}

	next := State{
		Budget:           s.state.Budget,
		Expenses:         expenses,
		CustomCategories: custom,
	}

	return s.commit(ctx, next), true
}

// commit installs next, saves it and notifies subscribers. s.mu must be held.
func (s *Service) commit(ctx context.Context, next State) State {
	s.state = next
	s.save(ctx, next)

	snapshot := next.Clone()
	for _, sub := range s.subscribers {
		sub.fn(snapshot)
	}

	return next.Clone()
}

func (s *Service) save(ctx context.Context, state State) {
	if err := s.repo.Save(ctx, state); err != nil {
		s.logger.Error("failed to save state", "error", err)
	}
}

func (s *Service) newID(inUse func(string) bool) (string, error) {
	for range maxIDAttempts {
		id := s.ids.NewID()
		if id != "" && !inUse(id) {
			return id, nil
		}
	}

	return "", ErrDuplicateID
}

func fromDraft(id string, d Draft) Expense {
	return Expense{
		ID:       id,
		Name:     d.Name,
		Amount:   d.Amount,
		Date:     NewDate(d.Date),
		Category: normalizeCategory(d.Category),
	}
}

func normalizeCategory(name string) string {
	name = category.Normalize(name)
	if name == "" {
		return category.Other
	}

	return name
}
