package tracker_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

var june2024 = time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return june2024 }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sequentialIDs issues "id-1", "id-2", ...
func sequentialIDs() tracker.IDProvider {
	n := 0

	return tracker.IDProviderFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func newService(t *testing.T, saved *tracker.State) (*tracker.Service, *tracker.MockRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := tracker.NewMockRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(saved, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := tracker.NewService(context.Background(), repo,
		tracker.WithClock(clock),
		tracker.WithIDProvider(sequentialIDs()),
		tracker.WithLogger(quietLogger()),
	)

	return svc, repo
}

func draft(name, amount, cat string) tracker.Draft {
	return tracker.Draft{
		Name:     name,
		Amount:   decimal.RequireFromString(amount),
		Date:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Category: cat,
	}
}

func ids(expenses []tracker.Expense) []string {
	out := make([]string, len(expenses))
	for i, e := range expenses {
		out[i] = e.ID
	}

	return out
}

func TestNewService_Load(t *testing.T) {
	type testCase struct {
		name       string
		saved      *tracker.State
		loadErr    error
		wantBudget string
		wantMonth  string
		wantIDs    []string
		wantCustom []string
	}

	tests := []testCase{
		{
			name:       "NothingSaved",
			saved:      nil,
			wantBudget: "0",
			wantMonth:  "2024-06",
			wantIDs:    []string{},
			wantCustom: []string{},
		},
		{
			name: "SameMonthKeptVerbatim",
			saved: &tracker.State{
				Budget:           tracker.Budget{MonthlyBalance: decimal.NewFromInt(1000), Month: "2024-06"},
				Expenses:         []tracker.Expense{{ID: "a", Amount: decimal.NewFromInt(5)}},
				CustomCategories: []string{"pets"},
			},
			wantBudget: "1000",
			wantMonth:  "2024-06",
			wantIDs:    []string{"a"},
			wantCustom: []string{"pets"},
		},
		{
			name: "StaleMonthResetsBudgetOnly",
			saved: &tracker.State{
				Budget: tracker.Budget{MonthlyBalance: decimal.NewFromInt(1000), Month: "2023-01"},
				Expenses: []tracker.Expense{
					{ID: "a", Amount: decimal.NewFromInt(5)},
					{ID: "b", Amount: decimal.NewFromInt(7)},
				},
				CustomCategories: []string{"pets", "gifts"},
			},
			wantBudget: "0",
			wantMonth:  "2024-06",
			wantIDs:    []string{"a", "b"},
			wantCustom: []string{"pets", "gifts"},
		},
		{
			name: "MissingCustomCategoriesIsEmpty",
			saved: &tracker.State{
				Budget: tracker.Budget{MonthlyBalance: decimal.NewFromInt(10), Month: "2024-06"},
			},
			wantBudget: "10",
			wantMonth:  "2024-06",
			wantIDs:    []string{},
			wantCustom: []string{},
		},
		{
			name: "DuplicateIDsDropped",
			saved: &tracker.State{
				Budget: tracker.Budget{Month: "2024-06"},
				Expenses: []tracker.Expense{
					{ID: "a", Name: "first"},
					{ID: "a", Name: "second"},
				},
			},
			wantBudget: "0",
			wantMonth:  "2024-06",
			wantIDs:    []string{"a"},
			wantCustom: []string{},
		},
		{
			name:       "ReadFailureFallsBackToEmpty",
			loadErr:    fmt.Errorf("decoding state: %w", tracker.ErrPersistenceRead),
			wantBudget: "0",
			wantMonth:  "2024-06",
			wantIDs:    []string{},
			wantCustom: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := tracker.NewMockRepository(ctrl)
			repo.EXPECT().Load(gomock.Any()).Return(tt.saved, tt.loadErr)
			repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1)

			svc := tracker.NewService(context.Background(), repo,
				tracker.WithClock(clock),
				tracker.WithLogger(quietLogger()),
			)

			got := svc.Snapshot()
			assert.Equal(t, tt.wantBudget, got.Budget.MonthlyBalance.String())
			assert.Equal(t, tt.wantMonth, got.Budget.Month)
			assert.Equal(t, tt.wantIDs, ids(got.Expenses))
			assert.Equal(t, tt.wantCustom, got.CustomCategories)
		})
	}
}

func TestService_AddExpense(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	for i := range 5 {
		e, err := svc.AddExpense(ctx, draft(fmt.Sprintf("item %d", i), "10.50", "food"))
		require.NoError(t, err)
		assert.NotEmpty(t, e.ID)
	}

	got := svc.Snapshot().Expenses
	require.Len(t, got, 5)
	assert.Equal(t, []string{"id-1", "id-2", "id-3", "id-4", "id-5"}, ids(got))
	assert.Equal(t, "item 0", got[0].Name)
}

func TestService_AddExpense_NormalizesDraft(t *testing.T) {
	svc, _ := newService(t, nil)

	d := draft("Taxi", "12", "  Transport ")
	d.Date = time.Date(2024, 6, 3, 18, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

	e, err := svc.AddExpense(context.Background(), d)
	require.NoError(t, err)

	assert.Equal(t, "transport", e.Category)
	assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), e.Date)

	e, err = svc.AddExpense(context.Background(), draft("Misc", "1", ""))
	require.NoError(t, err)
	assert.Equal(t, "other", e.Category)
}

func TestService_AddExpense_InvalidAmount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := tracker.NewMockRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(nil, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1) // open only

	svc := tracker.NewService(context.Background(), repo, tracker.WithClock(clock), tracker.WithLogger(quietLogger()))

	_, err := svc.AddExpense(context.Background(), draft("Refund", "-3", "food"))
	require.ErrorIs(t, err, tracker.ErrInvalidAmount)
	assert.Empty(t, svc.Snapshot().Expenses)
}

func TestService_AddExpense_DuplicateIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := tracker.NewMockRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(nil, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := tracker.NewService(context.Background(), repo,
		tracker.WithClock(clock),
		tracker.WithLogger(quietLogger()),
		tracker.WithIDProvider(tracker.IDProviderFunc(func() string { return "same" })),
	)

	_, err := svc.AddExpense(context.Background(), draft("a", "1", "food"))
	require.NoError(t, err)

	_, err = svc.AddExpense(context.Background(), draft("b", "1", "food"))
	require.ErrorIs(t, err, tracker.ErrDuplicateID)
	assert.Len(t, svc.Snapshot().Expenses, 1)
}

func TestService_EditExpense(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	first, _ := svc.AddExpense(ctx, draft("Lunch", "10", "food"))
	second, _ := svc.AddExpense(ctx, draft("Bus", "2", "transport"))

	updated := first
	updated.Name = "Dinner"
	updated.Amount = decimal.NewFromInt(25)

	state, found, err := svc.EditExpense(ctx, updated)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{first.ID, second.ID}, ids(state.Expenses))
	assert.Equal(t, "Dinner", state.Expenses[0].Name)
	assert.Equal(t, "25", state.Expenses[0].Amount.String())
}

func TestService_EditExpense_MissingIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := tracker.NewMockRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(&tracker.State{
		Budget:   tracker.Budget{Month: "2024-06"},
		Expenses: []tracker.Expense{{ID: "a", Name: "Lunch", Amount: decimal.NewFromInt(1)}},
	}, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).Times(1) // open only

	svc := tracker.NewService(context.Background(), repo, tracker.WithClock(clock), tracker.WithLogger(quietLogger()))

	state, found, err := svc.EditExpense(context.Background(), tracker.Expense{ID: "nope", Name: "x"})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, []string{"a"}, ids(state.Expenses))
	assert.Equal(t, "Lunch", state.Expenses[0].Name)

	_, found, err = svc.EditExpense(context.Background(), tracker.Expense{ID: "a", Amount: decimal.NewFromInt(-1)})
	require.ErrorIs(t, err, tracker.ErrInvalidAmount)
	assert.False(t, found)
}

func TestService_DeleteAndRestore(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	a, _ := svc.AddExpense(ctx, draft("a", "1", "food"))
	b, _ := svc.AddExpense(ctx, draft("b", "2", "food"))
	c, _ := svc.AddExpense(ctx, draft("c", "3", "food"))

	removed, found := svc.DeleteExpense(ctx, a.ID)
	require.True(t, found)
	assert.Equal(t, a, removed)
	assert.Equal(t, []string{b.ID, c.ID}, ids(svc.Snapshot().Expenses))

	state := svc.RestoreExpense(ctx, removed)

	// Same set, restored entry moves to the end.
	assert.ElementsMatch(t, []string{a.ID, b.ID, c.ID}, ids(state.Expenses))
	assert.Equal(t, []string{b.ID, c.ID, a.ID}, ids(state.Expenses))

	// Restoring an id that is present keeps ids unique.
	state = svc.RestoreExpense(ctx, removed)
	assert.Len(t, state.Expenses, 3)
}

func TestService_DeleteExpense_MissingIsNoop(t *testing.T) {
	svc, _ := newService(t, nil)

	removed, found := svc.DeleteExpense(context.Background(), "missing")
	assert.False(t, found)
	assert.Equal(t, tracker.Expense{}, removed)
}

func TestService_SetBudget(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	state := svc.SetBudget(ctx, tracker.Budget{MonthlyBalance: decimal.NewFromInt(500), Month: "1999-12"})
	assert.Equal(t, "1999-12", state.Budget.Month)

	state, err := svc.SetMonthlyBalance(ctx, decimal.NewFromInt(1200))
	require.NoError(t, err)
	assert.Equal(t, "2024-06", state.Budget.Month)
	assert.Equal(t, "1200", state.Budget.MonthlyBalance.String())

	_, err = svc.SetMonthlyBalance(ctx, decimal.NewFromInt(-1))
	require.ErrorIs(t, err, tracker.ErrInvalidAmount)
	assert.Equal(t, "1200", svc.Snapshot().Budget.MonthlyBalance.String())
}

func TestService_Categories(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	_, added := svc.AddCategory(ctx, " Pets ")
	assert.True(t, added)

	_, added = svc.AddCategory(ctx, "pets")
	assert.False(t, added)

	_, added = svc.AddCategory(ctx, "food")
	assert.False(t, added)

	assert.Equal(t, "pets", svc.Categories()[len(svc.Categories())-1])
	assert.Equal(t, []string{"pets"}, svc.Snapshot().CustomCategories)
}

func TestService_DeleteCategory_Reassigns(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	svc.AddCategory(ctx, "pets")
	vet, _ := svc.AddExpense(ctx, draft("Vet", "80", "pets"))
	food, _ := svc.AddExpense(ctx, draft("Kibble", "20", "food"))

	var seen []tracker.State

	unsubscribe := svc.Subscribe(func(s tracker.State) { seen = append(seen, s) })
	defer unsubscribe()

	state, removed := svc.DeleteCategory(ctx, "pets")
	require.True(t, removed)

	assert.Empty(t, state.CustomCategories)

	got, _ := state.Find(vet.ID)
	assert.Equal(t, "other", got.Category)

	got, _ = state.Find(food.ID)
	assert.Equal(t, "food", got.Category)

	// One transition: the only notification already has both changes.
	require.Len(t, seen, 1)
	assert.Empty(t, seen[0].CustomCategories)
	assert.Equal(t, "other", seen[0].Expenses[0].Category)

	_, removed = svc.DeleteCategory(ctx, "food")
	assert.False(t, removed)
	assert.Len(t, seen, 1)
}

func TestService_SaveFailureIsNotFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := tracker.NewMockRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(nil, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("writing state: %w", tracker.ErrPersistenceWrite)).
		AnyTimes()

	svc := tracker.NewService(context.Background(), repo, tracker.WithClock(clock), tracker.WithLogger(quietLogger()))

	e, err := svc.AddExpense(context.Background(), draft("Coffee", "3.5", "food"))
	require.NoError(t, err)

	_, found := svc.Snapshot().Find(e.ID)
	assert.True(t, found)
}

func TestService_SavesEveryChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := tracker.NewMockRepository(ctrl)
	repo.EXPECT().Load(gomock.Any()).Return(nil, nil)

	var saved []tracker.State

	repo.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s tracker.State) error {
			saved = append(saved, s)
			return nil
		}).
		Times(3)

	svc := tracker.NewService(context.Background(), repo,
		tracker.WithClock(clock),
		tracker.WithLogger(quietLogger()),
		tracker.WithIDProvider(sequentialIDs()),
	)

	_, err := svc.AddExpense(context.Background(), draft("Coffee", "3.5", "food"))
	require.NoError(t, err)

	svc.AddCategory(context.Background(), "pets")

	require.Len(t, saved, 3)
	assert.Empty(t, saved[0].Expenses)
	assert.Len(t, saved[1].Expenses, 1)
	assert.Equal(t, []string{"pets"}, saved[2].CustomCategories)
}

func TestService_SnapshotsAreImmutable(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	a, _ := svc.AddExpense(ctx, draft("a", "1", "food"))
	before := svc.Snapshot()

	svc.AddCategory(ctx, "pets")
	svc.AddExpense(ctx, draft("b", "2", "pets"))
	svc.DeleteCategory(ctx, "pets")

	edited := a
	edited.Name = "changed"
	svc.EditExpense(ctx, edited)

	assert.Equal(t, []string{a.ID}, ids(before.Expenses))
	assert.Equal(t, "a", before.Expenses[0].Name)
	assert.Empty(t, before.CustomCategories)

	// Changing a snapshot does not leak into the service.
	before.Expenses[0].Name = "mutated"
	assert.Equal(t, "changed", svc.Snapshot().Expenses[0].Name)
}

func TestService_Subscribe(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	var calls int

	unsubscribe := svc.Subscribe(func(tracker.State) { calls++ })

	svc.AddCategory(ctx, "pets")
	svc.AddCategory(ctx, "pets") // no-op, no notification
	assert.Equal(t, 1, calls)

	unsubscribe()
	svc.AddCategory(ctx, "gifts")
	assert.Equal(t, 1, calls)
}

func TestService_ImportExpenses(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	_, err := svc.AddExpense(ctx, draft("existing", "1", "food"))
	require.NoError(t, err)

	var notified int

	svc.Subscribe(func(tracker.State) { notified++ })

	added, err := svc.ImportExpenses(ctx, []tracker.Draft{
		draft("a", "1", "food"),
		draft("b", "2", "health"),
	})
	require.NoError(t, err)
	assert.Len(t, added, 2)
	assert.Equal(t, 1, notified)
	assert.Len(t, svc.Snapshot().Expenses, 3)

	_, err = svc.ImportExpenses(ctx, []tracker.Draft{
		draft("ok", "1", "food"),
		draft("bad", "-1", "food"),
	})
	require.True(t, errors.Is(err, tracker.ErrInvalidAmount))
	assert.Len(t, svc.Snapshot().Expenses, 3)
	assert.Equal(t, 1, notified)
}
