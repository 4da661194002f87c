package tracker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/budgie/internal/tracker"
)

func TestFilterExpenses(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC) }

	expenses := []tracker.Expense{
		{ID: "1", Category: "food", Date: day(1)},
		{ID: "2", Category: "transport", Date: day(5)},
		{ID: "3", Category: "food", Date: day(10)},
		{ID: "4", Category: "food", Date: day(20)},
	}

	start, end := day(5), time.Date(2024, 6, 10, 18, 0, 0, 0, time.UTC)

	type testCase struct {
		name   string
		filter tracker.Filter
		want   []string
	}

	tests := []testCase{
		{name: "Zero", filter: tracker.Filter{}, want: []string{"1", "2", "3", "4"}},
		{name: "All", filter: tracker.Filter{Category: tracker.AllCategories}, want: []string{"1", "2", "3", "4"}},
		{name: "Category", filter: tracker.Filter{Category: "food"}, want: []string{"1", "3", "4"}},
		{name: "InclusiveRange", filter: tracker.Filter{StartDate: &start, EndDate: &end}, want: []string{"2", "3"}},
		{name: "CategoryAndStart", filter: tracker.Filter{Category: "food", StartDate: &start}, want: []string{"3", "4"}},
		{name: "NoMatch", filter: tracker.Filter{Category: "health"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tracker.FilterExpenses(expenses, tt.filter)))
		})
	}
}
