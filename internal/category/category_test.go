package category_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/budgie/internal/category"
)

func TestAdd(t *testing.T) {
	type testCase struct {
		name    string
		custom  []string
		input   string
		want    []string
		wantAdd bool
	}

	tests := []testCase{
		{
			name:    "Appends normalized name",
			custom:  []string{"pets"},
			input:   "  Travel ",
			want:    []string{"pets", "travel"},
			wantAdd: true,
		},
		{
			name:    "Duplicate is a no-op",
			custom:  []string{"pets"},
			input:   "PETS",
			want:    []string{"pets"},
			wantAdd: false,
		},
		{
			name:    "Blank is a no-op",
			custom:  nil,
			input:   "   ",
			want:    nil,
			wantAdd: false,
		},
		{
			name:    "Built-in name is refused",
			custom:  []string{},
			input:   "Food",
			want:    []string{},
			wantAdd: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, added := category.Add(tt.custom, tt.input)

			assert.Equal(t, tt.wantAdd, added)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAdd_DoesNotAliasInput(t *testing.T) {
	custom := make([]string, 1, 4)
	custom[0] = "pets"

	got, added := category.Add(custom, "gifts")

	assert.True(t, added)
	assert.Equal(t, []string{"pets", "gifts"}, got)
	assert.Equal(t, []string{"pets", ""}, custom[:2])
}

func TestRemove(t *testing.T) {
	got, removed := category.Remove([]string{"pets", "gifts", "travel"}, "gifts")
	assert.True(t, removed)
	assert.Equal(t, []string{"pets", "travel"}, got)

	got, removed = category.Remove([]string{"pets"}, "food")
	assert.False(t, removed)
	assert.Equal(t, []string{"pets"}, got)
}

func TestList(t *testing.T) {
	got := category.List([]string{"pets", "gifts"})

	assert.Equal(t, []string{
		"food", "transport", "entertainment", "utilities", "shopping", "health", "other",
		"pets", "gifts",
	}, got)
}

func TestBuiltins_ReturnsCopy(t *testing.T) {
	b := category.Builtins()
	b[0] = "changed"

	assert.Equal(t, "food", category.Builtins()[0])
	assert.True(t, category.IsBuiltin(" OTHER "))
	assert.False(t, category.IsBuiltin("pets"))
}
