// Package category holds the built-in expense categories and the rules for
// user-defined ones.
package category

import (
	"slices"
	"strings"
)

// Other is the fallback category for expenses whose category was deleted.
const Other = "other"

var builtins = []string{
	"food",
	"transport",
	"entertainment",
	"utilities",
	"shopping",
	"health",
	Other,
}

// Builtins returns the fixed built-in categories in display order.
func Builtins() []string {
	return slices.Clone(builtins)
}

// IsBuiltin reports whether name, once normalized, is a built-in category.
func IsBuiltin(name string) bool {
	return slices.Contains(builtins, Normalize(name))
}

// Normalize trims surrounding whitespace and lowercases name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add returns custom with name appended. The input slice is never modified.
// It reports false, returning custom unchanged, when the normalized name is
// empty, already present or a built-in.
func Add(custom []string, name string) ([]string, bool) {
	name = Normalize(name)
	if name == "" || IsBuiltin(name) || slices.Contains(custom, name) {
		return custom, false
	}

	out := make([]string, 0, len(custom)+1)
	out = append(out, custom...)

	return append(out, name), true
}

// Remove returns custom without name. The input slice is never modified.
// It reports false when name is not a custom category.
func Remove(custom []string, name string) ([]string, bool) {
	idx := slices.Index(custom, name)
	if idx < 0 {
		return custom, false
	}

	out := make([]string, 0, len(custom)-1)
	out = append(out, custom[:idx]...)

	return append(out, custom[idx+1:]...), true
}

// List returns the built-ins followed by the custom categories in insertion
// order. This is the list selection controls are built from.
func List(custom []string) []string {
	out := make([]string, 0, len(builtins)+len(custom))
	out = append(out, builtins...)

	return append(out, custom...)
}
