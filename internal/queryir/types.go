package queryir

import (
	"fmt"
	"strings"
)

// Filter is a typed row filter.
//
// This is a sealed interface - only types in this package implement it.
type Filter interface {
	filterNode()
	String() string
}

// With requires the row to have Component.
type With struct {
	Component string
}

func (With) filterNode() {}

func (f With) String() string { return "With(" + f.Component + ")" }

// Without requires the row to lack Component.
type Without struct {
	Component string
}

func (Without) filterNode() {}

func (f Without) String() string { return "Without(" + f.Component + ")" }

// Changed requires Component to be present and changed since the system
// last ran. Checking it reads the component's change ticks.
type Changed struct {
	Component string
}

func (Changed) filterNode() {}

func (f Changed) String() string { return "Changed(" + f.Component + ")" }

// Added requires Component to be present and newly added since the system
// last ran. Checking it reads the component's change ticks.
type Added struct {
	Component string
}

func (Added) filterNode() {}

func (f Added) String() string { return "Added(" + f.Component + ")" }

// All holds when every child holds. An empty All always holds.
type All struct {
	Filters []Filter
}

func (All) filterNode() {}

func (f All) String() string { return "All(" + joinFilters(f.Filters) + ")" }

// Any holds when some child holds. An empty Any never holds.
type Any struct {
	Filters []Filter
}

func (Any) filterNode() {}

func (f Any) String() string { return "Any(" + joinFilters(f.Filters) + ")" }

func joinFilters(fs []Filter) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = f.String()
	}
	return strings.Join(parts, ", ")
}

// Component returns the component a leaf filter names, or "" for All and
// Any.
func Component(f Filter) string {
	switch f := f.(type) {
	case With:
		return f.Component
	case Without:
		return f.Component
	case Changed:
		return f.Component
	case Added:
		return f.Component
	default:
		return ""
	}
}

// Components returns every component named anywhere in f, in first-seen
// order without duplicates.
func Components(f Filter) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(Filter)
	walk = func(f Filter) {
		switch f := f.(type) {
		case All:
			for _, c := range f.Filters {
				walk(c)
			}
		case Any:
			for _, c := range f.Filters {
				walk(c)
			}
		case nil:
		default:
			name := Component(f)
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	walk(f)
	return out
}

// LowerError reports a filter node that cannot be lowered.
type LowerError struct {
	Path    string
	Message string
}

func (e *LowerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}
