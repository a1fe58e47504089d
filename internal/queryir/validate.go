package queryir

import (
	"fmt"
	"strings"
)

// ValidationResult contains lint findings for a filter.
//
// Findings never make a filter invalid. A filter that matches no row is
// legal and sometimes intended; the warnings only point it out.
type ValidationResult struct {
	// Satisfiable is false when no row can match the filter.
	Satisfiable bool

	// Warnings lists suspicious constructs in the filter.
	Warnings []string
}

// Validate lints f.
//
// Checks:
//  1. Any with no branches (matches no row)
//  2. Duplicate terms inside one All or Any
//  3. Clauses that require and exclude the same component
//  4. Filters whose every clause is contradictory
//
// Validate is a pure function with no side effects.
func Validate(f Filter) ValidationResult {
	v := &validator{warnings: []string{}}
	v.walk(f)

	clauses := Clauses(f)
	live := 0
	for _, c := range clauses {
		if bad := c.Contradictions(); len(bad) > 0 {
			v.addWarning("clause %s requires and excludes %s", c, strings.Join(bad, ", "))
			continue
		}
		live++
	}
	if live == 0 {
		v.addWarning("filter %s matches no row", describe(f))
	}

	return ValidationResult{
		Satisfiable: live > 0,
		Warnings:    v.warnings,
	}
}

type validator struct {
	warnings []string
}

func (v *validator) addWarning(format string, args ...any) {
	v.warnings = append(v.warnings, fmt.Sprintf(format, args...))
}

func (v *validator) walk(f Filter) {
	switch f := f.(type) {
	case All:
		v.checkDuplicates(f.Filters, "All")
		for _, c := range f.Filters {
			v.walk(c)
		}
	case Any:
		if len(f.Filters) == 0 {
			v.addWarning("Any() has no branches")
		}
		v.checkDuplicates(f.Filters, "Any")
		for _, c := range f.Filters {
			v.walk(c)
		}
	}
}

func (v *validator) checkDuplicates(fs []Filter, op string) {
	seen := map[string]bool{}
	for _, f := range fs {
		key := f.String()
		if seen[key] {
			v.addWarning("%s repeats %s", op, key)
		}
		seen[key] = true
	}
}

func describe(f Filter) string {
	if f == nil {
		return "<none>"
	}
	return f.String()
}
