package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/ecsaccess/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes the stored conflicts to help debug the failure.
type AssertionError struct {
	Type      string             // Assertion type for categorization
	Expected  string             // Human-readable expected outcome
	Actual    string             // Human-readable actual outcome
	Conflicts []ir.ConflictEntry // Stored conflicts for context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Conflicts) > 0 {
		fmt.Fprintf(&buf, "\nConflicts:\n")
		for i, c := range e.Conflicts {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, describeConflict(c))
		}
	}

	return buf.String()
}

func describeConflict(c ir.ConflictEntry) string {
	order := "unordered"
	if c.Ordered {
		order = "ordered"
	}
	return fmt.Sprintf("%s <-> %s components=%s resources=%s (%s)",
		c.A, c.B, describeNames(c.Components), describeNames(c.Resources), order)
}

func describeNames(n ir.NameSet) string {
	if n.All {
		if len(n.Names) == 0 {
			return "all"
		}
		return "all except " + strings.Join(n.Names, ",")
	}
	return "[" + strings.Join(n.Names, ",") + "]"
}

// findConflict returns the stored conflict between a and b in either order.
func findConflict(conflicts []ir.ConflictEntry, a, b string) (ir.ConflictEntry, bool) {
	for _, c := range conflicts {
		if (c.A == a && c.B == b) || (c.A == b && c.B == a) {
			return c, true
		}
	}
	return ir.ConflictEntry{}, false
}

// assertConflict checks that a and b conflict, and over exactly the listed
// names when any are given.
func assertConflict(result *Result, a Assertion) error {
	fail := func(expected, actual string) error {
		return &AssertionError{Type: AssertConflict, Expected: expected, Actual: actual, Conflicts: result.Conflicts}
	}

	if result.ParamError != nil {
		return fail(fmt.Sprintf("%s and %s conflict", a.A, a.B), "analysis failed: "+result.ParamError.Error())
	}

	c, ok := findConflict(result.Conflicts, a.A, a.B)
	if !ok {
		return fail(fmt.Sprintf("%s and %s conflict", a.A, a.B), "no conflict recorded")
	}

	if len(a.Components) > 0 && !sameNames(c.Components.Names, a.Components) {
		return fail(fmt.Sprintf("components %v", a.Components), fmt.Sprintf("components %s", describeNames(c.Components)))
	}
	if len(a.Resources) > 0 && !sameNames(c.Resources.Names, a.Resources) {
		return fail(fmt.Sprintf("resources %v", a.Resources), fmt.Sprintf("resources %s", describeNames(c.Resources)))
	}
	if a.All != nil && c.Components.All != *a.All {
		return fail(fmt.Sprintf("all=%t", *a.All), fmt.Sprintf("all=%t", c.Components.All))
	}
	if a.Ordered != nil && c.Ordered != *a.Ordered {
		return fail(fmt.Sprintf("ordered=%t", *a.Ordered), fmt.Sprintf("ordered=%t", c.Ordered))
	}
	return nil
}

// assertCompatible checks that a and b have no recorded conflict.
func assertCompatible(result *Result, a Assertion) error {
	if result.ParamError != nil {
		return &AssertionError{
			Type:     AssertCompatible,
			Expected: fmt.Sprintf("%s and %s compatible", a.A, a.B),
			Actual:   "analysis failed: " + result.ParamError.Error(),
		}
	}
	if c, ok := findConflict(result.Conflicts, a.A, a.B); ok {
		return &AssertionError{
			Type:      AssertCompatible,
			Expected:  fmt.Sprintf("%s and %s compatible", a.A, a.B),
			Actual:    describeConflict(c),
			Conflicts: result.Conflicts,
		}
	}
	return nil
}

// assertAmbiguityCount checks the number of unordered conflicts.
func assertAmbiguityCount(result *Result, a Assertion) error {
	if got := result.Ambiguities(); got != a.Count {
		return &AssertionError{
			Type:      AssertAmbiguityCount,
			Expected:  fmt.Sprintf("%d ambiguities", a.Count),
			Actual:    fmt.Sprintf("%d ambiguities", got),
			Conflicts: result.Conflicts,
		}
	}
	return nil
}

// assertParamError checks that analysis stopped on the expected parameter.
func assertParamError(result *Result, a Assertion) error {
	expected := fmt.Sprintf("parameter conflict %s", a.Code)
	if a.System != "" {
		expected += fmt.Sprintf(" in system %q", a.System)
	}
	if a.Param != nil {
		expected += fmt.Sprintf(" param %d", *a.Param)
	}

	pe := result.ParamError
	switch {
	case pe == nil:
		return &AssertionError{Type: AssertParamError, Expected: expected, Actual: "analysis succeeded", Conflicts: result.Conflicts}
	case pe.Code != a.Code,
		a.System != "" && pe.System != a.System,
		a.Param != nil && pe.Param != *a.Param:
		return &AssertionError{Type: AssertParamError, Expected: expected, Actual: pe.Error()}
	}
	return nil
}

// assertWarning checks that some report warning contains the given text.
func assertWarning(result *Result, a Assertion) error {
	var warnings []string
	if result.Report != nil {
		warnings = result.Report.Warnings
	}
	for _, w := range warnings {
		if strings.Contains(w, a.Contains) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertWarning,
		Expected: fmt.Sprintf("a warning containing %q", a.Contains),
		Actual:   fmt.Sprintf("warnings %q", warnings),
	}
}

func sameNames(got, want []string) bool {
	g := slices.Clone(got)
	w := slices.Clone(want)
	slices.Sort(g)
	slices.Sort(w)
	return slices.Equal(g, w)
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertConflict:
			err = assertConflict(result, assertion)
		case AssertCompatible:
			err = assertCompatible(result, assertion)
		case AssertAmbiguityCount:
			err = assertAmbiguityCount(result, assertion)
		case AssertParamError:
			err = assertParamError(result, assertion)
		case AssertWarning:
			err = assertWarning(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
