package harness

import (
	"github.com/roach88/ecsaccess/internal/analysis"
	"github.com/roach88/ecsaccess/internal/ir"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every assertion held.
	Pass bool `json:"pass"`

	// RunID is the store ID the report was written under. Empty when
	// analysis failed.
	RunID string `json:"run_id,omitempty"`

	// Report is the analysed schedule. Nil when analysis failed.
	Report *ir.Report `json:"report,omitempty"`

	// Conflicts are the conflicts as read back from the store.
	Conflicts []ir.ConflictEntry `json:"conflicts"`

	// ParamError is set when a system parameter conflicted.
	ParamError *analysis.ParamConflictError `json:"param_error,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Conflicts: []ir.ConflictEntry{},
		Errors:    []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Ambiguities counts the stored conflicts with no fixed order.
func (r *Result) Ambiguities() int {
	n := 0
	for _, c := range r.Conflicts {
		if !c.Ordered {
			n++
		}
	}
	return n
}
