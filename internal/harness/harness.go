package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/ecsaccess/internal/analysis"
	"github.com/roach88/ecsaccess/internal/compiler"
	"github.com/roach88/ecsaccess/internal/conflict"
	"github.com/roach88/ecsaccess/internal/ir"
	"github.com/roach88/ecsaccess/internal/store"
	"github.com/roach88/ecsaccess/internal/testutil"
)

// Harness is the test execution engine for one scenario.
type Harness struct {
	store  *store.Store
	runIDs *testutil.SequentialRunIDs
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Load and compile the named schedule from scenario.Specs
//  2. Validate it; validation errors fail the run
//  3. Analyse it; a parameter conflict is recorded, not returned
//  4. Write the report to the store and read the conflicts back
//  5. Evaluate assertions
//
// The returned error covers load, compile and validation failures. Failed
// assertions are reported through Result.Errors.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		runIDs: testutil.NewSequentialRunIDs("scenario"),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	s, err := LoadSchedule(scenario.Specs, scenario.Schedule)
	if err != nil {
		return nil, err
	}

	if verrs := compiler.Validate(s); len(verrs) > 0 {
		return nil, fmt.Errorf("schedule %q is invalid: %w", s.Name, verrs[0])
	}

	ctx := context.Background()
	result := NewResult()

	if err := h.analyse(ctx, s, result); err != nil {
		return nil, err
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

// analyse fills result from the schedule's report.
func (h *Harness) analyse(ctx context.Context, s *ir.Schedule, result *Result) error {
	_, report, err := conflict.Check(s, h.logger)
	if err != nil {
		if pce, ok := analysis.AsParamConflict(err); ok {
			result.ParamError = pce
			return nil
		}
		return fmt.Errorf("failed to analyse schedule %q: %w", s.Name, err)
	}
	result.Report = &report

	run, err := h.store.WriteRun(ctx, h.runIDs.Generate(), report)
	if err != nil {
		return fmt.Errorf("failed to write run: %w", err)
	}
	result.RunID = run.ID

	conflicts, err := h.store.ReadConflicts(ctx, run.ID)
	if err != nil {
		return fmt.Errorf("failed to read conflicts: %w", err)
	}
	result.Conflicts = conflicts
	return nil
}

// LoadSchedule compiles schedule `name` from the CUE files in dir.
func LoadSchedule(dir, name string) (*ir.Schedule, error) {
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("no CUE instances loaded from %s", dir)
	}
	if err := instances[0].Err; err != nil {
		return nil, fmt.Errorf("loading CUE files: %w", err)
	}

	value := cuecontext.New().BuildInstance(instances[0])
	if err := value.Err(); err != nil {
		return nil, fmt.Errorf("building CUE value: %w", err)
	}

	v := value.LookupPath(cue.MakePath(cue.Str("schedule"), cue.Str(name)))
	if !v.Exists() {
		return nil, fmt.Errorf("schedule %q not found in %s", name, dir)
	}

	s, err := compiler.CompileSchedule(v)
	if err != nil {
		return nil, fmt.Errorf("schedule %q: %w", name, err)
	}
	return s, nil
}
