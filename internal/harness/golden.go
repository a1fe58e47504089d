package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ecsaccess/internal/ir"
)

// Snapshot renders a result for golden comparison.
//
// The schedule hash is left out so that golden files survive cosmetic edits
// to the CUE source that do not change the analysis. A failed analysis
// snapshots the parameter error instead of the report.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	obj := ir.Object{"scenario": ir.String(scenarioName)}

	switch {
	case result.ParamError != nil:
		pe := result.ParamError
		obj["param_error"] = ir.Object{
			"code":       ir.String(pe.Code),
			"system":     ir.String(pe.System),
			"param":      ir.Int(pe.Param),
			"all":        ir.Bool(pe.All),
			"components": ir.Strings(pe.Components),
			"resources":  ir.Strings(pe.Resources),
		}
	case result.Report != nil:
		report := result.Report.Value()
		delete(report, "schedule_hash")
		obj["report"] = report
	default:
		return nil, fmt.Errorf("scenario %q produced neither a report nor an error", scenarioName)
	}

	return ir.MarshalCanonical(obj)
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
