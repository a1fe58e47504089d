package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ecsaccess/internal/analysis"
	"github.com/roach88/ecsaccess/internal/ir"
)

func TestRunWithGolden_Scenarios(t *testing.T) {
	for _, name := range []string{"game-update", "query-conflict"} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
			require.NoError(t, err)

			result, err := RunWithGolden(t, scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestSnapshot_OmitsScheduleHash(t *testing.T) {
	result := NewResult()
	result.Report = &ir.Report{
		Schedule:     "S",
		ScheduleHash: "deadbeef",
		Systems:      []ir.SystemReport{},
		Conflicts:    []ir.ConflictEntry{},
	}

	data, err := Snapshot("s", result)
	require.NoError(t, err)
	assert.Equal(t, `{"report":{"conflicts":[],"schedule":"S","systems":[]},"scenario":"s"}`, string(data))
	assert.Equal(t, "deadbeef", result.Report.ScheduleHash, "snapshot must not modify the report")
}

func TestSnapshot_ParamError(t *testing.T) {
	result := NewResult()
	result.ParamError = &analysis.ParamConflictError{
		Code:   analysis.CodeSystemConflict,
		System: "sys",
		Param:  2,
		All:    true,
	}

	data, err := Snapshot("p", result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"param_error":{"all":true,"code":"B0002","components":[],"param":2,"resources":[],"system":"sys"},"scenario":"p"}`,
		string(data))
}

func TestSnapshot_Empty(t *testing.T) {
	_, err := Snapshot("nothing", NewResult())
	require.Error(t, err)
}
