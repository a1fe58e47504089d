package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes content to dir/test.yaml with an empty specs dir
// next to it.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "specs"), 0755))
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
specs: specs
schedule: Update
assertions:
  - type: conflict
    a: movement
    b: gravity
    components: [Velocity]
    ordered: false
  - type: param_error
    code: B0002
    param: 1
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "specs"), scenario.Specs)
	assert.Equal(t, "Update", scenario.Schedule)
	require.Len(t, scenario.Assertions, 2)

	c := scenario.Assertions[0]
	assert.Equal(t, AssertConflict, c.Type)
	assert.Equal(t, []string{"Velocity"}, c.Components)
	require.NotNil(t, c.Ordered)
	assert.False(t, *c.Ordered)
	assert.Nil(t, c.All)

	p := scenario.Assertions[1]
	require.NotNil(t, p.Param)
	assert.Equal(t, 1, *p.Param)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: "d"
specs: specs
schedule: S
assertions: [{type: ambiguity_count, count: 0}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing description",
			content: `
name: n
specs: specs
schedule: S
assertions: [{type: ambiguity_count, count: 0}]
`,
			wantErr: "description is required",
		},
		{
			name: "missing specs",
			content: `
name: n
description: "d"
schedule: S
assertions: [{type: ambiguity_count, count: 0}]
`,
			wantErr: "specs directory is required",
		},
		{
			name: "missing schedule",
			content: `
name: n
description: "d"
specs: specs
assertions: [{type: ambiguity_count, count: 0}]
`,
			wantErr: "schedule is required",
		},
		{
			name: "missing assertions",
			content: `
name: n
description: "d"
specs: specs
schedule: S
`,
			wantErr: "assertions list is required",
		},
		{
			name: "specs not found",
			content: `
name: n
description: "d"
specs: nowhere
schedule: S
assertions: [{type: ambiguity_count, count: 0}]
`,
			wantErr: "specs directory not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_UnknownField(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, `
name: n
description: "d"
specs: specs
schedule: S
assertion:
  - type: ambiguity_count
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_MalformedYAML(t *testing.T) {
	_, err := LoadScenario(writeScenario(t, "name: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_InvalidAssertions(t *testing.T) {
	tests := []struct {
		name      string
		assertion string
		wantErr   string
	}{
		{"missing type", `{a: x, b: y}`, "type is required"},
		{"unknown type", `{type: trace_contains}`, `unknown assertion type "trace_contains"`},
		{"conflict without b", `{type: conflict, a: x}`, "a and b are required for conflict"},
		{"compatible without a", `{type: compatible, b: y}`, "a and b are required for compatible"},
		{"negative count", `{type: ambiguity_count, count: -1}`, "count must be non-negative"},
		{"param error without code", `{type: param_error, system: s}`, "code is required"},
		{"negative param", `{type: param_error, code: B0001, param: -2}`, "param must be non-negative"},
		{"warning without text", `{type: warning}`, "contains is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, `
name: n
description: "d"
specs: specs
schedule: S
assertions:
  - `+tt.assertion+`
`))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "assertions[0]")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "game"), 0755))

	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: n
description: "d"
specs: game
schedule: S
assertions: [{type: ambiguity_count, count: 0}]
`), 0644))

	scenario, err := LoadScenarioWithBasePath(path, base)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "game"), scenario.Specs)
}

func TestLoadScenario_Testdata(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		t.Run(filepath.Base(f), func(t *testing.T) {
			_, err := LoadScenario(f)
			require.NoError(t, err)
		})
	}
}
