package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `
name: update-conflicts
description: "Movement and gravity race on Velocity"
specs: ../schedules
schedule: Update
assertions:
  - type: conflict
    a: movement
    b: gravity
    components: [Velocity]
    ordered: false
  - type: compatible
    a: gravity
    b: render
  - type: ambiguity_count
    count: 3
`

const failingScenario = `
name: heal-ambiguous
specs: ../schedules
schedule: Heal
assertions:
  - type: conflict
    a: heal_players
    b: heal_enemies
`

// writeScenarios lays out <root>/schedules with gameSchedules and
// <root>/scenarios with the given files. Returns the scenarios directory.
func writeScenarios(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()

	schedules := filepath.Join(root, "schedules")
	require.NoError(t, os.MkdirAll(schedules, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(schedules, "schedules.cue"), []byte(gameSchedules), 0644))

	scenarios := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(scenarios, 0755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(scenarios, name), []byte(content), 0644))
	}
	return scenarios
}

func TestTestPassingScenario(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"update.yaml": passingScenario})

	out, err := execute(t, "test", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ update-conflicts")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestFailingScenario(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"update.yaml": passingScenario,
		"heal.yaml":   failingScenario,
	})

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "1 scenario(s) failed")
	assert.Contains(t, out, "✗ heal-ambiguous")
	assert.Contains(t, out, "no conflict recorded")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestJSON(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"update.yaml": passingScenario,
		"heal.yaml":   failingScenario,
	})

	out, err := execute(t, "--format", "json", "test", dir)
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "E_TEST_FAILED", resp.Error.Code)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Failed)

	// Scenario files are visited in directory order.
	require.Len(t, resp.Data.Scenarios, 2)
	assert.Equal(t, "heal-ambiguous", resp.Data.Scenarios[0].Name)
	assert.False(t, resp.Data.Scenarios[0].Pass)
	assert.NotEmpty(t, resp.Data.Scenarios[0].Errors)
	assert.True(t, resp.Data.Scenarios[1].Pass)
}

func TestTestFilter(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"update.yaml": passingScenario,
		"heal.yaml":   failingScenario,
	})

	out, err := execute(t, "test", dir, "--filter", "up*")
	require.NoError(t, err)
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.NotContains(t, out, "heal-ambiguous")

	out, err = execute(t, "test", dir, "--filter", "nothing-*")
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestSchedulesBase(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"update.yaml": "name: based\nspecs: schedules\nschedule: Update\nassertions:\n  - type: ambiguity_count\n    count: 3\n",
	})

	out, err := execute(t, "test", dir, "--schedules", filepath.Dir(dir))
	require.NoError(t, err)
	assert.Contains(t, out, "✓ based")
}

func TestTestGoldenUpdateAndCompare(t *testing.T) {
	dir := writeScenarios(t, map[string]string{"update.yaml": passingScenario})
	golden := filepath.Join(dir, "golden", "update.golden")

	out, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ update-conflicts (golden updated)")

	data, err := os.ReadFile(golden)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"scenario":"update-conflicts"`)
	assert.NotContains(t, string(data), "schedule_hash")

	_, err = execute(t, "test", dir)
	require.NoError(t, err, "fresh golden file matches")

	require.NoError(t, os.WriteFile(golden, []byte(`{"scenario":"stale"}`), 0644))
	out, err = execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "report does not match golden file")
}

func TestTestBadScenario(t *testing.T) {
	dir := writeScenarios(t, map[string]string{
		"broken.yaml": "name: broken\nspecs: ../schedules\nschedule: Update\nassertions: []\n",
	})

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load scenario")
}

func TestTestMissingDirectory(t *testing.T) {
	_, err := execute(t, "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t,
		filepath.Join("scenarios", "golden", "update.golden"),
		goldenFilePath("scenarios", filepath.Join("scenarios", "update.yaml")))
}
