package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioDir = "../../testdata/scenarios"

const renameScenario = `name: rename
description: A rename is announced
initial:
  root_id: 1
  tree: {id: main, focused_node_id: 2}
  nodes:
    - {id: 1, role: window, child_ids: [2]}
    - {id: 2, role: button, attributes: {name: OK}}
steps:
  - query: {objid: -4}
  - update:
      nodes:
        - {id: 2, role: button, attributes: {name: Go}}
    expect:
      changes: ["node_updated(2)"]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateCommand_CheckedInScenarios(t *testing.T) {
	out, err := execute(t, "validate", scenarioDir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓")
	assert.NotContains(t, out, "✗")
}

func TestValidateCommand_Invalid(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.yaml", renameScenario)
	writeFile(t, dir, "bad.yaml", "name: Bad Name\ndescription: d\n")

	out, err := execute(t, "validate", dir, "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string         `json:"status"`
		Data   ValidateResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Invalid)
	require.Len(t, resp.Data.Files, 2)
	assert.False(t, resp.Data.Files[0].Valid, "bad.yaml sorts first")
	assert.NotEmpty(t, resp.Data.Files[0].Errors)
	assert.True(t, resp.Data.Files[1].Valid)
}

func TestValidateCommand_MissingPath(t *testing.T) {
	_, err := execute(t, "validate", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunCommand_Text(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rename.yaml", renameScenario)

	out, err := execute(t, "run", path, "--tree")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] step 0 native    return_provider(1, objid=-4)")
	assert.Contains(t, out, "node_updated(2)")
	assert.Contains(t, out, "raise_property_changed(2, name: OK -> Go)")
	assert.Contains(t, out, "digest: ")
	assert.Contains(t, out, "  1 window\n")
	assert.Contains(t, out, `    2 button "Go" (focused)`)
	assert.Contains(t, out, "✓ rename")
}

func TestRunCommand_JSONWithMetrics(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rename.yaml", renameScenario)

	out, err := execute(t, "run", path, "--metrics", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string    `json:"status"`
		Data   RunOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Pass)
	assert.Len(t, resp.Data.Trace, 4)
	assert.Contains(t, resp.Data.Metrics, "axtree_lazy_constructions_total 1")
	assert.Contains(t, resp.Data.Metrics, "axtree_updates_applied_total 2")
}

func TestRunCommand_Failing(t *testing.T) {
	content := renameScenario + "assertions:\n  - {type: root_is, node: 2}\n"
	path := writeFile(t, t.TempDir(), "rename.yaml", content)

	out, err := execute(t, "run", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ rename")
	assert.Contains(t, out, "Assertion failed: root_is")
}

func TestRunCommand_UUIDTreeID(t *testing.T) {
	content := strings.Replace(renameScenario, "  tree: {id: main, focused_node_id: 2}\n", "", 1)
	path := writeFile(t, t.TempDir(), "rename.yaml", content)

	out, err := execute(t, "run", path, "--uuid")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ rename")
}

func TestRunCommand_LoadError(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_CheckedInScenarios(t *testing.T) {
	out, err := execute(t, "test", scenarioDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_Filter(t *testing.T) {
	out, err := execute(t, "test", scenarioDir, "--filter", "focus_*", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, 1, resp.Data.Total)
	assert.Equal(t, "focus_moved", resp.Data.Scenarios[0].Name)
}

func TestTestCommand_Golden(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "rename.yaml", renameScenario)

	out, err := execute(t, "test", dir, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "(golden updated)")
	assert.FileExists(t, filepath.Join(dir, "golden", "rename.golden"))

	_, err = execute(t, "test", dir)
	require.NoError(t, err)

	// Changing the announced name now breaks the golden comparison.
	changed := strings.Replace(renameScenario, "name: Go}", "name: Stop}", 1)
	require.NoError(t, os.WriteFile(path, []byte(changed), 0o644))

	out, err = execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommand_LoadFailureCounts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.yaml", renameScenario)
	writeFile(t, dir, "broken.yaml", "name: broken\n")

	out, err := execute(t, "test", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "failed to load scenario")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}
