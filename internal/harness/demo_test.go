package harness

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioDir holds the checked-in scenarios, relative to this package.
const scenarioDir = "../../testdata/scenarios"

// TestScenarios runs every checked-in scenario end to end.
func TestScenarios(t *testing.T) {
	files, err := FindScenarios(scenarioDir)
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, path := range files {
		name := filepath.Base(path)
		t.Run(name, func(t *testing.T) {
			errs, err := ValidateScenarioFile(path)
			require.NoError(t, err)
			assert.Empty(t, errs, "schema errors")

			s, err := LoadScenario(path)
			require.NoError(t, err)
			assert.Equal(t, name, s.Name+".yaml", "file name should match scenario name")

			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)

			again, err := Run(s)
			require.NoError(t, err)
			assert.Equal(t, result.Trace, again.Trace, "trace must be deterministic")
		})
	}
}

func TestScenarios_RunAll(t *testing.T) {
	scenarios, err := LoadScenarios(scenarioDir)
	require.NoError(t, err)

	results, err := RunAll(context.Background(), scenarios, 4)
	require.NoError(t, err)
	require.Len(t, results, len(scenarios))
	for i, r := range results {
		assert.True(t, r.Pass, "%s: %v", scenarios[i].Name, r.Errors)
	}
}
