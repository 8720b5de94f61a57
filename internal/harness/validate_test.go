package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateScenarioYAML_Valid(t *testing.T) {
	errs, err := ValidateScenarioYAML("minimal.yaml", []byte(minimalScenario))
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestValidateScenarioYAML_Violations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		path    string
	}{
		{
			name:    "bad name",
			content: "name: Bad-Name\ndescription: d\ninitial: {root_id: 1}\nsteps: [{query: {objid: -4}}]\n",
			path:    "name",
		},
		{
			name:    "zero node id",
			content: "name: n\ndescription: d\ninitial: {root_id: 1, nodes: [{id: 0, role: window}]}\nsteps: [{query: {objid: -4}}]\n",
			path:    "initial.nodes.0.id",
		},
		{
			name:    "unknown field",
			content: "name: n\ndescription: d\ninitial: {root_id: 1}\nsteps: [{query: {objid: -4}}]\nextra: true\n",
			path:    "extra",
		},
		{
			name:    "unknown assertion type",
			content: "name: n\ndescription: d\ninitial: {root_id: 1}\nsteps: [{query: {objid: -4}}]\nassertions: [{type: bogus}]\n",
			path:    "assertions.0.type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, err := ValidateScenarioYAML("scenario.yaml", []byte(tt.content))
			require.NoError(t, err)
			require.NotEmpty(t, errs)

			var paths []string
			for _, e := range errs {
				paths = append(paths, e.Path)
			}
			assert.Contains(t, paths, tt.path)
		})
	}
}

func TestValidateScenarioYAML_MissingRequired(t *testing.T) {
	errs, err := ValidateScenarioYAML("scenario.yaml", []byte("name: n\ndescription: d\n"))
	require.NoError(t, err)
	require.NotEmpty(t, errs)

	var paths []string
	for _, e := range errs {
		paths = append(paths, e.Path)
	}
	assert.Contains(t, paths, "initial")
	assert.Contains(t, paths, "steps")
}

func TestValidateScenarioYAML_NoDuplicates(t *testing.T) {
	content := "name: n\ndescription: d\ninitial: {root_id: 1}\nsteps: [{query: {objid: -4}}]\nassertions: [{type: bogus}]\n"
	errs, err := ValidateScenarioYAML("scenario.yaml", []byte(content))
	require.NoError(t, err)
	require.NotEmpty(t, errs)

	seen := make(map[SchemaError]bool)
	for _, e := range errs {
		assert.False(t, seen[e], "duplicate error %+v", e)
		assert.NotContains(t, e.Path, "#Scenario")
		seen[e] = true
	}
}

func TestValidateScenarioYAML_Malformed(t *testing.T) {
	_, err := ValidateScenarioYAML("scenario.yaml", []byte("name: [unclosed\n"))
	require.Error(t, err)
}

func TestValidateScenarioFile_Missing(t *testing.T) {
	_, err := ValidateScenarioFile("does-not-exist.yaml")
	require.Error(t, err)
}

func TestSchemaError_Error(t *testing.T) {
	assert.Equal(t, "line 3: bad", SchemaError{Message: "bad", Line: 3}.Error())
	assert.Equal(t, "bad", SchemaError{Message: "bad"}.Error())
}
