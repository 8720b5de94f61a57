package harness

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
)

//go:embed scenario.cue
var scenarioSchema string

// SchemaError is one schema violation in a scenario file.
type SchemaError struct {
	Path    string `json:"path,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

func (e SchemaError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// ValidateScenarioFile checks a scenario file against the embedded CUE schema.
// Schema violations are returned as a list; the error is for files that
// cannot be read or parsed.
func ValidateScenarioFile(path string) ([]SchemaError, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ValidateScenarioYAML(path, data)
}

// ValidateScenarioYAML checks scenario YAML against the embedded CUE schema.
// filename is only used in positions.
func ValidateScenarioYAML(filename string, data []byte) ([]SchemaError, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(scenarioSchema, cue.Filename("scenario.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile scenario schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	doc := ctx.BuildFile(file)
	if err := doc.Err(); err != nil {
		return nil, fmt.Errorf("failed to build scenario: %w", err)
	}

	v := schema.LookupPath(cue.ParsePath("#Scenario")).Unify(doc)
	return schemaErrors(v.Validate(cue.Concrete(true))), nil
}

func schemaErrors(err error) []SchemaError {
	if err == nil {
		return nil
	}
	var out []SchemaError
	seen := make(map[string]bool)
	for _, e := range errors.Errors(err) {
		path := e.Path()
		if len(path) > 0 && path[0] == "#Scenario" {
			path = path[1:]
		}
		format, args := e.Msg()
		se := SchemaError{Path: strings.Join(path, "."), Message: fmt.Sprintf(format, args...)}
		key := se.Path + "\x00" + se.Message
		if seen[key] {
			continue
		}
		seen[key] = true
		for _, pos := range errors.Positions(e) {
			if pos.Filename() != "scenario.cue" && pos.Line() > 0 {
				se.Line = pos.Line()
				break
			}
		}
		out = append(out, se)
	}
	return out
}
