package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/axtree/internal/schema"
)

// DefaultGoldenDir is where golden traces live relative to the test package.
const DefaultGoldenDir = "testdata/golden"

// TraceSnapshot is the golden form of a scenario run.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Digest       string       `json:"digest,omitempty"`
	Trace        []TraceEvent `json:"trace"`
}

// TraceJSON returns the canonical JSON of a run's trace and final digest.
func TraceJSON(name string, r *Result) ([]byte, error) {
	snap := TraceSnapshot{ScenarioName: name, Digest: r.Digest, Trace: r.Trace}
	if snap.Trace == nil {
		snap.Trace = []TraceEvent{}
	}
	return schema.MarshalCanonical(snap)
}

// RunWithGolden executes a scenario and compares its trace against
// {dir}/{scenario.Name}.golden. An empty dir means DefaultGoldenDir.
//
// To regenerate golden files, run:
//
//	go test ./... -update
func RunWithGolden(t *testing.T, s *Scenario, dir string) (*Result, error) {
	t.Helper()

	result, err := Run(s)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, s.Name, result, dir); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's trace against a golden file.
func AssertGolden(t *testing.T, name string, r *Result, dir string) error {
	t.Helper()

	data, err := TraceJSON(name, r)
	if err != nil {
		return err
	}
	newGoldie(t, dir).Assert(t, name, data)
	return nil
}

func newGoldie(t *testing.T, dir string) *goldie.Goldie {
	if dir == "" {
		dir = DefaultGoldenDir
	}
	return goldie.New(t,
		goldie.WithFixtureDir(dir),
		goldie.WithNameSuffix(".golden"),
	)
}

// GoldenMismatchError reports a trace that differs from its golden file.
type GoldenMismatchError struct {
	Path string
}

func (e *GoldenMismatchError) Error() string {
	return fmt.Sprintf("trace does not match golden file %s", e.Path)
}

// CompareGoldenFile compares a run's trace with {dir}/{name}.golden outside of
// a test. With update set the file is rewritten instead.
func CompareGoldenFile(dir, name string, r *Result, update bool) error {
	data, err := TraceJSON(name, r)
	if err != nil {
		return err
	}
	path := filepath.Join(dir, name+".golden")
	if update {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create golden dir: %w", err)
		}
		return os.WriteFile(path, data, 0o644)
	}
	want, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read golden file: %w", err)
	}
	if !bytes.Equal(bytes.TrimSpace(want), bytes.TrimSpace(data)) {
		return &GoldenMismatchError{Path: path}
	}
	return nil
}
