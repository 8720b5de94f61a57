package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/axtree/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // scenario filter (glob pattern on the file name)
	GoldenDir string // golden file directory; defaults to golden/ next to each scenario
	Parallel  int    // scenarios run at once
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Golden string   `json:"golden,omitempty"` // "match", "updated" or "mismatch"
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <path>...",
		Short: "Run scenarios and compare golden traces",
		Long: `Run every scenario under the given paths, check their expectations and
assertions, and compare each trace with its golden file when one exists.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  axtree test ./testdata/scenarios
  axtree test ./testdata/scenarios --filter "focus_*"
  axtree test ./testdata/scenarios --update
  axtree test ./testdata/scenarios --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, cmd, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden-dir", "", "golden file directory (default: golden/ next to each scenario)")
	cmd.Flags().IntVar(&opts.Parallel, "parallel", 4, "number of scenarios run at once")

	return cmd
}

func runTests(opts *TestOptions, cmd *cobra.Command, paths []string) error {
	out := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	files, err := harness.FindScenarios(paths...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}
	files, err = filterScenarios(files, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid filter", err)
	}

	result := TestResult{Scenarios: []ScenarioResult{}}
	var (
		scenarios []*harness.Scenario
		sources   []string
	)
	for _, f := range files {
		s, err := harness.LoadScenario(f)
		if err != nil {
			result.add(ScenarioResult{
				Name:   filepath.Base(f),
				Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
			})
			continue
		}
		scenarios = append(scenarios, s)
		sources = append(sources, f)
	}

	runs, err := harness.RunAll(cmd.Context(), scenarios, opts.Parallel, harness.WithLogger(logger))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenarios", err)
	}
	for i, r := range runs {
		out.VerboseLog("ran %s: %d trace events", scenarios[i].Name, len(r.Trace))
		result.add(opts.check(scenarios[i], sources[i], r))
	}

	failed := ""
	if result.Failed > 0 {
		failed = fmt.Sprintf("%d scenario(s) failed", result.Failed)
	}

	if out.JSON() {
		if err := out.Result(result, ErrCodeFailed, failed); err != nil {
			return err
		}
	} else {
		printTests(cmd, result)
	}

	if failed != "" {
		return NewExitError(ExitFailure, failed)
	}
	return nil
}

func (r *TestResult) add(s ScenarioResult) {
	r.Scenarios = append(r.Scenarios, s)
	r.Total++
	if s.Pass {
		r.Passed++
	} else {
		r.Failed++
	}
}

// check combines a run's own verdict with the golden comparison.
func (opts *TestOptions) check(s *harness.Scenario, source string, r *harness.Result) ScenarioResult {
	sr := ScenarioResult{Name: s.Name, Pass: r.Pass, Errors: r.Errors}

	dir := opts.GoldenDir
	if dir == "" {
		dir = filepath.Join(filepath.Dir(source), "golden")
	}
	if !opts.Update {
		if _, err := os.Stat(filepath.Join(dir, s.Name+".golden")); os.IsNotExist(err) {
			return sr
		}
	}

	err := harness.CompareGoldenFile(dir, s.Name, r, opts.Update)
	var mismatch *harness.GoldenMismatchError
	switch {
	case err == nil && opts.Update:
		sr.Golden = "updated"
	case err == nil:
		sr.Golden = "match"
	case errors.As(err, &mismatch):
		sr.Golden = "mismatch"
		sr.Pass = false
		sr.Errors = append(sr.Errors, "trace does not match golden file (run with --update to regenerate)")
	default:
		sr.Pass = false
		sr.Errors = append(sr.Errors, fmt.Sprintf("golden comparison failed: %v", err))
	}
	return sr
}

// filterScenarios keeps files whose base name, without extension, matches
// the glob pattern.
func filterScenarios(files []string, pattern string) ([]string, error) {
	if pattern == "" {
		return files, nil
	}
	var out []string
	for _, f := range files {
		base := filepath.Base(f)
		matched, err := filepath.Match(pattern, strings.TrimSuffix(base, filepath.Ext(base)))
		if err != nil {
			return nil, err
		}
		if matched {
			out = append(out, f)
		}
	}
	return out, nil
}

func printTests(cmd *cobra.Command, result TestResult) {
	w := cmd.OutOrStdout()
	if result.Total == 0 {
		fmt.Fprintln(w, "No scenarios found.")
		return
	}
	for _, s := range result.Scenarios {
		mark := "✓"
		if !s.Pass {
			mark = "✗"
		}
		if s.Golden == "updated" {
			fmt.Fprintf(w, "%s %s (golden updated)\n", mark, s.Name)
		} else {
			fmt.Fprintf(w, "%s %s\n", mark, s.Name)
		}
		for _, e := range s.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	if result.Failed == 0 {
		fmt.Fprintln(w, "✓ All scenarios passed")
	}
}
