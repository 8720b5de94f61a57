package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/axtree/internal/harness"
)

// FileReport is the validation outcome of one scenario file.
type FileReport struct {
	Path   string                `json:"path"`
	Valid  bool                  `json:"valid"`
	Errors []harness.SchemaError `json:"errors,omitempty"`
}

// ValidateResult is the output of the validate command.
type ValidateResult struct {
	Files   []FileReport `json:"files"`
	Invalid int          `json:"invalid"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <path>...",
		Short: "Check scenario files against the scenario schema",
		Long: `Check scenario files against the embedded CUE schema and the loader's
own rules. Directories are searched for .yaml and .yml files.

Exit codes:
  0 - All files valid
  1 - One or more files invalid
  2 - Command error (no scenario files at a path, etc.)

Examples:
  axtree validate ./testdata/scenarios
  axtree validate focus_moved.yaml --format json`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, cmd, args)
		},
	}
}

func runValidate(opts *RootOptions, cmd *cobra.Command, paths []string) error {
	out := opts.formatter(cmd)

	files, err := harness.FindScenarios(paths...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find scenarios", err)
	}

	result := ValidateResult{Files: make([]FileReport, 0, len(files))}
	for _, path := range files {
		out.VerboseLog("validating %s", path)
		report := validateFile(path)
		if !report.Valid {
			result.Invalid++
		}
		result.Files = append(result.Files, report)
	}

	failed := ""
	if result.Invalid > 0 {
		failed = fmt.Sprintf("%d of %d file(s) invalid", result.Invalid, len(files))
	}

	if out.JSON() {
		if err := out.Result(result, ErrCodeSchema, failed); err != nil {
			return err
		}
	} else {
		w := cmd.OutOrStdout()
		for _, f := range result.Files {
			if f.Valid {
				fmt.Fprintf(w, "✓ %s\n", f.Path)
				continue
			}
			fmt.Fprintf(w, "✗ %s\n", f.Path)
			for _, e := range f.Errors {
				fmt.Fprintf(w, "  %s\n", e.Error())
			}
		}
	}

	if failed != "" {
		return NewExitError(ExitFailure, failed)
	}
	return nil
}

func validateFile(path string) FileReport {
	report := FileReport{Path: path}

	errs, err := harness.ValidateScenarioFile(path)
	if err != nil {
		report.Errors = []harness.SchemaError{{Message: err.Error()}}
		return report
	}
	report.Errors = errs

	if _, err := harness.LoadScenario(path); err != nil {
		report.Errors = append(report.Errors, harness.SchemaError{Message: err.Error()})
	}
	report.Valid = len(report.Errors) == 0
	return report
}
