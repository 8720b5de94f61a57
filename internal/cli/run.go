package cli

import (
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/roach88/axtree/internal/engine"
	"github.com/roach88/axtree/internal/harness"
	"github.com/roach88/axtree/internal/metrics"
	"github.com/roach88/axtree/internal/schema"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Tree    bool // print the final tree
	Metrics bool // print collected metrics
	UUID    bool // random tree id when the scenario has none
}

// RunOutput is the output of the run command.
type RunOutput struct {
	Name    string               `json:"name"`
	Pass    bool                 `json:"pass"`
	Trace   []harness.TraceEvent `json:"trace"`
	Errors  []string             `json:"errors,omitempty"`
	Digest  string               `json:"digest,omitempty"`
	Tree    []string             `json:"tree,omitempty"`
	Metrics string               `json:"metrics,omitempty"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario>",
		Short: "Run one scenario and print its trace",
		Long: `Run one scenario against a fresh bridge and print every tree change,
native call and step outcome in order.

Examples:
  axtree run testdata/scenarios/focus_moved.yaml
  axtree run testdata/scenarios/removal_via_clear.yaml --tree
  axtree run scenario.yaml --metrics --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, cmd, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Tree, "tree", false, "print the final tree")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "print collected metrics")
	cmd.Flags().BoolVar(&opts.UUID, "uuid", false, "use a random UUID tree id when the scenario sets none")

	return cmd
}

func runScenarioFile(opts *RunOptions, cmd *cobra.Command, path string) error {
	out := opts.formatter(cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	s, err := harness.LoadScenario(path)
	if err != nil {
		_ = out.Error(ErrCodeLoad, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	reg := prometheus.NewRegistry()
	runOpts := []harness.Option{harness.WithLogger(logger), harness.WithMetrics(metrics.New(reg))}
	if opts.UUID {
		runOpts = append(runOpts, harness.WithTreeIDs(schema.UUIDGenerator{}))
	}
	result, err := harness.Run(s, runOpts...)
	if err != nil {
		_ = out.Error(ErrCodeRun, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	output := RunOutput{
		Name:   s.Name,
		Pass:   result.Pass,
		Trace:  result.Trace,
		Errors: result.Errors,
		Digest: result.Digest,
	}
	if opts.Tree && result.Tree != nil {
		output.Tree = treeLines(*result.Tree)
	}
	if opts.Metrics {
		text, err := metricsText(reg)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to gather metrics", err)
		}
		output.Metrics = text
	}

	failed := ""
	if !result.Pass {
		failed = fmt.Sprintf("scenario %s failed", s.Name)
	}

	if out.JSON() {
		if err := out.Result(output, ErrCodeFailed, failed); err != nil {
			return err
		}
	} else {
		printRun(cmd, output)
	}

	if failed != "" {
		return NewExitError(ExitFailure, failed)
	}
	return nil
}

func printRun(cmd *cobra.Command, o RunOutput) {
	w := cmd.OutOrStdout()
	for _, ev := range o.Trace {
		fmt.Fprintf(w, "[%d] step %d %-9s %s\n", ev.Seq, ev.Step, ev.Type, ev.Detail)
	}
	if o.Digest != "" {
		fmt.Fprintf(w, "digest: %s\n", o.Digest)
	}
	if len(o.Tree) > 0 {
		fmt.Fprintln(w, "tree:")
		for _, line := range o.Tree {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	if o.Metrics != "" {
		fmt.Fprint(w, o.Metrics)
	}
	if o.Pass {
		fmt.Fprintf(w, "✓ %s\n", o.Name)
		return
	}
	fmt.Fprintf(w, "✗ %s\n", o.Name)
	for _, e := range o.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

// treeLines renders the tree one node per line, indented by depth.
func treeLines(r engine.Reader) []string {
	var lines []string
	var focus schema.NodeID
	if f, ok := r.Focus(); ok {
		focus = f.ID
	}
	r.Walk(func(n *schema.Node, depth int) bool {
		line := strings.Repeat("  ", depth) + fmt.Sprintf("%d %s", n.ID, n.Role)
		if name := n.Name(); name != "" {
			line += fmt.Sprintf(" %q", name)
		}
		if n.ID == focus {
			line += " (focused)"
		}
		lines = append(lines, line)
		return true
	})
	return lines
}

func metricsText(g prometheus.Gatherer) (string, error) {
	families, err := g.Gather()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(&b, mf); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}
