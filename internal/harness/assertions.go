package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/axtree/internal/bridge/bridgetest"
	"github.com/roach88/axtree/internal/engine"
	"github.com/roach88/axtree/internal/schema"
)

// AssertionContext is the final state assertions are evaluated against.
type AssertionContext struct {
	Result   *Result
	Recorder *bridgetest.Recorder

	// Tree is the final tree state. Only meaningful if Active.
	Tree   engine.Reader
	Active bool
}

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Trace    []TraceEvent
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] step %d %s %s\n", ev.Seq, ev.Step, ev.Type, ev.Detail)
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure messages.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertNodeExists:
			err = assertNodeExists(actx, a)
		case AssertNodeAbsent:
			err = assertNodeAbsent(actx, a)
		case AssertRootIs:
			err = assertRootIs(actx, a)
		case AssertFocusIs:
			err = assertFocusIs(actx, a)
		case AssertChangeCount:
			err = assertCount(actx, a, actx.Result.count(EventChange, a.Kind))
		case AssertNativeCount:
			err = assertCount(actx, a, actx.Recorder.Count(a.Kind))
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func (actx *AssertionContext) failure(a Assertion, expected, actual string) *AssertionError {
	return &AssertionError{Type: a.Type, Expected: expected, Actual: actual, Trace: actx.Result.Trace}
}

func assertNodeExists(actx *AssertionContext, a Assertion) error {
	if !actx.Active {
		return actx.failure(a, fmt.Sprintf("node %d", a.Node), "tree never built")
	}
	n, ok := actx.Tree.Node(a.Node)
	if !ok {
		return actx.failure(a, fmt.Sprintf("node %d", a.Node), "not in tree")
	}
	if a.Name != nil && n.Name() != *a.Name {
		return actx.failure(a, fmt.Sprintf("node %d named %q", a.Node, *a.Name), fmt.Sprintf("named %q", n.Name()))
	}
	return nil
}

func assertNodeAbsent(actx *AssertionContext, a Assertion) error {
	if actx.Active && actx.Tree.Contains(a.Node) {
		return actx.failure(a, fmt.Sprintf("no node %d", a.Node), "node is in tree")
	}
	return nil
}

func assertRootIs(actx *AssertionContext, a Assertion) error {
	if !actx.Active {
		return actx.failure(a, fmt.Sprintf("root %d", a.Node), "tree never built")
	}
	if got := actx.Tree.RootID(); got != a.Node {
		return actx.failure(a, fmt.Sprintf("root %d", a.Node), fmt.Sprintf("root %d", got))
	}
	return nil
}

func assertFocusIs(actx *AssertionContext, a Assertion) error {
	got := schema.NodeID(0)
	if actx.Active {
		if n, ok := actx.Tree.Focus(); ok {
			got = n.ID
		}
	}
	if got != a.Node {
		return actx.failure(a, focusLabel(a.Node), focusLabel(got))
	}
	return nil
}

func focusLabel(id schema.NodeID) string {
	if id == 0 {
		return "no focus"
	}
	return fmt.Sprintf("focus on %d", id)
}

func assertCount(actx *AssertionContext, a Assertion, got int) error {
	what := a.Kind
	if what == "" {
		what = "any"
	}
	if got != *a.Count {
		return actx.failure(a, fmt.Sprintf("%d x %s", *a.Count, what), fmt.Sprintf("%d x %s", got, what))
	}
	return nil
}
