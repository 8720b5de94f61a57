package harness

import (
	"strings"

	"github.com/roach88/axtree/internal/engine"
)

// Trace event types.
const (
	EventChange    = "change"
	EventNative    = "native"
	EventViolation = "violation"
	EventSkipped   = "skipped"
	EventQuery     = "query"
)

// TraceEvent is one observable effect of a scenario step.
type TraceEvent struct {
	Seq    int64  `json:"seq"`
	Step   int    `json:"step"`
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true if every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace contains changes, native calls and step outcomes in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Digest is the final snapshot digest, empty if the tree was never built.
	Digest string `json:"digest,omitempty"`

	// Tree is the final tree state, nil if the tree was never built.
	Tree *engine.Reader `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// add appends a trace event.
func (r *Result) add(seq int64, step int, typ, detail string) {
	r.Trace = append(r.Trace, TraceEvent{Seq: seq, Step: step, Type: typ, Detail: detail})
}

// stepEvents returns the details of events of typ recorded for step.
func (r *Result) stepEvents(step int, typ string) []string {
	var out []string
	for _, ev := range r.Trace {
		if ev.Step == step && ev.Type == typ {
			out = append(out, ev.Detail)
		}
	}
	return out
}

// count returns how many events of typ have a detail starting with prefix.
func (r *Result) count(typ, prefix string) int {
	n := 0
	for _, ev := range r.Trace {
		if ev.Type == typ && strings.HasPrefix(ev.Detail, prefix) {
			n++
		}
	}
	return n
}
