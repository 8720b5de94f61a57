package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/axtree/internal/bridge"
	"github.com/roach88/axtree/internal/bridge/bridgetest"
	"github.com/roach88/axtree/internal/engine"
	"github.com/roach88/axtree/internal/metrics"
	"github.com/roach88/axtree/internal/schema"
	"github.com/roach88/axtree/internal/testutil"
)

// providerReply is what the recording native returns for provider queries.
const providerReply bridge.Reply = 1

// Option configures a scenario run.
type Option func(*config)

type config struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
	treeIDs schema.TreeIDGenerator
}

// WithLogger sets the logger handed to the bridge. Runs are silent by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithMetrics records the run's bridge and tree metrics on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithTreeIDs sets the generator used for the tree id when the initial
// update carries no tree metadata. The default uses the scenario name.
func WithTreeIDs(g schema.TreeIDGenerator) Option {
	return func(c *config) {
		c.treeIDs = g
	}
}

// harness holds the state of one scenario run.
type harness struct {
	bridge   *bridge.Bridge
	recorder *bridgetest.Recorder
	clock    *testutil.DeterministicClock
	result   *Result
	step     int
}

// Run executes a scenario and returns the result.
//
// Each run uses a fresh bridge, recording native and clock, so results are
// reproducible. Failed expectations are reported in the result; the error
// is reserved for scenarios that cannot be executed.
func Run(s *Scenario, opts ...Option) (*Result, error) {
	cfg := config{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}

	initial, err := s.Initial.Update()
	if err != nil {
		return nil, fmt.Errorf("initial: %w", err)
	}
	if initial.Tree == nil {
		gen := cfg.treeIDs
		if gen == nil {
			gen = schema.NewFixedTreeIDs(s.Name)
		}
		meta := schema.NewTree(gen)
		initial.Tree = &meta
	}

	h := &harness{
		recorder: bridgetest.NewRecorder(providerReply),
		clock:    testutil.NewDeterministicClock(),
		result:   NewResult(),
	}
	h.recorder.Observe(func(c bridgetest.Call) {
		h.result.add(h.clock.Next(), h.step, EventNative, c.String())
	})

	surface := s.Surface
	if surface == 0 {
		surface = 1
	}
	h.bridge = bridge.New(bridge.Surface(surface), h.recorder, bridge.StaticInit(initial),
		bridge.WithLogger(cfg.logger.With("scenario", s.Name)),
		bridge.WithMetrics(cfg.metrics),
		bridge.WithStructureEvents(s.StructureEvents),
		bridge.WithObserver(func(c engine.Change) {
			h.result.add(h.clock.Next(), h.step, EventChange, c.String())
		}),
	)

	for i := range s.Steps {
		h.step = i
		if err := h.runStep(&s.Steps[i]); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, s.Steps[i].Kind(), err)
		}
	}

	actx := &AssertionContext{Result: h.result, Recorder: h.recorder}
	if tree, ok := h.bridge.Tree(); ok {
		actx.Tree = tree.Read()
		actx.Active = true
		digest, err := actx.Tree.Digest()
		if err != nil {
			return nil, fmt.Errorf("digest: %w", err)
		}
		h.result.Digest = digest
		h.result.Tree = &actx.Tree
	}
	for _, msg := range EvaluateAssertions(s.Assertions, actx) {
		h.result.AddError(msg)
	}
	return h.result, nil
}

func (h *harness) runStep(step *Step) error {
	var (
		err     error
		reply   *bool
		invoked *bool
	)

	switch step.Kind() {
	case StepUpdate:
		u, perr := step.Update.Update()
		if perr != nil {
			return perr
		}
		err = h.bridge.Update(u)

	case StepUpdateIfActive:
		u, perr := step.UpdateIfActive.Update()
		if perr != nil {
			return perr
		}
		called := false
		err = h.bridge.UpdateIfActive(func() schema.TreeUpdate {
			called = true
			return u
		})
		if !called && err == nil {
			h.result.add(h.clock.Next(), h.step, EventSkipped, "tree not active")
		}
		invoked = &called

	case StepQuery:
		var (
			r  bridge.Reply
			ok bool
		)
		r, ok, err = h.bridge.HandleQuery(bridge.Query{LParam: int64(step.Query.ObjID)})
		if err == nil {
			detail := fmt.Sprintf("objid=%d unhandled", step.Query.ObjID)
			if ok {
				detail = fmt.Sprintf("objid=%d reply=%d", step.Query.ObjID, r)
			}
			h.result.add(h.clock.Next(), h.step, EventQuery, detail)
		}
		reply = &ok

	case StepClose:
		h.bridge.Close()
	}

	violation := ""
	if err != nil {
		switch code, ok := engine.ViolationCodeOf(err); {
		case ok:
			violation = string(code)
			h.result.add(h.clock.Next(), h.step, EventViolation, violation)
		case errors.Is(err, bridge.ErrSurfaceDestroyed):
			h.result.add(h.clock.Next(), h.step, EventSkipped, "surface destroyed")
		default:
			return err
		}
	}

	h.checkExpect(step.Expect, violation, reply, invoked)
	return nil
}

func (h *harness) checkExpect(e *Expect, violation string, reply, invoked *bool) {
	if e == nil {
		if violation != "" {
			h.fail("unexpected violation %s", violation)
		}
		return
	}

	if violation != e.Violation {
		switch {
		case e.Violation == "":
			h.fail("unexpected violation %s", violation)
		case violation == "":
			h.fail("expected violation %s, update was accepted", e.Violation)
		default:
			h.fail("expected violation %s, got %s", e.Violation, violation)
		}
	}

	changes := h.result.stepEvents(h.step, EventChange)
	if e.NoChanges && len(changes) > 0 {
		h.fail("expected no changes, got %v", changes)
	}
	if e.Changes != nil && !slices.Equal(changes, e.Changes) {
		h.fail("changes: expected %v, got %v", e.Changes, changes)
	}
	if e.Native != nil {
		native := h.result.stepEvents(h.step, EventNative)
		if !slices.Equal(native, e.Native) {
			h.fail("native calls: expected %v, got %v", e.Native, native)
		}
	}
	if e.Reply != nil && reply != nil && *e.Reply != *reply {
		h.fail("reply: expected %t, got %t", *e.Reply, *reply)
	}
	if e.ProducerCalled != nil && invoked != nil && *e.ProducerCalled != *invoked {
		h.fail("producer called: expected %t, got %t", *e.ProducerCalled, *invoked)
	}
}

func (h *harness) fail(format string, args ...any) {
	h.result.AddError(fmt.Sprintf("step %d: ", h.step) + fmt.Sprintf(format, args...))
}

// RunAll runs scenarios concurrently, at most limit at a time (no limit if
// limit <= 0). Results are returned in scenario order. The first scenario
// that cannot be executed cancels the rest.
func RunAll(ctx context.Context, scenarios []*Scenario, limit int, opts ...Option) ([]*Result, error) {
	results := make([]*Result, len(scenarios))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, s := range scenarios {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := Run(s, opts...)
			if err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
