// Package bridge connects an accessibility tree to a native window's UI
// Automation surface.
//
// The tree is built lazily on the first native query, so windows that no
// assistive technology inspects never pay for it. After that, every update's
// changes are translated into native notifications: property changes for
// content updates and a focus event when focus moves.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/roach88/axtree/internal/engine"
	"github.com/roach88/axtree/internal/lazy"
	"github.com/roach88/axtree/internal/metrics"
	"github.com/roach88/axtree/internal/schema"
)

// ErrSurfaceDestroyed is returned by updates after Close.
var ErrSurfaceDestroyed = errors.New("surface destroyed")

// Initializer supplies the initial tree on first demand.
type Initializer interface {
	InitTree() (schema.TreeUpdate, error)
}

// StaticInit is an Initializer for an update that is already built.
type StaticInit schema.TreeUpdate

func (s StaticInit) InitTree() (schema.TreeUpdate, error) {
	return schema.TreeUpdate(s), nil
}

// InitFunc adapts a function to Initializer.
type InitFunc func() (schema.TreeUpdate, error)

func (f InitFunc) InitTree() (schema.TreeUpdate, error) {
	return f()
}

// Bridge owns one surface and its lazily built tree.
//
// Update and UpdateIfActive must be serialized by the caller, typically by
// calling them from the UI thread. HandleQuery and Element methods may be
// called from any goroutine.
type Bridge struct {
	surface Surface
	native  Native
	tree    *lazy.Transform[Initializer, *engine.Tree]
	closed  atomic.Bool

	logger           *slog.Logger
	metrics          *metrics.Metrics
	engineOpts       []engine.Option
	structureEvents  bool
	panicOnViolation bool
	observer         func(engine.Change)
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = l
	}
}

// WithMetrics records native calls and lazy construction. The tree records
// its own update metrics on the same collectors.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bridge) {
		b.metrics = m
	}
}

// WithEngineOptions passes extra options to the tree when it is built.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(b *Bridge) {
		b.engineOpts = append(b.engineOpts, opts...)
	}
}

// WithStructureEvents raises structure-changed events for added and removed
// nodes. Off by default; clients usually re-query children instead.
func WithStructureEvents(enabled bool) Option {
	return func(b *Bridge) {
		b.structureEvents = enabled
	}
}

// WithPanicOnViolation panics instead of returning an invariant violation.
// A violation means the producer and the tree disagree, which production
// hosts may treat as fatal.
func WithPanicOnViolation(enabled bool) Option {
	return func(b *Bridge) {
		b.panicOnViolation = enabled
	}
}

// WithObserver calls fn with every change of an applied update, before the
// change is announced natively.
func WithObserver(fn func(engine.Change)) Option {
	return func(b *Bridge) {
		b.observer = fn
	}
}

// New creates a bridge for surface. The tree is not built until the first
// HandleQuery or Update.
func New(surface Surface, native Native, init Initializer, opts ...Option) *Bridge {
	b := &Bridge{
		surface: surface,
		native:  native,
		tree:    lazy.New[Initializer, *engine.Tree](init),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.With("surface", uint64(surface))
	return b
}

// Surface returns the native surface.
func (b *Bridge) Surface() Surface {
	return b.surface
}

// Active reports whether the tree has been built.
func (b *Bridge) Active() bool {
	return b.tree.Constructed()
}

// Tree returns the tree if it has been built. It never builds it.
func (b *Bridge) Tree() (*engine.Tree, bool) {
	return b.tree.Get()
}

func (b *Bridge) treeOrCreate() (*engine.Tree, error) {
	return b.tree.GetOrCreate(func(init Initializer) (*engine.Tree, error) {
		u, err := init.InitTree()
		if err != nil {
			return nil, fmt.Errorf("init tree: %w", err)
		}
		opts := append([]engine.Option{
			engine.WithLogger(b.logger),
			engine.WithMetrics(b.metrics),
		}, b.engineOpts...)
		tree, err := engine.New(u, opts...)
		if err != nil {
			return nil, err
		}
		b.metrics.LazyConstructed()
		b.logger.Info("accessibility tree constructed", "nodes", tree.Read().Len())
		return tree, nil
	})
}

// Update applies u, building the tree first if needed, and announces the
// resulting changes. A native-call failure stops the announcements of this
// update and is returned; the tree state is already updated.
func (b *Bridge) Update(u schema.TreeUpdate) error {
	if b.closed.Load() {
		return ErrSurfaceDestroyed
	}
	tree, err := b.treeOrCreate()
	if err != nil {
		return b.fail(err)
	}
	return b.apply(tree, u)
}

// UpdateIfActive is Update for a tree that has already been built. Before
// the first native query it does nothing and never calls producer.
func (b *Bridge) UpdateIfActive(producer func() schema.TreeUpdate) error {
	if b.closed.Load() {
		return ErrSurfaceDestroyed
	}
	tree, ok := b.tree.Get()
	if !ok {
		return nil
	}
	return b.apply(tree, producer())
}

func (b *Bridge) apply(tree *engine.Tree, u schema.TreeUpdate) error {
	err := tree.UpdateAndProcessChanges(u, func(c engine.Change) error {
		if b.observer != nil {
			b.observer(c)
		}
		return b.announce(tree, c)
	})
	return b.fail(err)
}

func (b *Bridge) fail(err error) error {
	if err != nil && b.panicOnViolation && engine.IsInvariantViolation(err) {
		panic(err)
	}
	return err
}

func (b *Bridge) announce(tree *engine.Tree, c engine.Change) error {
	switch c.Kind {
	case engine.FocusMoved:
		if c.NewNode == nil {
			return nil
		}
		el := newElement(tree, b.surface, c.NewNode.ID)
		return b.record(CallAutomationEvent, b.native.RaiseAutomationEvent(el, AutomationFocusChangedEventID))

	case engine.NodeUpdated:
		if b.logger.Enabled(context.Background(), slog.LevelDebug) {
			b.logger.Debug("node updated", "node", c.NewNode.ID, "fields", schema.DiffNodes(c.OldNode, c.NewNode))
		}
		el := newElement(tree, b.surface, c.NewNode.ID)
		for _, pc := range PropertyChanges(c.OldNode, c.NewNode) {
			err := b.native.RaisePropertyChanged(el, pc.ID, pc.Old, pc.New)
			if err := b.record(CallPropertyChanged, err); err != nil {
				return err
			}
		}
		return nil

	case engine.NodeAdded:
		if !b.structureEvents {
			return nil
		}
		el := newElement(tree, b.surface, c.NewNode.ID)
		return b.record(CallStructureChanged,
			b.native.RaiseStructureChanged(el, StructureChildAdded, RuntimeID(c.NewNode.ID)))

	case engine.NodeRemoved:
		if !b.structureEvents {
			return nil
		}
		// The old parent may be gone as well, so the root reports the removal.
		el := newElement(tree, b.surface, tree.Read().RootID())
		return b.record(CallStructureChanged,
			b.native.RaiseStructureChanged(el, StructureChildRemoved, RuntimeID(c.OldNode.ID)))
	}
	return nil
}

func (b *Bridge) record(call string, err error) error {
	b.metrics.NativeCall(call, err)
	if err != nil {
		b.logger.Error("native call failed", "call", call, "error", err)
		return fmt.Errorf("%s: %w", call, err)
	}
	return nil
}

// HandleQuery answers a native object query for the client area or the UIA
// root object with the root element's provider. Any other object id, or a
// query after Close, returns false so the caller falls back to default
// window handling.
func (b *Bridge) HandleQuery(q Query) (Reply, bool, error) {
	switch q.ObjID() {
	case ObjIDClient, UIARootObjectID:
	default:
		return 0, false, nil
	}
	if b.closed.Load() {
		return 0, false, nil
	}
	tree, err := b.treeOrCreate()
	if err != nil {
		return 0, false, b.fail(err)
	}
	el := newElement(tree, b.surface, tree.Read().RootID())
	reply, err := b.native.ReturnProvider(b.surface, q, el)
	if err := b.record(CallReturnProvider, err); err != nil {
		return 0, false, err
	}
	return reply, true, nil
}

// Root returns the root element, building the tree if needed.
func (b *Bridge) Root() (*Element, error) {
	tree, err := b.treeOrCreate()
	if err != nil {
		return nil, b.fail(err)
	}
	return newElement(tree, b.surface, tree.Read().RootID()), nil
}

// Element returns the element for id without checking that it exists.
// It returns false if the tree has not been built.
func (b *Bridge) Element(id schema.NodeID) (*Element, bool) {
	tree, ok := b.tree.Get()
	if !ok {
		return nil, false
	}
	return newElement(tree, b.surface, id), true
}

// Close marks the surface destroyed. Existing elements keep answering from
// the last snapshot.
func (b *Bridge) Close() {
	if b.closed.CompareAndSwap(false, true) {
		b.logger.Debug("surface closed")
	}
}
