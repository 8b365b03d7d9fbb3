package pagecache

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mesh-intelligence/tradestate/internal/metrics"
	"github.com/mesh-intelligence/tradestate/internal/navigation"
	"github.com/mesh-intelligence/tradestate/internal/persist"
	"github.com/mesh-intelligence/tradestate/internal/state"
	"github.com/mesh-intelligence/tradestate/pkg/hierarchy"
	"github.com/mesh-intelligence/tradestate/pkg/types"
)

// Engine is the page-state cache. All methods are safe for concurrent use;
// each call runs to completion before the next one starts.
type Engine struct {
	mu      sync.Mutex
	h       *hierarchy.Hierarchy
	logger  *slog.Logger
	medium  types.Medium
	store   *state.Store
	drafts  *state.Drafts
	tracker *navigation.Tracker
	policy  *navigation.Policy
	bridge  *persist.Bridge
}

// Option configures an Engine.
type Option func(*Engine)

// WithHierarchy replaces the default trade-contracts hierarchy.
func WithHierarchy(h *hierarchy.Hierarchy) Option {
	return func(e *Engine) { e.h = h }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// New builds an Engine over an attached medium and hydrates it. Hydration
// never fails; unreadable slots start from defaults.
func New(medium types.Medium, opts ...Option) *Engine {
	e := &Engine{medium: medium}
	for _, opt := range opts {
		opt(e)
	}
	if e.h == nil {
		e.h = hierarchy.Default()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e.bridge = persist.NewBridge(medium, e.h, e.logger)
	e.store, e.drafts = e.bridge.Hydrate()
	e.tracker = navigation.NewTracker(e.h)
	e.policy = navigation.NewPolicy(e.h, e.logger)
	return e
}

// Open creates the medium for cfg, attaches it and builds an Engine.
func Open(cfg types.Config, opts ...Option) (*Engine, error) {
	base := &Engine{}
	for _, opt := range opts {
		opt(base)
	}
	medium, err := NewMedium(cfg, base.logger)
	if err != nil {
		return nil, err
	}
	if err := medium.Attach(cfg); err != nil {
		return nil, fmt.Errorf("attach %s medium: %w", cfg.Backend, err)
	}
	return New(medium, opts...), nil
}

// Close detaches the medium.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.medium.Detach()
}

// Hierarchy returns the hierarchy the engine navigates.
func (e *Engine) Hierarchy() *hierarchy.Hierarchy {
	return e.h
}

// Degraded reports whether a write to the medium has failed. A degraded
// engine keeps working in memory for the rest of the session.
func (e *Engine) Degraded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bridge.Degraded()
}

// Navigate moves to page, scoped to id for keyed pages, and evicts the state
// of everything the move abandoned. The page-state slot is written only if
// something was evicted.
func (e *Engine) Navigate(page types.PageKey, id types.EntityID) navigation.Transition {
	e.mu.Lock()
	defer e.mu.Unlock()

	tr := e.tracker.ComputeTransition(page, id)
	switch {
	case tr.NoOp:
		metrics.Navigations.WithLabelValues(metrics.TransitionNoOp).Inc()
		return tr
	case tr.SiblingSwitch != nil:
		metrics.Navigations.WithLabelValues(metrics.TransitionSibling).Inc()
	default:
		metrics.Navigations.WithLabelValues(metrics.TransitionDrill).Inc()
	}

	out := e.policy.Apply(e.store, tr)
	e.tracker.Commit(tr)

	if out.Changed() {
		metrics.Evictions.WithLabelValues(metrics.ScopeList).Add(float64(len(out.Lists)))
		metrics.Evictions.WithLabelValues(metrics.ScopeKeyed).Add(float64(out.Keyed))
		e.persistPageState()
	}
	return tr
}

// Path returns a copy of the current navigation path.
func (e *Engine) Path() []types.PageKey {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Path()
}

// Current returns the page and entity at the top of the path.
func (e *Engine) Current() (types.PageKey, types.EntityID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tracker.Current()
}

// ListState returns the state of a list page, or its defaults.
func (e *Engine) ListState(page types.PageKey) types.ListPageState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.ListState(page)
}

// UpdateListState merges patch into the state of a list page.
func (e *Engine) UpdateListState(page types.PageKey, patch types.ListPatch) types.ListPageState {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, changed := e.store.UpdateListState(page, patch)
	if changed {
		e.persistPageState()
	}
	return st
}

// DetailState returns the state of a detail page for id, or its defaults.
func (e *Engine) DetailState(page types.PageKey, id types.EntityID) types.DetailPageState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.DetailState(page, id)
}

// UpdateDetailState merges patch into the state of a detail page for id.
func (e *Engine) UpdateDetailState(page types.PageKey, id types.EntityID, patch types.DetailPatch) types.DetailPageState {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, changed := e.store.UpdateDetailState(page, id, patch)
	if changed {
		e.persistPageState()
	}
	return st
}

// FormState returns the state of a sub-resource form for id, or its
// defaults.
func (e *Engine) FormState(page types.PageKey, id types.EntityID) types.SubResourceFormState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.FormState(page, id)
}

// UpdateFormState merges patch into the state of a sub-resource form for id.
func (e *Engine) UpdateFormState(page types.PageKey, id types.EntityID, patch types.SubResourcePatch) types.SubResourceFormState {
	e.mu.Lock()
	defer e.mu.Unlock()

	st, changed := e.store.UpdateFormState(page, id, patch)
	if changed {
		e.persistPageState()
	}
	return st
}

// KeyedState returns the state of a keyed page for id using the variant the
// hierarchy declares for page. List pages return their list state.
func (e *Engine) KeyedState(page types.PageKey, id types.EntityID) types.PageState {
	e.mu.Lock()
	defer e.mu.Unlock()

	kind := e.h.Kind(page)
	if !kind.Keyed() {
		return e.store.ListState(page)
	}
	return e.store.KeyedState(page, kind, id)
}

// Draft returns a copy of the draft for formType, or nil.
func (e *Engine) Draft(formType types.FormType) types.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.drafts.Get(formType)
}

// UpdateDraft replaces the draft for formType with data.
func (e *Engine) UpdateDraft(formType types.FormType, data types.Record) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drafts.Update(formType, data) {
		e.persistDrafts()
	}
}

// ClearDraft removes the draft for formType. Call it once, after the form
// was submitted successfully.
func (e *Engine) ClearDraft(formType types.FormType) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.drafts.Clear(formType) {
		e.persistDrafts()
	}
}

// persistPageState and persistDrafts log failures; the bridge has already
// degraded to memory-only.
func (e *Engine) persistPageState() {
	if err := e.bridge.PersistPageState(e.store); err != nil && !errors.Is(err, persist.ErrDegraded) {
		e.logger.Error("persist page state", "error", err)
	}
}

func (e *Engine) persistDrafts() {
	if err := e.bridge.PersistDrafts(e.drafts); err != nil && !errors.Is(err, persist.ErrDegraded) {
		e.logger.Error("persist drafts", "error", err)
	}
}
