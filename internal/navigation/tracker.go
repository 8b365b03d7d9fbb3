package navigation

import (
	"slices"

	"github.com/mesh-intelligence/tradestate/pkg/hierarchy"
	"github.com/mesh-intelligence/tradestate/pkg/types"
)

// SiblingSwitch records a lateral move between two independent top-level pages.
type SiblingSwitch struct {
	From types.PageKey `json:"from"`
	To   types.PageKey `json:"to"`
}

// Transition is the result of ComputeTransition. It does not change the
// Tracker until passed to Commit.
type Transition struct {
	Page types.PageKey

	// Entity is the entity Page is scoped to after the move. A keyed page
	// navigated to without an entity keeps the entity its node already has,
	// else takes the entity of its nearest scoped ancestor on the path.
	Entity types.EntityID

	// NewPath is Ancestors(Page) + [Page]; NewEntities holds the entity of
	// each node of NewPath, empty where none is known.
	NewPath     []types.PageKey
	NewEntities []types.EntityID

	// Abandoned lists path nodes that are no longer reachable without
	// drilling in again, shallowest first: nodes deeper than the destination,
	// plus the destination's own node when it is re-scoped to another entity.
	// AbandonedEntities[i] is the entity Abandoned[i] was scoped to.
	Abandoned         []types.PageKey
	AbandonedEntities []types.EntityID

	// SiblingSwitch is set on a move between two different independent
	// top-level pages.
	SiblingSwitch *SiblingSwitch

	// NoOp is set when the destination is already the top of the path.
	NoOp bool
}

// Tracker holds the current navigation path and the entity each node of the
// path is scoped to. The zero path is empty.
type Tracker struct {
	h        *hierarchy.Hierarchy
	path     []types.PageKey
	entities []types.EntityID
}

// NewTracker returns a Tracker with an empty path.
func NewTracker(h *hierarchy.Hierarchy) *Tracker {
	return &Tracker{h: h}
}

// Path returns a copy of the current path.
func (t *Tracker) Path() []types.PageKey {
	return slices.Clone(t.path)
}

// Entities returns a copy of the entity of each path node.
func (t *Tracker) Entities() []types.EntityID {
	return slices.Clone(t.entities)
}

// Current returns the page at the top of the path and its entity. Both are
// empty before the first navigation.
func (t *Tracker) Current() (types.PageKey, types.EntityID) {
	if len(t.path) == 0 {
		return "", ""
	}
	return t.path[len(t.path)-1], t.entities[len(t.entities)-1]
}

// ComputeTransition computes the path and abandoned set for navigating to
// (page, id) from the current path.
func (t *Tracker) ComputeTransition(page types.PageKey, id types.EntityID) Transition {
	newPath := t.h.Path(page)
	newLevel := len(newPath) - 1

	// Ancestors shared with the current path keep their entities.
	entities := make([]types.EntityID, len(newPath))
	for i := 0; i < newLevel && i < len(t.path) && t.path[i] == newPath[i]; i++ {
		entities[i] = t.entities[i]
	}
	if id == "" && t.h.IsKeyed(page) {
		if newLevel < len(t.path) && t.path[newLevel] == page {
			id = t.entities[newLevel]
		}
		for i := newLevel - 1; i >= 0 && id == ""; i-- {
			if entities[i] != "" {
				id = entities[i]
				break
			}
		}
	}
	entities[newLevel] = id

	tr := Transition{
		Page:        page,
		Entity:      id,
		NewPath:     newPath,
		NewEntities: entities,
	}

	if cur, curID := t.Current(); cur == page && curID == id {
		tr.NewPath = t.Path()
		tr.NewEntities = t.Entities()
		tr.NoOp = true
		return tr
	}

	cut := newLevel + 1
	if newLevel < len(t.path) && t.path[newLevel] == page && t.entities[newLevel] != id && t.h.IsKeyed(page) {
		cut = newLevel
	}
	if cut < len(t.path) {
		tr.Abandoned = slices.Clone(t.path[cut:])
		tr.AbandonedEntities = slices.Clone(t.entities[cut:])
	}

	if newLevel == 0 && len(t.path) > 0 {
		from := t.path[0]
		if from != page && t.h.IsIndependentTop(from) && t.h.IsIndependentTop(page) {
			tr.SiblingSwitch = &SiblingSwitch{From: from, To: page}
		}
	}
	return tr
}

// Commit makes tr the current path.
func (t *Tracker) Commit(tr Transition) {
	t.path = slices.Clone(tr.NewPath)
	t.entities = slices.Clone(tr.NewEntities)
	if len(t.entities) != len(t.path) {
		t.entities = make([]types.EntityID, len(t.path))
		if len(t.path) > 0 {
			t.entities[len(t.path)-1] = tr.Entity
		}
	}
}

// Navigate computes and commits a transition in one step.
func (t *Tracker) Navigate(page types.PageKey, id types.EntityID) Transition {
	tr := t.ComputeTransition(page, id)
	t.Commit(tr)
	return tr
}
