package navigation

import (
	"log/slog"

	"github.com/mesh-intelligence/tradestate/pkg/hierarchy"
	"github.com/mesh-intelligence/tradestate/pkg/types"
)

// Evictor is the subset of the state store the Policy needs.
type Evictor interface {
	Evict(page types.PageKey) bool
	EvictKeyed(page types.PageKey, id types.EntityID) bool
	EvictAllKeyed(page types.PageKey) int
}

// Outcome summarizes what a Policy removed.
type Outcome struct {
	Lists []types.PageKey // list pages reset to defaults
	Keyed int             // entity slots removed
}

// Changed reports whether anything was evicted.
func (o Outcome) Changed() bool {
	return len(o.Lists) > 0 || o.Keyed > 0
}

// Policy purges cached state that a transition made unreachable.
type Policy struct {
	h      *hierarchy.Hierarchy
	logger *slog.Logger
}

// NewPolicy returns a Policy over h. A nil logger uses slog.Default().
func NewPolicy(h *hierarchy.Hierarchy, logger *slog.Logger) *Policy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Policy{h: h, logger: logger}
}

// Apply evicts the state abandoned by tr from store.
//
// Abandoned keyed pages lose the slot of the entity they were scoped to;
// when that entity is unknown every slot of that page goes. Abandoned list
// pages are reset. A sibling switch additionally resets both top-level pages
// and drops every keyed slot below the page being left.
func (p *Policy) Apply(store Evictor, tr Transition) Outcome {
	var out Outcome
	if tr.NoOp {
		return out
	}

	for i, node := range tr.Abandoned {
		if p.h.IsKeyed(node) {
			var id types.EntityID
			if i < len(tr.AbandonedEntities) {
				id = tr.AbandonedEntities[i]
			}
			out.Keyed += evictKeyed(store, node, id)
			continue
		}
		if store.Evict(node) {
			out.Lists = append(out.Lists, node)
		}
	}

	if sw := tr.SiblingSwitch; sw != nil {
		for _, page := range []types.PageKey{sw.From, sw.To} {
			if store.Evict(page) {
				out.Lists = append(out.Lists, page)
			}
		}
		for _, node := range p.h.Descendants(sw.From) {
			if p.h.IsKeyed(node) {
				out.Keyed += store.EvictAllKeyed(node)
			} else if store.Evict(node) {
				out.Lists = append(out.Lists, node)
			}
		}
	}

	if out.Changed() {
		p.logger.Debug("evicted page state",
			"page", tr.Page,
			"lists", out.Lists,
			"keyed", out.Keyed,
			"sibling_switch", tr.SiblingSwitch != nil,
		)
	}
	return out
}

func evictKeyed(store Evictor, node types.PageKey, id types.EntityID) int {
	if id == "" {
		return store.EvictAllKeyed(node)
	}
	if store.EvictKeyed(node, id) {
		return 1
	}
	return 0
}
