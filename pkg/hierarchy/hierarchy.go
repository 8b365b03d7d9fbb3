// Package hierarchy defines the static navigation hierarchy: for every page,
// its ordered ancestor chain, its kind, and whether it belongs to the closed
// set of independent top-level pages.
//
// All lookups are total. A page key that is not part of the hierarchy is
// treated as a top-level list page with no ancestors.
package hierarchy

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mesh-intelligence/tradestate/pkg/types"
)

// Construction errors.
var (
	ErrEmptyKey      = errors.New("page key must not be empty")
	ErrDuplicatePage = errors.New("duplicate page")
	ErrUnknownParent = errors.New("unknown parent page")
	ErrCycle         = errors.New("ancestor chain has a cycle")
	ErrInvalidKind   = errors.New("invalid page kind")
	ErrNestedSibling = errors.New("independent pages must be top-level")
)

// Page declares one node of the hierarchy.
type Page struct {
	Key    types.PageKey
	Parent types.PageKey // empty for top-level pages
	Kind   types.PageKind

	// Independent marks a top-level page whose list state is reset whenever
	// the user switches to or from another independent page. Membership is
	// explicit; new top-level pages do not join the set implicitly.
	Independent bool
}

// Hierarchy is an immutable page map. The zero value is an empty hierarchy in
// which every page is an unknown top-level page.
type Hierarchy struct {
	pages     map[types.PageKey]Page
	ancestors map[types.PageKey][]types.PageKey
	children  map[types.PageKey][]types.PageKey
	order     []types.PageKey
}

// New builds a Hierarchy from page declarations. Parents may be declared after
// their children. A Page with an empty Kind defaults to KindList.
func New(pages ...Page) (*Hierarchy, error) {
	h := &Hierarchy{
		pages:     make(map[types.PageKey]Page, len(pages)),
		ancestors: make(map[types.PageKey][]types.PageKey, len(pages)),
		children:  make(map[types.PageKey][]types.PageKey),
	}

	for _, p := range pages {
		if p.Key == "" {
			return nil, ErrEmptyKey
		}
		if _, dup := h.pages[p.Key]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePage, p.Key)
		}
		if p.Kind == "" {
			p.Kind = types.KindList
		}
		if !p.Kind.Valid() {
			return nil, fmt.Errorf("%w: %s has kind %q", ErrInvalidKind, p.Key, p.Kind)
		}
		if p.Independent && p.Parent != "" {
			return nil, fmt.Errorf("%w: %s", ErrNestedSibling, p.Key)
		}
		h.pages[p.Key] = p
		h.order = append(h.order, p.Key)
	}

	for _, key := range h.order {
		chain, err := h.resolve(key)
		if err != nil {
			return nil, err
		}
		h.ancestors[key] = chain
		if parent := h.pages[key].Parent; parent != "" {
			h.children[parent] = append(h.children[parent], key)
		}
	}
	return h, nil
}

// resolve walks parent links from key up to the root and returns the chain
// ordered root first.
func (h *Hierarchy) resolve(key types.PageKey) ([]types.PageKey, error) {
	var chain []types.PageKey
	seen := map[types.PageKey]bool{key: true}
	for cur := h.pages[key].Parent; cur != ""; {
		if seen[cur] {
			return nil, fmt.Errorf("%w: through %s", ErrCycle, key)
		}
		seen[cur] = true
		parent, ok := h.pages[cur]
		if !ok {
			return nil, fmt.Errorf("%w: %s (parent of a page under %s)", ErrUnknownParent, cur, key)
		}
		chain = append(chain, cur)
		cur = parent.Parent
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain, nil
}

// Known reports whether page is declared in the hierarchy.
func (h *Hierarchy) Known(page types.PageKey) bool {
	if h == nil {
		return false
	}
	_, ok := h.pages[page]
	return ok
}

// Ancestors returns the ancestor chain of page, root first. The result is a
// fresh slice; it is empty for top-level and unknown pages.
func (h *Hierarchy) Ancestors(page types.PageKey) []types.PageKey {
	if h == nil {
		return []types.PageKey{}
	}
	return append([]types.PageKey{}, h.ancestors[page]...)
}

// Level returns the depth of page: the number of its ancestors.
func (h *Hierarchy) Level(page types.PageKey) int {
	if h == nil {
		return 0
	}
	return len(h.ancestors[page])
}

// Path returns Ancestors(page) with page appended.
func (h *Hierarchy) Path(page types.PageKey) []types.PageKey {
	return append(h.Ancestors(page), page)
}

// IsAncestor reports whether candidate appears in the ancestor chain of page.
func (h *Hierarchy) IsAncestor(candidate, page types.PageKey) bool {
	if h == nil {
		return false
	}
	for _, a := range h.ancestors[page] {
		if a == candidate {
			return true
		}
	}
	return false
}

// Kind returns the declared kind of page; unknown pages are list pages.
func (h *Hierarchy) Kind(page types.PageKey) types.PageKind {
	if h == nil {
		return types.KindList
	}
	if p, ok := h.pages[page]; ok {
		return p.Kind
	}
	return types.KindList
}

// IsKeyed reports whether page stores state per entity.
func (h *Hierarchy) IsKeyed(page types.PageKey) bool {
	return h.Kind(page).Keyed()
}

// IsIndependentTop reports whether page is in the independent top-level set.
func (h *Hierarchy) IsIndependentTop(page types.PageKey) bool {
	if h == nil {
		return false
	}
	return h.pages[page].Independent
}

// Descendants returns every page below page, breadth first.
func (h *Hierarchy) Descendants(page types.PageKey) []types.PageKey {
	if h == nil {
		return nil
	}
	var out []types.PageKey
	queue := append([]types.PageKey{}, h.children[page]...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		out = append(out, cur)
		queue = append(queue, h.children[cur]...)
	}
	return out
}

// Pages returns every declared page in declaration order.
func (h *Hierarchy) Pages() []Page {
	if h == nil {
		return nil
	}
	out := make([]Page, 0, len(h.order))
	for _, key := range h.order {
		out = append(out, h.pages[key])
	}
	return out
}

// IndependentTops returns the independent top-level set, sorted.
func (h *Hierarchy) IndependentTops() []types.PageKey {
	var out []types.PageKey
	for _, p := range h.Pages() {
		if p.Independent {
			out = append(out, p.Key)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
