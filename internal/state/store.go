package state

import "github.com/mesh-intelligence/tradestate/pkg/types"

// Store caches page state. List pages have one slot per page key; detail and
// sub-resource pages have one slot per (page key, entity id).
type Store struct {
	lists   map[types.PageKey]types.ListPageState
	details map[types.PageKey]map[types.EntityID]types.DetailPageState
	forms   map[types.PageKey]map[types.EntityID]types.SubResourceFormState
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		lists:   make(map[types.PageKey]types.ListPageState),
		details: make(map[types.PageKey]map[types.EntityID]types.DetailPageState),
		forms:   make(map[types.PageKey]map[types.EntityID]types.SubResourceFormState),
	}
}

// ListState returns the cached state of a list page, or a fresh default.
func (s *Store) ListState(page types.PageKey) types.ListPageState {
	if st, ok := s.lists[page]; ok {
		return st.Clone()
	}
	return types.DefaultListPageState()
}

// UpdateListState merges patch into the page's state, creating it from
// defaults first if absent. It returns the merged state and whether the
// store changed; an empty patch changes nothing.
func (s *Store) UpdateListState(page types.PageKey, patch types.ListPatch) (types.ListPageState, bool) {
	if patch.Empty() {
		return s.ListState(page), false
	}
	merged := patch.Apply(s.ListState(page))
	s.lists[page] = merged
	return merged.Clone(), true
}

// DetailState returns the cached detail state of one entity, or a fresh default.
func (s *Store) DetailState(page types.PageKey, id types.EntityID) types.DetailPageState {
	if st, ok := s.details[page][id]; ok {
		return st.Clone()
	}
	return types.DefaultDetailPageState()
}

// UpdateDetailState merges patch into one entity's detail state,
// auto-vivifying the slot.
func (s *Store) UpdateDetailState(page types.PageKey, id types.EntityID, patch types.DetailPatch) (types.DetailPageState, bool) {
	if patch.Empty() {
		return s.DetailState(page, id), false
	}
	merged := patch.Apply(s.DetailState(page, id))
	slots, ok := s.details[page]
	if !ok {
		slots = make(map[types.EntityID]types.DetailPageState)
		s.details[page] = slots
	}
	slots[id] = merged
	return merged.Clone(), true
}

// FormState returns the cached sub-resource form state of one entity, or a
// fresh default.
func (s *Store) FormState(page types.PageKey, id types.EntityID) types.SubResourceFormState {
	if st, ok := s.forms[page][id]; ok {
		return st.Clone()
	}
	return types.DefaultSubResourceFormState()
}

// UpdateFormState merges patch into one entity's sub-resource form state,
// auto-vivifying the slot.
func (s *Store) UpdateFormState(page types.PageKey, id types.EntityID, patch types.SubResourcePatch) (types.SubResourceFormState, bool) {
	if patch.Empty() {
		return s.FormState(page, id), false
	}
	merged := patch.Apply(s.FormState(page, id))
	slots, ok := s.forms[page]
	if !ok {
		slots = make(map[types.EntityID]types.SubResourceFormState)
		s.forms[page] = slots
	}
	slots[id] = merged
	return merged.Clone(), true
}

// KeyedState returns the state of a keyed page as the variant selected by
// kind: a SubResourceFormState for KindSubResource, a DetailPageState
// otherwise.
func (s *Store) KeyedState(page types.PageKey, kind types.PageKind, id types.EntityID) types.PageState {
	if kind == types.KindSubResource {
		return s.FormState(page, id)
	}
	return s.DetailState(page, id)
}

// Evict resets a list page to its defaults. It reports whether the page had
// cached state.
func (s *Store) Evict(page types.PageKey) bool {
	if _, ok := s.lists[page]; !ok {
		return false
	}
	delete(s.lists, page)
	return true
}

// EvictKeyed removes one entity's slot for page, in both the detail and the
// sub-resource containers. It reports whether a slot was removed.
func (s *Store) EvictKeyed(page types.PageKey, id types.EntityID) bool {
	removed := false
	if slots, ok := s.details[page]; ok {
		if _, ok := slots[id]; ok {
			delete(slots, id)
			removed = true
		}
		if len(slots) == 0 {
			delete(s.details, page)
		}
	}
	if slots, ok := s.forms[page]; ok {
		if _, ok := slots[id]; ok {
			delete(slots, id)
			removed = true
		}
		if len(slots) == 0 {
			delete(s.forms, page)
		}
	}
	return removed
}

// EvictAllKeyed removes every entity slot for page and returns how many
// slots were removed.
func (s *Store) EvictAllKeyed(page types.PageKey) int {
	n := len(s.details[page]) + len(s.forms[page])
	delete(s.details, page)
	delete(s.forms, page)
	return n
}

// Size returns the number of cached list pages and keyed slots.
func (s *Store) Size() (lists, keyed int) {
	for _, slots := range s.details {
		keyed += len(slots)
	}
	for _, slots := range s.forms {
		keyed += len(slots)
	}
	return len(s.lists), keyed
}
