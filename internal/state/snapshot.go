package state

import "github.com/mesh-intelligence/tradestate/pkg/types"

// Snapshot is a deep copy of a Store's contents, shaped for serialization.
type Snapshot struct {
	Lists   map[types.PageKey]types.ListPageState
	Details map[types.PageKey]map[types.EntityID]types.DetailPageState
	Forms   map[types.PageKey]map[types.EntityID]types.SubResourceFormState
}

// Snapshot returns a deep copy of the store's contents.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Lists:   make(map[types.PageKey]types.ListPageState, len(s.lists)),
		Details: make(map[types.PageKey]map[types.EntityID]types.DetailPageState, len(s.details)),
		Forms:   make(map[types.PageKey]map[types.EntityID]types.SubResourceFormState, len(s.forms)),
	}
	for page, st := range s.lists {
		snap.Lists[page] = st.Clone()
	}
	for page, slots := range s.details {
		cp := make(map[types.EntityID]types.DetailPageState, len(slots))
		for id, st := range slots {
			cp[id] = st.Clone()
		}
		snap.Details[page] = cp
	}
	for page, slots := range s.forms {
		cp := make(map[types.EntityID]types.SubResourceFormState, len(slots))
		for id, st := range slots {
			cp[id] = st.Clone()
		}
		snap.Forms[page] = cp
	}
	return snap
}

// StoreFromSnapshot builds a Store holding a copy of snap. Empty keyed maps
// are dropped.
func StoreFromSnapshot(snap Snapshot) *Store {
	s := NewStore()
	for page, st := range snap.Lists {
		s.lists[page] = st.Clone()
	}
	for page, slots := range snap.Details {
		if len(slots) == 0 {
			continue
		}
		cp := make(map[types.EntityID]types.DetailPageState, len(slots))
		for id, st := range slots {
			cp[id] = st.Clone()
		}
		s.details[page] = cp
	}
	for page, slots := range snap.Forms {
		if len(slots) == 0 {
			continue
		}
		cp := make(map[types.EntityID]types.SubResourceFormState, len(slots))
		for id, st := range slots {
			cp[id] = st.Clone()
		}
		s.forms[page] = cp
	}
	return s
}
