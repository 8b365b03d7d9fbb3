package state

import "github.com/mesh-intelligence/tradestate/pkg/types"

// Drafts caches in-progress entity forms, one slot per form type. A slot
// holds either a record or nil (cleared). Drafts are never touched by
// navigation.
type Drafts struct {
	slots map[types.FormType]types.Record
}

// NewDrafts returns an empty Drafts.
func NewDrafts() *Drafts {
	return &Drafts{slots: make(map[types.FormType]types.Record)}
}

// DraftsFromSnapshot builds a Drafts holding a copy of slots.
func DraftsFromSnapshot(slots map[types.FormType]types.Record) *Drafts {
	d := NewDrafts()
	for ft, rec := range slots {
		d.slots[ft] = rec.Clone()
	}
	return d
}

// Get returns a copy of the draft for formType, or nil if there is none.
func (d *Drafts) Get(formType types.FormType) types.Record {
	return d.slots[formType].Clone()
}

// Update replaces the draft for formType with data (latest write wins). An
// empty data set does not create a draft that does not exist yet. It reports
// whether the container changed.
func (d *Drafts) Update(formType types.FormType, data types.Record) bool {
	if len(data) == 0 && d.slots[formType] == nil {
		return false
	}
	rec := data.Clone()
	if rec == nil {
		rec = types.Record{}
	}
	d.slots[formType] = rec
	return true
}

// Clear sets the draft slot for formType to nil. It reports whether a draft
// was present.
func (d *Drafts) Clear(formType types.FormType) bool {
	prev, ok := d.slots[formType]
	d.slots[formType] = nil
	return !ok || prev != nil
}

// Snapshot returns a deep copy of every slot, including cleared ones.
func (d *Drafts) Snapshot() map[types.FormType]types.Record {
	out := make(map[types.FormType]types.Record, len(d.slots))
	for ft, rec := range d.slots {
		out[ft] = rec.Clone()
	}
	return out
}
