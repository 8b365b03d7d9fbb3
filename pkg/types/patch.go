// Typed partial updates for the page-state variants. A nil or unset field
// leaves the stored field alone; a set field replaces it (shallow merge).
package types

import "time"

// ListPatch is a partial update of a ListPageState.
type ListPatch struct {
	SearchTerm    *string        `json:"searchTerm,omitempty"`
	Filters       map[string]any `json:"filters,omitempty"`
	SelectedItems []string       `json:"selectedItems,omitempty"`
	SortOrder     *string        `json:"sortOrder,omitempty"`
	CurrentPage   *int           `json:"currentPage,omitempty"`
	PageSize      *int           `json:"pageSize,omitempty"`
	CachedRows    []Record       `json:"cachedRows,omitempty"`
}

// WithSearchTerm sets the search box contents.
func (p ListPatch) WithSearchTerm(term string) ListPatch {
	p.SearchTerm = &term
	return p
}

// WithFilters replaces the filter map.
func (p ListPatch) WithFilters(filters map[string]any) ListPatch {
	if filters == nil {
		filters = map[string]any{}
	}
	p.Filters = filters
	return p
}

// WithSelection replaces the selected item set. Calling it with no ids
// clears the selection.
func (p ListPatch) WithSelection(ids ...string) ListPatch {
	p.SelectedItems = append([]string{}, ids...)
	return p
}

// WithSortOrder sets the sort order.
func (p ListPatch) WithSortOrder(order string) ListPatch {
	p.SortOrder = &order
	return p
}

// WithPage sets the current page number.
func (p ListPatch) WithPage(page int) ListPatch {
	p.CurrentPage = &page
	return p
}

// WithPageSize sets the page size.
func (p ListPatch) WithPageSize(size int) ListPatch {
	p.PageSize = &size
	return p
}

// WithRows replaces the cached rows.
func (p ListPatch) WithRows(rows []Record) ListPatch {
	if rows == nil {
		rows = []Record{}
	}
	p.CachedRows = rows
	return p
}

// Empty reports whether the patch changes nothing.
func (p ListPatch) Empty() bool {
	return p.SearchTerm == nil && p.Filters == nil && p.SelectedItems == nil &&
		p.SortOrder == nil && p.CurrentPage == nil && p.PageSize == nil && p.CachedRows == nil
}

// Apply returns s with the patch merged in. Page numbers below 1 and
// non-positive page sizes fall back to the defaults.
func (p ListPatch) Apply(s ListPageState) ListPageState {
	s = s.Clone()
	if p.SearchTerm != nil {
		s.SearchTerm = *p.SearchTerm
	}
	if p.Filters != nil {
		s.Filters = cloneMap(p.Filters)
	}
	if p.SelectedItems != nil {
		s.SelectedItems = normalizeSet(p.SelectedItems)
	}
	if p.SortOrder != nil {
		s.SortOrder = *p.SortOrder
	}
	if p.CurrentPage != nil {
		s.CurrentPage = *p.CurrentPage
		if s.CurrentPage < 1 {
			s.CurrentPage = DefaultCurrentPage
		}
	}
	if p.PageSize != nil {
		s.PageSize = *p.PageSize
		if s.PageSize < 1 {
			s.PageSize = DefaultPageSize
		}
	}
	if p.CachedRows != nil {
		s.CachedRows = cloneRecords(p.CachedRows)
	}
	return s
}

// DetailPatch is a partial update of a DetailPageState.
type DetailPatch struct {
	ActiveTab        *string    `json:"activeTab,omitempty"`
	ExpandedSections []string   `json:"expandedSections,omitempty"`
	CachedRecord     Record     `json:"cachedRecord,omitempty"`
	LastRefreshedAt  *time.Time `json:"lastRefreshedAt,omitempty"`
}

// WithActiveTab sets the active tab.
func (p DetailPatch) WithActiveTab(tab string) DetailPatch {
	p.ActiveTab = &tab
	return p
}

// WithExpanded replaces the set of expanded sections.
func (p DetailPatch) WithExpanded(sections ...string) DetailPatch {
	p.ExpandedSections = append([]string{}, sections...)
	return p
}

// WithRecord caches a freshly fetched record and stamps when it was fetched.
// The stamp is stored in UTC without its monotonic reading.
func (p DetailPatch) WithRecord(rec Record, at time.Time) DetailPatch {
	p.CachedRecord = rec
	p.LastRefreshedAt = &at
	return p
}

// Empty reports whether the patch changes nothing.
func (p DetailPatch) Empty() bool {
	return p.ActiveTab == nil && p.ExpandedSections == nil && p.CachedRecord == nil && p.LastRefreshedAt == nil
}

// Apply returns s with the patch merged in.
func (p DetailPatch) Apply(s DetailPageState) DetailPageState {
	s = s.Clone()
	if p.ActiveTab != nil {
		s.ActiveTab = *p.ActiveTab
	}
	if p.ExpandedSections != nil {
		s.ExpandedSections = normalizeSet(p.ExpandedSections)
	}
	if p.CachedRecord != nil {
		s.CachedRecord = p.CachedRecord.Clone()
	}
	if p.LastRefreshedAt != nil {
		at := p.LastRefreshedAt.Round(0).UTC()
		s.LastRefreshedAt = &at
	}
	return s
}

// SubResourcePatch is a partial update of a SubResourceFormState.
//
// FormData replaces the whole form; FormFields is merged into the form with
// MergeRecord so a single nested field can be updated without restating the
// rest. When both are set, FormData is applied first.
type SubResourcePatch struct {
	FormData             map[string]any `json:"formData,omitempty"`
	FormFields           Record         `json:"formFields,omitempty"`
	Selections           map[string]any `json:"selections,omitempty"`
	ParentRecordSnapshot Record         `json:"parentRecordSnapshot,omitempty"`
	RelatedRows          []Record       `json:"relatedRows,omitempty"`
}

// WithFormData replaces the whole form data map.
func (p SubResourcePatch) WithFormData(data map[string]any) SubResourcePatch {
	if data == nil {
		data = map[string]any{}
	}
	p.FormData = data
	return p
}

// WithFormField sets one top-level form field. Object values are merged into
// the existing field; a nil value removes the field.
func (p SubResourcePatch) WithFormField(key string, value any) SubResourcePatch {
	fields := p.FormFields.Clone()
	if fields == nil {
		fields = Record{}
	}
	fields[key] = value
	p.FormFields = fields
	return p
}

// WithSelections replaces the selections map.
func (p SubResourcePatch) WithSelections(sel map[string]any) SubResourcePatch {
	if sel == nil {
		sel = map[string]any{}
	}
	p.Selections = sel
	return p
}

// WithParent snapshots the parent record the form was opened from.
func (p SubResourcePatch) WithParent(rec Record) SubResourcePatch {
	p.ParentRecordSnapshot = rec
	return p
}

// WithRelatedRows replaces the related rows.
func (p SubResourcePatch) WithRelatedRows(rows []Record) SubResourcePatch {
	if rows == nil {
		rows = []Record{}
	}
	p.RelatedRows = rows
	return p
}

// Empty reports whether the patch changes nothing.
func (p SubResourcePatch) Empty() bool {
	return p.FormData == nil && p.FormFields == nil && p.Selections == nil &&
		p.ParentRecordSnapshot == nil && p.RelatedRows == nil
}

// Apply returns s with the patch merged in.
func (p SubResourcePatch) Apply(s SubResourceFormState) SubResourceFormState {
	s = s.Clone()
	if p.FormData != nil {
		s.FormData = cloneMap(p.FormData)
	}
	if p.FormFields != nil {
		s.FormData = map[string]any(MergeRecord(Record(s.FormData), p.FormFields))
	}
	if p.Selections != nil {
		s.Selections = cloneMap(p.Selections)
	}
	if p.ParentRecordSnapshot != nil {
		s.ParentRecordSnapshot = p.ParentRecordSnapshot.Clone()
	}
	if p.RelatedRows != nil {
		s.RelatedRows = cloneRecords(p.RelatedRows)
	}
	return s
}
