// Cached page-state variants. Each page kind has exactly one state shape;
// PageState is the tagged union over them.
package types

import (
	"sort"
	"time"
)

// Default values for a fresh ListPageState and DetailPageState.
const (
	DefaultCurrentPage = 1
	DefaultPageSize    = 25
	DefaultActiveTab   = "general"
)

// PageState is implemented by ListPageState, DetailPageState and
// SubResourceFormState. Kind reports which variant the value is.
type PageState interface {
	Kind() PageKind
}

// ListPageState is the remembered UI state of a list page: search box,
// filters, selection, sort, pagination and the last fetched rows.
type ListPageState struct {
	SearchTerm    string         `json:"searchTerm"`
	Filters       map[string]any `json:"filters"`
	SelectedItems []string       `json:"selectedItems"`
	SortOrder     string         `json:"sortOrder"`
	CurrentPage   int            `json:"currentPage"`
	PageSize      int            `json:"pageSize"`
	CachedRows    []Record       `json:"cachedRows"`
}

// DefaultListPageState returns the state a list page starts from.
func DefaultListPageState() ListPageState {
	return ListPageState{
		Filters:       map[string]any{},
		SelectedItems: []string{},
		CurrentPage:   DefaultCurrentPage,
		PageSize:      DefaultPageSize,
		CachedRows:    []Record{},
	}
}

// Kind returns KindList.
func (ListPageState) Kind() PageKind { return KindList }

// Clone returns a deep copy of s.
func (s ListPageState) Clone() ListPageState {
	s.Filters = cloneMap(s.Filters)
	s.SelectedItems = cloneStrings(s.SelectedItems)
	s.CachedRows = cloneRecords(s.CachedRows)
	return s
}

// DetailPageState is the remembered UI state of one entity's detail page.
type DetailPageState struct {
	ActiveTab        string     `json:"activeTab"`
	ExpandedSections []string   `json:"expandedSections"`
	CachedRecord     Record     `json:"cachedRecord"`
	LastRefreshedAt  *time.Time `json:"lastRefreshedAt"`
}

// DefaultDetailPageState returns the state a detail page starts from.
func DefaultDetailPageState() DetailPageState {
	return DetailPageState{
		ActiveTab:        DefaultActiveTab,
		ExpandedSections: []string{},
	}
}

// Kind returns KindDetail.
func (DetailPageState) Kind() PageKind { return KindDetail }

// Clone returns a deep copy of s.
func (s DetailPageState) Clone() DetailPageState {
	s.ExpandedSections = cloneStrings(s.ExpandedSections)
	s.CachedRecord = s.CachedRecord.Clone()
	if s.LastRefreshedAt != nil {
		at := *s.LastRefreshedAt
		s.LastRefreshedAt = &at
	}
	return s
}

// SubResourceFormState holds an in-progress multi-step child-record flow
// (creating or editing a sub-contract) nested under a detail page.
type SubResourceFormState struct {
	FormData             map[string]any `json:"formData"`
	Selections           map[string]any `json:"selections"`
	ParentRecordSnapshot Record         `json:"parentRecordSnapshot"`
	RelatedRows          []Record       `json:"relatedRows"`
}

// DefaultSubResourceFormState returns the state a sub-resource form starts from.
func DefaultSubResourceFormState() SubResourceFormState {
	return SubResourceFormState{
		FormData:   map[string]any{},
		Selections: map[string]any{},
	}
}

// Kind returns KindSubResource.
func (SubResourceFormState) Kind() PageKind { return KindSubResource }

// Clone returns a deep copy of s.
func (s SubResourceFormState) Clone() SubResourceFormState {
	s.FormData = cloneMap(s.FormData)
	s.Selections = cloneMap(s.Selections)
	s.ParentRecordSnapshot = s.ParentRecordSnapshot.Clone()
	s.RelatedRows = cloneRecords(s.RelatedRows)
	return s
}

// normalizeSet sorts and de-duplicates ids so set-valued fields compare and
// serialize deterministically. The result is never nil.
func normalizeSet(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
