// Package state holds the in-memory page-state containers: Store for list,
// detail and sub-resource page state, and Drafts for in-progress entity forms.
//
// Neither container persists itself or knows about navigation. Every getter
// returns a deep copy; every mutator reports whether the container changed so
// the caller can decide whether a write-through is needed.
package state
