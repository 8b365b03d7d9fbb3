// Package navigation tracks the current drill-down path and decides which
// cached page state a navigation event abandons.
//
// Tracker computes transitions; Policy applies them to an Evictor. Neither
// touches drafts: the Policy is never handed the draft container.
package navigation
