// Package persist keeps the durable medium in sync with the in-memory
// page-state containers.
//
// The Bridge owns the slot format. pageState is a JSON object with one key per
// list page (a ListPageState) and one key per keyed page (an object from
// entity id to that page's state); the hierarchy decides which shape a key
// holds. contractDrafts is a JSON object from form type to record or null.
// Both slots are rewritten in full on every persist.
package persist
