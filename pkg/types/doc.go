// Package types defines the page-state entity types, partial-update patches,
// the durable Medium interface, configuration, and standard errors for the
// tradestate page-state cache.
//
// Page components only ever see copies of these values; the cache engine in
// package pagecache owns the live containers.
package types
