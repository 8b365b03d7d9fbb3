package persist

import (
	"errors"
	"fmt"
)

// Persistence errors.
var (
	// ErrSlotEmpty is wrapped by HydrationError when a slot holds no bytes.
	ErrSlotEmpty = errors.New("slot is empty")

	// ErrDegraded is returned by persist calls after a medium write failed
	// and the bridge switched to in-memory-only operation.
	ErrDegraded = errors.New("persistence degraded to in-memory only")
)

// HydrationError reports a slot that could not be read or decoded at startup.
// Hydrate recovers from it locally by using the slot's defaults.
type HydrationError struct {
	Slot string
	Err  error
}

func (e *HydrationError) Error() string {
	return fmt.Sprintf("hydrate %s: %v", e.Slot, e.Err)
}

func (e *HydrationError) Unwrap() error {
	return e.Err
}
