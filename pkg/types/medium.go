package types

import "errors"

// Slot names in the durable medium. Each slot is rewritten in full on every
// persist of the container it mirrors.
const (
	SlotPageState      = "pageState"
	SlotContractDrafts = "contractDrafts"
)

// Medium is a durable key-value store addressed by slot name. The
// persistence bridge is its only caller.
type Medium interface {
	// Attach opens the medium described by config. Returns ErrAlreadyAttached
	// if called while attached.
	Attach(config Config) error

	// Detach releases the medium. Idempotent. After Detach, slot operations
	// return ErrMediumDetached.
	Detach() error

	// ReadSlot returns the bytes last written to slot.
	// Returns ErrSlotNotFound if the slot was never written.
	ReadSlot(slot string) ([]byte, error)

	// WriteSlot replaces the contents of slot with data durably before
	// returning.
	WriteSlot(slot string, data []byte) error
}

// Medium lifecycle and slot errors.
var (
	ErrMediumDetached  = errors.New("medium is detached")
	ErrAlreadyAttached = errors.New("medium is already attached")
	ErrSlotNotFound    = errors.New("slot not found")
	ErrInvalidSlot     = errors.New("invalid slot name")
)
