// Package memstore implements an in-memory Medium. Slot contents survive
// Detach and a later Attach on the same value, which lets tests simulate a
// process restart without touching disk.
package memstore

import (
	"sync"

	"github.com/mesh-intelligence/tradestate/pkg/types"
)

// Medium is an in-memory types.Medium.
type Medium struct {
	mu       sync.RWMutex
	attached bool
	slots    map[string][]byte
}

// New returns a detached, empty Medium.
func New() *Medium {
	return &Medium{slots: make(map[string][]byte)}
}

// Attach marks the medium attached. The config is validated but otherwise
// ignored.
func (m *Medium) Attach(config types.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}
	m.attached = true
	return nil
}

// Detach marks the medium detached. Idempotent.
func (m *Medium) Detach() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attached = false
	return nil
}

// ReadSlot returns a copy of the slot's bytes.
func (m *Medium) ReadSlot(slot string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.attached {
		return nil, types.ErrMediumDetached
	}
	if slot == "" {
		return nil, types.ErrInvalidSlot
	}
	data, ok := m.slots[slot]
	if !ok {
		return nil, types.ErrSlotNotFound
	}
	return append([]byte(nil), data...), nil
}

// WriteSlot stores a copy of data under slot.
func (m *Medium) WriteSlot(slot string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.attached {
		return types.ErrMediumDetached
	}
	if slot == "" {
		return types.ErrInvalidSlot
	}
	m.slots[slot] = append([]byte(nil), data...)
	return nil
}

// Put stores raw bytes under slot regardless of attachment. Tests use it to
// plant corrupt slots.
func (m *Medium) Put(slot string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[slot] = append([]byte(nil), data...)
}
