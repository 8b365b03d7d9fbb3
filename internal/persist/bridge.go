package persist

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/tradestate/internal/metrics"
	"github.com/mesh-intelligence/tradestate/internal/state"
	"github.com/mesh-intelligence/tradestate/pkg/hierarchy"
	"github.com/mesh-intelligence/tradestate/pkg/types"
)

// Bridge serializes the state containers to a Medium and hydrates them from
// it. It is the only component that touches the medium.
//
// The first failed medium write switches the bridge to in-memory-only mode
// for the rest of the session: later persists are skipped and return
// ErrDegraded.
type Bridge struct {
	medium   types.Medium
	codec    codec
	logger   *slog.Logger
	degraded bool
}

// NewBridge returns a Bridge over an attached medium. A nil logger uses
// slog.Default().
func NewBridge(medium types.Medium, h *hierarchy.Hierarchy, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{
		medium: medium,
		codec:  codec{h: h, logger: logger},
		logger: logger,
	}
}

// Degraded reports whether the bridge stopped writing after a medium failure.
func (b *Bridge) Degraded() bool {
	return b.degraded
}

// PersistPageState rewrites the pageState slot from store.
func (b *Bridge) PersistPageState(store *state.Store) error {
	if b.degraded {
		metrics.Persists.WithLabelValues(types.SlotPageState, metrics.ResultSkipped).Inc()
		return ErrDegraded
	}
	data, err := b.codec.encodePageState(store.Snapshot())
	if err != nil {
		metrics.Persists.WithLabelValues(types.SlotPageState, metrics.ResultError).Inc()
		b.logger.Error("encode page state", "error", err)
		return fmt.Errorf("encode %s: %w", types.SlotPageState, err)
	}
	return b.write(types.SlotPageState, data)
}

// PersistDrafts rewrites the contractDrafts slot from drafts.
func (b *Bridge) PersistDrafts(drafts *state.Drafts) error {
	if b.degraded {
		metrics.Persists.WithLabelValues(types.SlotContractDrafts, metrics.ResultSkipped).Inc()
		return ErrDegraded
	}
	data, err := b.codec.encodeDrafts(drafts.Snapshot())
	if err != nil {
		metrics.Persists.WithLabelValues(types.SlotContractDrafts, metrics.ResultError).Inc()
		b.logger.Error("encode drafts", "error", err)
		return fmt.Errorf("encode %s: %w", types.SlotContractDrafts, err)
	}
	return b.write(types.SlotContractDrafts, data)
}

// Persist rewrites both slots. Both writes are attempted; the first error is
// returned.
func (b *Bridge) Persist(store *state.Store, drafts *state.Drafts) error {
	errState := b.PersistPageState(store)
	errDrafts := b.PersistDrafts(drafts)
	if errState != nil {
		return errState
	}
	return errDrafts
}

func (b *Bridge) write(slot string, data []byte) error {
	if err := b.medium.WriteSlot(slot, data); err != nil {
		metrics.Persists.WithLabelValues(slot, metrics.ResultError).Inc()
		b.degraded = true
		b.logger.Error("persist failed, continuing in memory only",
			"slot", slot,
			"error", err,
		)
		return fmt.Errorf("write %s: %w", slot, err)
	}
	metrics.Persists.WithLabelValues(slot, metrics.ResultOK).Inc()
	return nil
}

// Hydrate reads both slots and rebuilds the containers. Each slot is decoded
// independently: a missing, empty or corrupt slot is logged and replaced by
// its defaults without affecting the other slot. Hydrate never fails.
func (b *Bridge) Hydrate() (*state.Store, *state.Drafts) {
	store := state.NewStore()
	if data, err := b.read(types.SlotPageState); err == nil {
		snap, err := b.codec.decodePageState(data)
		if err != nil {
			b.fallback(&HydrationError{Slot: types.SlotPageState, Err: err})
		} else {
			store = state.StoreFromSnapshot(snap)
			metrics.Hydrations.WithLabelValues(types.SlotPageState, metrics.ResultHydrated).Inc()
		}
	}

	drafts := state.NewDrafts()
	if data, err := b.read(types.SlotContractDrafts); err == nil {
		slots, err := b.codec.decodeDrafts(data)
		if err != nil {
			b.fallback(&HydrationError{Slot: types.SlotContractDrafts, Err: err})
		} else {
			drafts = state.DraftsFromSnapshot(slots)
			metrics.Hydrations.WithLabelValues(types.SlotContractDrafts, metrics.ResultHydrated).Inc()
		}
	}

	lists, keyed := store.Size()
	b.logger.Debug("hydrated page state", "lists", lists, "keyed", keyed)
	return store, drafts
}

// read fetches a slot. A missing slot is normal on first start; any read
// failure is reported through fallback and returned so the caller falls back.
func (b *Bridge) read(slot string) ([]byte, error) {
	data, err := b.medium.ReadSlot(slot)
	if errors.Is(err, types.ErrSlotNotFound) {
		metrics.Hydrations.WithLabelValues(slot, metrics.ResultMissing).Inc()
		b.logger.Debug("slot not found, using defaults", "slot", slot)
		return nil, err
	}
	if err != nil {
		b.fallback(&HydrationError{Slot: slot, Err: err})
		return nil, err
	}
	if len(data) == 0 {
		err := &HydrationError{Slot: slot, Err: ErrSlotEmpty}
		b.fallback(err)
		return nil, err
	}
	return data, nil
}

func (b *Bridge) fallback(err *HydrationError) {
	metrics.Hydrations.WithLabelValues(err.Slot, metrics.ResultCorrupt).Inc()
	b.logger.Warn("slot unreadable, using defaults", "slot", err.Slot, "error", err.Err)
}
