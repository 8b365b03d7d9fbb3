package persist

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/tradestate/internal/state"
	"github.com/mesh-intelligence/tradestate/pkg/hierarchy"
	"github.com/mesh-intelligence/tradestate/pkg/types"
)

// codec converts containers to and from slot bytes. Page keys are routed by
// their kind in the hierarchy.
type codec struct {
	h      *hierarchy.Hierarchy
	logger *slog.Logger
}

// encodePageState serializes snap. State cached under a page whose hierarchy
// kind does not match its container is kept in memory only.
func (c codec) encodePageState(snap state.Snapshot) ([]byte, error) {
	out := make(map[string]any, len(snap.Lists)+len(snap.Details)+len(snap.Forms))
	for page, st := range snap.Lists {
		if c.h.Kind(page) != types.KindList {
			c.logger.Debug("list state under keyed page not persisted", "page", page)
			continue
		}
		out[string(page)] = st
	}
	for page, slots := range snap.Details {
		if c.h.Kind(page) != types.KindDetail {
			c.logger.Debug("detail state under non-detail page not persisted", "page", page)
			continue
		}
		out[string(page)] = slots
	}
	for page, slots := range snap.Forms {
		if c.h.Kind(page) != types.KindSubResource {
			c.logger.Debug("form state under non-form page not persisted", "page", page)
			continue
		}
		out[string(page)] = slots
	}
	return json.Marshal(out)
}

// decodePageState parses a pageState slot. A slot that is not a JSON object
// is an error; individual entries that do not parse are skipped.
func (c codec) decodePageState(data []byte) (state.Snapshot, error) {
	snap := state.Snapshot{
		Lists:   make(map[types.PageKey]types.ListPageState),
		Details: make(map[types.PageKey]map[types.EntityID]types.DetailPageState),
		Forms:   make(map[types.PageKey]map[types.EntityID]types.SubResourceFormState),
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return snap, fmt.Errorf("decode %s: %w", types.SlotPageState, err)
	}
	if raw == nil {
		return snap, fmt.Errorf("decode %s: %w", types.SlotPageState, ErrSlotEmpty)
	}

	for key, msg := range raw {
		page := types.PageKey(key)
		if !c.h.Known(page) {
			c.logger.Debug("hydrating unknown page as list page", "page", page)
		}
		switch c.h.Kind(page) {
		case types.KindDetail:
			slots, err := decodeKeyed(msg, types.DefaultDetailPageState)
			if err != nil {
				c.logger.Warn("skipping corrupt page entry", "page", page, "error", err)
				continue
			}
			snap.Details[page] = slots
		case types.KindSubResource:
			slots, err := decodeKeyed(msg, types.DefaultSubResourceFormState)
			if err != nil {
				c.logger.Warn("skipping corrupt page entry", "page", page, "error", err)
				continue
			}
			snap.Forms[page] = slots
		default:
			st := types.DefaultListPageState()
			if err := decodeEntry(msg, &st); err != nil {
				c.logger.Warn("skipping corrupt page entry", "page", page, "error", err)
				continue
			}
			snap.Lists[page] = st
		}
	}
	return snap, nil
}

// decodeKeyed parses an entity-id keyed map, decoding every entry on top of a
// fresh default so fields missing from the slot keep their defaults.
func decodeKeyed[S any](msg json.RawMessage, fresh func() S) (map[types.EntityID]S, error) {
	var raw map[types.EntityID]json.RawMessage
	if err := json.Unmarshal(msg, &raw); err != nil {
		return nil, err
	}
	out := make(map[types.EntityID]S, len(raw))
	for id, entry := range raw {
		st := fresh()
		if err := decodeEntry(entry, &st); err != nil {
			return nil, fmt.Errorf("entity %s: %w", id, err)
		}
		out[id] = st
	}
	return out, nil
}

// decodeEntry rejects null entries, which would otherwise leave dst at its
// defaults without signalling anything.
func decodeEntry(msg json.RawMessage, dst any) error {
	if string(msg) == "null" {
		return ErrSlotEmpty
	}
	return json.Unmarshal(msg, dst)
}

func (c codec) encodeDrafts(slots map[types.FormType]types.Record) ([]byte, error) {
	return json.Marshal(slots)
}

func (c codec) decodeDrafts(data []byte) (map[types.FormType]types.Record, error) {
	var slots map[types.FormType]types.Record
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("decode %s: %w", types.SlotContractDrafts, err)
	}
	if slots == nil {
		return nil, fmt.Errorf("decode %s: %w", types.SlotContractDrafts, ErrSlotEmpty)
	}
	return slots, nil
}
