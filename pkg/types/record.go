// Opaque business record payloads and the typed merge used for partial
// updates of nested form data.
package types

import "encoding/json"

// Record is an opaque business record as handed to the cache by page
// components (a contract, a buyer, a schedule row). The cache never
// interprets its fields; it stores, copies, merges and serializes them.
type Record map[string]any

// Clone returns a deep copy of r in normalized form (see Normalize), so the
// result shares no mutable state with r and survives a trip through the
// medium unchanged. A nil Record clones to nil.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = cloneValue(v)
	}
	return out
}

// MergeRecord returns base with patch applied. The merge contract is:
//
//   - a key whose patch value is nil is deleted from the result
//   - when both values are objects (Record or map[string]any) they are merged
//     recursively and the merged object is stored as a map[string]any
//   - arrays in the patch replace arrays in base wholesale
//   - any other patch value overwrites the base value
//
// Neither argument is modified.
func MergeRecord(base, patch Record) Record {
	out := base.Clone()
	if out == nil {
		out = Record{}
	}
	for k, pv := range patch {
		if pv == nil {
			delete(out, k)
			continue
		}
		pObj, pIsObj := asObject(pv)
		bObj, bIsObj := asObject(out[k])
		if pIsObj && bIsObj {
			out[k] = map[string]any(MergeRecord(bObj, pObj))
			continue
		}
		out[k] = cloneValue(pv)
	}
	return out
}

// asObject reports whether v is a JSON-style object and returns it as a Record.
func asObject(v any) (Record, bool) {
	switch o := v.(type) {
	case Record:
		return o, true
	case map[string]any:
		return Record(o), true
	default:
		return nil, false
	}
}

// Normalize returns a deep copy of v in the shape it has after a JSON
// round trip: numbers become float64, nested Records and maps become
// map[string]any, slices become []any, and other values (time.Time included)
// take their JSON form. Values that cannot be encoded are returned as is.
func Normalize(v any) any {
	return cloneValue(v)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case nil, bool, string, float64:
		return t
	case int:
		return float64(t)
	case int8:
		return float64(t)
	case int16:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint:
		return float64(t)
	case uint8:
		return float64(t)
	case uint16:
		return float64(t)
	case uint32:
		return float64(t)
	case uint64:
		return float64(t)
	case Record:
		if t == nil {
			return nil
		}
		return map[string]any(t.Clone())
	case map[string]any:
		if t == nil {
			return nil
		}
		return map[string]any(Record(t).Clone())
	case []any:
		if t == nil {
			return nil
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []Record:
		if t == nil {
			return nil
		}
		out := make([]any, len(t))
		for i, r := range t {
			out[i] = cloneValue(r)
		}
		return out
	case []string:
		if t == nil {
			return nil
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = e
		}
		return out
	default:
		return jsonValue(v)
	}
}

func jsonValue(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func cloneRecords(rows []Record) []Record {
	if rows == nil {
		return nil
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return map[string]any(Record(m).Clone())
}
