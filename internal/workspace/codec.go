package workspace

import (
	"encoding/json"
	"fmt"

	"github.com/minicortex/core/internal/ndarray"
)

// encodeValue marshals a cell value (bool, int64/float64, string, or
// *ndarray.Array) to its raw wire form. ndarray.Array's own
// MarshalJSON already produces the tagged {"__array__":true,...} shape.
func encodeValue(v any) (json.RawMessage, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("workspace: encode value: %w", err)
	}
	return json.RawMessage(b), nil
}

func encodeValues(m map[string]any) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		raw, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = raw
	}
	return out, nil
}

// decodeValue reconstructs a cell value from its raw wire form. A
// value is only treated as a numeric array if it decodes as a JSON
// object carrying the "__array__" marker; everything else decodes as a
// plain Go value (bool, float64, string, or a nested slice/map for
// values the wire contract doesn't otherwise tag).
func decodeValue(raw json.RawMessage) (any, error) {
	var probe arrayMarkerProbe
	if err := json.Unmarshal(raw, &probe); err == nil && probe.Marker {
		var arr ndarray.Array
		if err := json.Unmarshal(raw, &arr); err != nil {
			return nil, fmt.Errorf("workspace: decode array: %w", err)
		}
		return &arr, nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("workspace: decode value: %w", err)
	}
	return v, nil
}

func decodeValues(m map[string]json.RawMessage) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, raw := range m {
		v, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}
