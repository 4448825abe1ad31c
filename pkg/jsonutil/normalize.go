// Package jsonutil provides canonical value normalization so that sampled
// database values survive a JSON round trip unchanged.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Normalize deep-converts v into the canonical serialization-safe domain:
// nil, string, bool, json.Number, []any, and map[string]any. Numeric values
// become json.Number so that encoding and later decoding with UseNumber
// reproduces the exact same value. Anything outside the domain falls back to
// its string representation, recursively for nested structures.
func Normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return val
	case bool:
		return val
	case json.Number:
		return val
	case []byte:
		return string(val)
	case int:
		return json.Number(strconv.FormatInt(int64(val), 10))
	case int32:
		return json.Number(strconv.FormatInt(int64(val), 10))
	case int64:
		return json.Number(strconv.FormatInt(val, 10))
	case uint64:
		return json.Number(strconv.FormatUint(val, 10))
	case float32:
		return json.Number(strconv.FormatFloat(float64(val), 'g', -1, 32))
	case float64:
		return json.Number(strconv.FormatFloat(val, 'g', -1, 64))
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	default:
		return fmt.Sprint(val)
	}
}

// NormalizeRow normalizes every value of a sampled row in place-safe fashion,
// returning a fresh map.
func NormalizeRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for col, val := range row {
		out[col] = Normalize(val)
	}
	return out
}

// DisplayString renders a normalized value for agent-facing output.
// nil renders as "NULL"; nested structures are flattened to JSON text.
func DisplayString(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case []any, map[string]any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}
