// Package identity normalizes the heterogeneous user-identifier fields found
// in upstream directory payloads into one canonical string key. The upstream
// sources are inconsistent about which alias carries the id ("id", "userId",
// "_id", ...) and about whether it arrives as a string or a number, so every
// identity comparison elsewhere in the codebase must route through Resolve
// rather than reading a raw id field.
package identity

import (
	"encoding/json"
	"math"
	"strconv"
)

// aliases is the fixed probe order. The first alias carrying a usable value
// wins; later aliases are ignored even if also populated.
var aliases = []string{"id", "userId", "userID", "UserId", "Id", "_id"}

// Resolve probes rec for a user identifier under the known aliases and
// returns it coerced to a canonical string. The second return is false when
// no alias holds a usable value.
func Resolve(rec map[string]any) (string, bool) {
	if rec == nil {
		return "", false
	}
	for _, key := range aliases {
		v, ok := rec[key]
		if !ok || v == nil {
			continue
		}
		if s, ok := Normalize(v); ok {
			return s, true
		}
	}
	return "", false
}

// Normalize coerces a raw identifier value to its canonical string form.
// Numeric values are rendered without a fractional part when integral, so
// 42, 42.0, json.Number("42"), and "42" all resolve to "42".
func Normalize(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", false
		}
		return t, true
	case json.Number:
		return normalizeNumeric(string(t))
	case float64:
		return formatFloat(t)
	case float32:
		return formatFloat(float64(t))
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	default:
		return "", false
	}
}

// normalizeNumeric collapses a decimal string like "42.0" to "42" so that
// string and numeric representations of the same id compare equal.
func normalizeNumeric(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(i, 10), true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return formatFloat(f)
	}
	return s, true
}

func formatFloat(f float64) (string, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", false
	}
	if f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10), true
	}
	return strconv.FormatFloat(f, 'f', -1, 64), true
}
