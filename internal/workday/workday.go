// Package workday maps day names to the backend's work-day ordinals and back.
// The backend numbers the week 1..7 starting on Saturday, so Saturday=1 and
// Friday=7; that ordering is also the sort order for display.
package workday

import "strings"

// Week ordinals, Saturday-first.
const (
	Saturday  = 1
	Sunday    = 2
	Monday    = 3
	Tuesday   = 4
	Wednesday = 5
	Thursday  = 6
	Friday    = 7
)

var names = [8]string{
	Saturday:  "Saturday",
	Sunday:    "Sunday",
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
}

// ToOrdinal maps a day name (case-insensitive) to its ordinal. The second
// return is false for unknown names.
func ToOrdinal(name string) (int, bool) {
	want := strings.ToLower(strings.TrimSpace(name))
	for ord := Saturday; ord <= Friday; ord++ {
		if strings.ToLower(names[ord]) == want {
			return ord, true
		}
	}
	return 0, false
}

// ToName maps an ordinal to its day name. The second return is false for
// ordinals outside 1..7.
func ToName(ordinal int) (string, bool) {
	if ordinal < Saturday || ordinal > Friday {
		return "", false
	}
	return names[ordinal], true
}

// ToOrdinals maps day names to ordinals, silently dropping unknown names.
// The backend must never receive an ordinal outside 1..7, so bad input is
// filtered rather than errored.
func ToOrdinals(dayNames []string) []int {
	out := make([]int, 0, len(dayNames))
	for _, n := range dayNames {
		if ord, ok := ToOrdinal(n); ok {
			out = append(out, ord)
		}
	}
	return out
}

// ToNames maps ordinals to day names, silently dropping out-of-range values.
func ToNames(ordinals []int) []string {
	out := make([]string, 0, len(ordinals))
	for _, ord := range ordinals {
		if name, ok := ToName(ord); ok {
			out = append(out, name)
		}
	}
	return out
}

// Normalize coerces the flexible wire shapes a work-day list arrives in
// (a []int, a JSON-decoded []any of numbers, or a single bare ordinal) into
// a plain ordinal slice. Out-of-range and unrecognized entries are dropped.
func Normalize(v any) []int {
	switch t := v.(type) {
	case nil:
		return nil
	case []int:
		out := make([]int, 0, len(t))
		for _, ord := range t {
			if ord >= Saturday && ord <= Friday {
				out = append(out, ord)
			}
		}
		return out
	case []any:
		out := make([]int, 0, len(t))
		for _, e := range t {
			out = append(out, Normalize(e)...)
		}
		return out
	case int:
		if t >= Saturday && t <= Friday {
			return []int{t}
		}
		return nil
	case float64:
		return Normalize(int(t))
	default:
		return nil
	}
}

// FormatOrdered renders ordinals as a display string sorted by the fixed
// Saturday-first week order, never in arrival order. labelFn translates each
// day name for display; pass nil to use the English name as-is.
func FormatOrdered(ordinals []int, labelFn func(string) string) string {
	var parts []string
	for ord := Saturday; ord <= Friday; ord++ {
		for _, got := range ordinals {
			if got != ord {
				continue
			}
			label := names[ord]
			if labelFn != nil {
				label = labelFn(label)
			}
			parts = append(parts, label)
			break
		}
	}
	return strings.Join(parts, ", ")
}
