package workday

import (
	"reflect"
	"strings"
	"testing"
)

func TestToOrdinal(t *testing.T) {
	tests := []struct {
		name string
		want int
		ok   bool
	}{
		{"Saturday", 1, true},
		{"Sunday", 2, true},
		{"Monday", 3, true},
		{"Tuesday", 4, true},
		{"Wednesday", 5, true},
		{"Thursday", 6, true},
		{"Friday", 7, true},
		{"friday", 7, true},
		{" MONDAY ", 3, true},
		{"Funday", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ToOrdinal(tt.name)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ToOrdinal(%q) = (%d, %v), want (%d, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestToNameOutOfRange(t *testing.T) {
	for _, ord := range []int{0, 8, -1, 100} {
		if name, ok := ToName(ord); ok {
			t.Errorf("ToName(%d) = %q, expected failure", ord, name)
		}
	}
}

// Round trip holds for any subset of valid names; unknown names vanish.
func TestRoundTrip(t *testing.T) {
	in := []string{"Monday", "Nonsense", "Saturday", "Friday"}
	got := ToNames(ToOrdinals(in))
	want := []string{"Monday", "Saturday", "Friday"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestToNamesDropsOutOfRange(t *testing.T) {
	got := ToNames([]int{0, 3, 9, 7})
	want := []string{"Monday", "Friday"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFormatOrderedSortsByWeekOrder(t *testing.T) {
	// Arrival order 5,1,3 must render Saturday(1), Monday(3), Wednesday(5).
	got := FormatOrdered([]int{5, 1, 3}, nil)
	want := "Saturday, Monday, Wednesday"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatOrderedWithLabelFn(t *testing.T) {
	got := FormatOrdered([]int{7, 1}, strings.ToUpper)
	want := "SATURDAY, FRIDAY"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFormatOrderedIgnoresDuplicatesAndJunk(t *testing.T) {
	got := FormatOrdered([]int{3, 3, 42, 0}, nil)
	if got != "Monday" {
		t.Errorf("got %q, want %q", got, "Monday")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []int
	}{
		{"int slice", []int{1, 2, 3}, []int{1, 2, 3}},
		{"single bare ordinal", 4, []int{4}},
		{"single json float", float64(6), []int{6}},
		{"json decoded array", []any{float64(5), float64(1)}, []int{5, 1}},
		{"out of range dropped", []int{0, 3, 8}, []int{3}},
		{"nil", nil, nil},
		{"unsupported type", "Monday", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
