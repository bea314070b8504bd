package identity

import (
	"encoding/json"
	"testing"
)

func TestResolveAliasPriority(t *testing.T) {
	tests := []struct {
		name string
		rec  map[string]any
		want string
		ok   bool
	}{
		{
			name: "plain id",
			rec:  map[string]any{"id": "u-1"},
			want: "u-1",
			ok:   true,
		},
		{
			name: "userId alias",
			rec:  map[string]any{"userId": "u-2"},
			want: "u-2",
			ok:   true,
		},
		{
			name: "userID alias",
			rec:  map[string]any{"userID": "u-3"},
			want: "u-3",
			ok:   true,
		},
		{
			name: "UserId alias",
			rec:  map[string]any{"UserId": "u-4"},
			want: "u-4",
			ok:   true,
		},
		{
			name: "mongo style _id",
			rec:  map[string]any{"_id": "507f1f77"},
			want: "507f1f77",
			ok:   true,
		},
		{
			name: "id wins over userId",
			rec:  map[string]any{"userId": "other", "id": "primary"},
			want: "primary",
			ok:   true,
		},
		{
			name: "null id falls through to next alias",
			rec:  map[string]any{"id": nil, "userId": "u-5"},
			want: "u-5",
			ok:   true,
		},
		{
			name: "empty string falls through",
			rec:  map[string]any{"id": "", "_id": "u-6"},
			want: "u-6",
			ok:   true,
		},
		{
			name: "no alias present",
			rec:  map[string]any{"email": "a@b.c"},
			ok:   false,
		},
		{
			name: "nil record",
			rec:  nil,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.rec)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// Swapping which alias carries the value must not change the resolved string.
func TestResolveAliasPermutationStable(t *testing.T) {
	for _, alias := range []string{"id", "userId", "userID", "UserId", "Id", "_id"} {
		got, ok := Resolve(map[string]any{alias: "same-user"})
		if !ok {
			t.Fatalf("alias %q: expected resolution", alias)
		}
		if got != "same-user" {
			t.Errorf("alias %q: got %q, want %q", alias, got, "same-user")
		}
	}
}

func TestResolveNumericCoercion(t *testing.T) {
	tests := []struct {
		name string
		val  any
		want string
	}{
		{"int", 42, "42"},
		{"int64", int64(42), "42"},
		{"float64 integral", float64(42), "42"},
		{"float64 from json decode", 42.0, "42"},
		{"json.Number integer", json.Number("42"), "42"},
		{"json.Number with fraction zero", json.Number("42.0"), "42"},
		{"string digits", "42", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(map[string]any{"id": tt.val})
			if !ok {
				t.Fatal("expected resolution")
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveStableAcrossCalls(t *testing.T) {
	rec := map[string]any{"userID": 7.0}
	first, _ := Resolve(rec)
	for i := 0; i < 10; i++ {
		got, _ := Resolve(rec)
		if got != first {
			t.Fatalf("call %d: got %q, want %q", i, got, first)
		}
	}
}

func TestNormalizeRejectsUnusableValues(t *testing.T) {
	for _, v := range []any{true, map[string]any{}, []any{"x"}, ""} {
		if got, ok := Normalize(v); ok {
			t.Errorf("Normalize(%#v) = %q, expected failure", v, got)
		}
	}
}

func TestNormalizeKeepsFractions(t *testing.T) {
	got, ok := Normalize(4.5)
	if !ok || got != "4.5" {
		t.Errorf("got %q ok=%v, want %q", got, ok, "4.5")
	}
}
