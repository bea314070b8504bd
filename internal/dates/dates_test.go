package dates

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain date", "2024-01-31", "2024-01-31", false},
		{"date with surrounding space", "  2024-01-31 ", "2024-01-31", false},
		{"rfc3339 timestamp truncated", "2024-01-31T15:04:05Z", "2024-01-31", false},
		{"empty", "", "", true},
		{"garbage", "31/01/2024", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", d)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.String() != tt.want {
				t.Errorf("got %q, want %q", d.String(), tt.want)
			}
		})
	}
}

func TestComparisons(t *testing.T) {
	a := New(2024, time.January, 1)
	b := New(2024, time.January, 2)

	if !a.Before(b) {
		t.Error("expected a before b")
	}
	if !b.After(a) {
		t.Error("expected b after a")
	}
	if !a.Equal(New(2024, time.January, 1)) {
		t.Error("expected equal dates to compare equal")
	}
	if a.Before(a) || a.After(a) {
		t.Error("a date is neither before nor after itself")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	type payload struct {
		From Date `json:"effectiveFrom"`
		To   Date `json:"effectiveTo"`
	}

	in := `{"effectiveFrom":"2024-01-01","effectiveTo":"2024-02-15"}`
	var p payload
	if err := json.Unmarshal([]byte(in), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.From.String() != "2024-01-01" || p.To.String() != "2024-02-15" {
		t.Fatalf("unexpected dates: %v %v", p.From, p.To)
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != in {
		t.Errorf("round trip mismatch: got %s, want %s", out, in)
	}
}

func TestJSONNull(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte("null"), &d); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !d.IsZero() {
		t.Error("expected zero date from null")
	}

	out, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal zero: %v", err)
	}
	if string(out) != "null" {
		t.Errorf("got %s, want null", out)
	}
}

func TestFromTimeDropsClock(t *testing.T) {
	ts := time.Date(2024, time.June, 15, 23, 59, 59, 0, time.UTC)
	if got := FromTime(ts).String(); got != "2024-06-15" {
		t.Errorf("got %q, want 2024-06-15", got)
	}
}
