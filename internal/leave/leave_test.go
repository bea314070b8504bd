package leave

import (
	"testing"
	"time"

	"github.com/davidhull/crewdesk/internal/dates"
)

func TestValidate(t *testing.T) {
	valid := Request{
		UserID:    "u-1",
		LeaveType: "annual",
		From:      dates.New(2024, time.July, 1),
		To:        dates.New(2024, time.July, 5),
	}

	tests := []struct {
		name   string
		mutate func(*Request)
		field  string
	}{
		{"valid", func(r *Request) {}, ""},
		{"one day window", func(r *Request) { r.To = r.From }, ""},
		{"missing user", func(r *Request) { r.UserID = "" }, "userId"},
		{"unknown type", func(r *Request) { r.LeaveType = "sabbatical" }, "leaveType"},
		{"missing from", func(r *Request) { r.From = dates.Date{} }, "from"},
		{"missing to", func(r *Request) { r.To = dates.Date{} }, "to"},
		{"to before from", func(r *Request) { r.To = dates.New(2024, time.June, 1) }, "to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			errs := Validate(r)
			if tt.field == "" {
				if !errs.Valid() {
					t.Fatalf("expected valid, got %v", errs)
				}
				return
			}
			if !errs.Has(tt.field) {
				t.Errorf("expected error on %q, got %v", tt.field, errs)
			}
		})
	}
}
