package shift

import (
	"reflect"
	"testing"
	"time"

	"github.com/davidhull/crewdesk/internal/dates"
	"github.com/davidhull/crewdesk/internal/directory"
)

func day(d int) dates.Date {
	return dates.New(2024, time.January, d)
}

func TestValidateWindow(t *testing.T) {
	tests := []struct {
		name       string
		from, to   dates.Date
		wantFields []string
	}{
		{"valid range", day(1), day(31), nil},
		{"equal dates are a one-day window", day(5), day(5), nil},
		{"to before from", day(10), day(9), []string{"effectiveTo"}},
		{"missing from", dates.Date{}, day(9), []string{"effectiveFrom"}},
		{"missing to", day(9), dates.Date{}, []string{"effectiveTo"}},
		{"missing both", dates.Date{}, dates.Date{}, []string{"effectiveFrom", "effectiveTo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateWindow(tt.from, tt.to)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got %v, want errors on %v", errs, tt.wantFields)
			}
			for _, f := range tt.wantFields {
				if !errs.Has(f) {
					t.Errorf("missing error for %q in %v", f, errs)
				}
			}
		})
	}
}

func TestPlanAssignmentBatch(t *testing.T) {
	w := Window{EffectiveFrom: day(1), EffectiveTo: day(1)}
	req, errs := PlanAssignment("shift-1", []string{"x", "y"}, w)
	if !errs.Valid() {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
	if req.ShiftID != "shift-1" {
		t.Errorf("shiftId: got %q", req.ShiftID)
	}
	// One request covering both users with the single shared window.
	if !reflect.DeepEqual(req.UserIDs, []string{"x", "y"}) {
		t.Errorf("userIds: got %v", req.UserIDs)
	}
	if !req.EffectiveFrom.Equal(day(1)) || !req.EffectiveTo.Equal(day(1)) {
		t.Errorf("window: got %v..%v", req.EffectiveFrom, req.EffectiveTo)
	}
}

func TestPlanAssignmentDropsDuplicatesAndBlanks(t *testing.T) {
	w := Window{EffectiveFrom: day(1), EffectiveTo: day(2)}
	req, errs := PlanAssignment("s", []string{"a", "", "b", "a"}, w)
	if !errs.Valid() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if !reflect.DeepEqual(req.UserIDs, []string{"a", "b"}) {
		t.Errorf("got %v, want [a b]", req.UserIDs)
	}
}

func TestPlanAssignmentRejectsEmptySelection(t *testing.T) {
	w := Window{EffectiveFrom: day(1), EffectiveTo: day(2)}
	_, errs := PlanAssignment("s", nil, w)
	if !errs.Has("userIds") {
		t.Fatalf("expected userIds error, got %v", errs)
	}
}

func TestPlanAssignmentRejectsInvalidWindow(t *testing.T) {
	w := Window{EffectiveFrom: day(9), EffectiveTo: day(1)}
	_, errs := PlanAssignment("s", []string{"a"}, w)
	if !errs.Has("effectiveTo") {
		t.Fatalf("expected effectiveTo error, got %v", errs)
	}
}

func TestReconcileRemoval(t *testing.T) {
	req, err := ReconcileRemoval("asg-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.AssignmentID != "asg-42" {
		t.Errorf("got %q", req.AssignmentID)
	}

	if _, err := ReconcileRemoval(""); err == nil {
		t.Fatal("expected error for empty assignment id")
	}
}

func TestPartitionCandidates(t *testing.T) {
	users := []*directory.User{
		{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"},
	}
	assignments := []*Assignment{
		{ID: "1", UserID: "b", EffectiveFrom: day(1), EffectiveTo: day(2)},
		// Expired window: still counts as assigned.
		{ID: "2", UserID: "d", EffectiveFrom: dates.New(2020, time.March, 1), EffectiveTo: dates.New(2020, time.March, 31)},
	}

	available, assigned := PartitionCandidates(users, AssignedIdentities(assignments))

	if got := userIDs(available); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("available: got %v, want [a c]", got)
	}
	if got := userIDs(assigned); !reflect.DeepEqual(got, []string{"b", "d"}) {
		t.Errorf("assigned: got %v, want [b d]", got)
	}
}

func TestPartitionCandidatesNoAssignments(t *testing.T) {
	users := []*directory.User{{ID: "a"}}
	available, assigned := PartitionCandidates(users, AssignedIdentities(nil))
	if len(available) != 1 || len(assigned) != 0 {
		t.Errorf("got available=%v assigned=%v", userIDs(available), userIDs(assigned))
	}
}

func TestAssignedIdentitiesMultipleWindowsSameUser(t *testing.T) {
	assignments := []*Assignment{
		{ID: "1", UserID: "u"},
		{ID: "2", UserID: "u"},
	}
	set := AssignedIdentities(assignments)
	if len(set) != 1 {
		t.Errorf("expected one identity, got %d", len(set))
	}
}

func userIDs(users []*directory.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}
