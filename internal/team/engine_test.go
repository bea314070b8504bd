package team

import (
	"reflect"
	"testing"

	"github.com/davidhull/crewdesk/internal/directory"
)

func TestSetLeaderEvictsFromMembers(t *testing.T) {
	a := member("a", "Alice")
	b := member("b", "Bob")
	tm := Team{Name: "Dispatch", Members: NewMemberSet(a, b)}

	got, err := SetLeader(tm, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.LeaderID() != "a" {
		t.Errorf("leader: got %q, want %q", got.LeaderID(), "a")
	}
	if got.Members.Contains("a") {
		t.Error("leader must not remain in the member set")
	}
	if !reflect.DeepEqual(got.Members.IDs(), []string{"b"}) {
		t.Errorf("members: got %v, want [b]", got.Members.IDs())
	}

	// Input team untouched.
	if !tm.Members.Contains("a") || tm.Leader != nil {
		t.Error("SetLeader mutated its input")
	}
}

func TestSetLeaderUnresolvableIdentity(t *testing.T) {
	tm := Team{Name: "Dispatch"}
	if _, err := SetLeader(tm, &directory.User{Name: "Ghost"}); err != ErrUnresolvableIdentity {
		t.Fatalf("expected ErrUnresolvableIdentity, got %v", err)
	}
	if _, err := SetLeader(tm, nil); err != ErrUnresolvableIdentity {
		t.Fatalf("nil candidate: expected ErrUnresolvableIdentity, got %v", err)
	}
}

func TestToggleMemberSkipsLeader(t *testing.T) {
	lead := member("lead", "Lena")
	tm := Team{Leader: lead, Members: NewMemberSet(member("m1", ""))}

	got, err := ToggleMember(tm, lead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Members.Contains("lead") {
		t.Error("toggling the leader must not add them to the roster")
	}
	if got.Members.Len() != 1 {
		t.Errorf("roster changed: %v", got.Members.IDs())
	}
}

func TestToggleMemberAddAndRemove(t *testing.T) {
	tm := Team{}
	c := member("c", "")

	got, err := ToggleMember(tm, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Members.Contains("c") {
		t.Fatal("expected member added")
	}

	got, err = ToggleMember(got, c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Members.Contains("c") {
		t.Fatal("expected member removed on second toggle")
	}
}

// After removing the leader, the former leader is a normal candidate again.
func TestRemoveLeaderThenToggleFormerLeader(t *testing.T) {
	lead := member("lead", "Lena")
	tm := Team{Leader: lead}

	tm = RemoveLeader(tm)
	if tm.Leader != nil {
		t.Fatal("leader not cleared")
	}

	got, err := ToggleMember(tm, lead)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Members.Contains("lead") {
		t.Error("former leader should be addable as member once demoted")
	}
}

func TestValidateForSubmit(t *testing.T) {
	tests := []struct {
		name       string
		team       Team
		wantFields []string
	}{
		{
			name:       "all missing",
			team:       Team{},
			wantFields: []string{"name", "departmentId", "teamLeadId"},
		},
		{
			name:       "leader missing only",
			team:       Team{Name: "Ops", DepartmentID: "d1"},
			wantFields: []string{"teamLeadId"},
		},
		{
			name:       "leader without identity",
			team:       Team{Name: "Ops", DepartmentID: "d1", Leader: &directory.User{Name: "Ghost"}},
			wantFields: []string{"teamLeadId"},
		},
		{
			name: "valid",
			team: Team{Name: "Ops", DepartmentID: "d1", Leader: member("l", "")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateForSubmit(tt.team)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got %d errors (%v), want %d", len(errs), errs, len(tt.wantFields))
			}
			for _, f := range tt.wantFields {
				if !errs.Has(f) {
					t.Errorf("missing error for field %q in %v", f, errs)
				}
			}
			if len(tt.wantFields) == 0 && !errs.Valid() {
				t.Errorf("expected valid, got %v", errs)
			}
		})
	}
}

func TestBuildCreateRequest(t *testing.T) {
	tm := Team{
		Name:         "Dispatch",
		Description:  "Night dispatch crew",
		DepartmentID: "dep-9",
		Leader:       member("lead", ""),
		Members:      NewMemberSet(member("m1", ""), member("m2", "")),
	}

	create, members := BuildCreateRequest(tm)
	want := CreateRequest{
		Name:         "Dispatch",
		Description:  "Night dispatch crew",
		TeamLeadID:   "lead",
		DepartmentID: "dep-9",
	}
	if create != want {
		t.Errorf("create payload: got %+v, want %+v", create, want)
	}
	if members == nil {
		t.Fatal("expected member follow-up payload")
	}
	if members.TeamID != "" {
		t.Errorf("member payload must not carry a team id before create returns one, got %q", members.TeamID)
	}
	if !reflect.DeepEqual(members.UserIDs, []string{"m1", "m2"}) {
		t.Errorf("member ids: got %v", members.UserIDs)
	}
}

func TestBuildCreateRequestNoMembers(t *testing.T) {
	tm := Team{Name: "Solo", DepartmentID: "d", Leader: member("l", "")}
	_, members := BuildCreateRequest(tm)
	if members != nil {
		t.Errorf("expected no member payload for empty roster, got %+v", members)
	}
}

func TestBuildUpdateRequestReplacesAllMembers(t *testing.T) {
	original := Team{
		ID:      "t-1",
		Name:    "Dispatch",
		Members: NewMemberSet(member("a", ""), member("b", "")),
	}
	current := original
	current.Members = NewMemberSet(member("b", ""), member("c", ""))
	current.Leader = member("lead", "")

	update, members := BuildUpdateRequest(current, original)
	if update.TeamLeadID != "lead" {
		t.Errorf("teamLeadId: got %q", update.TeamLeadID)
	}
	if members.TeamID != "t-1" {
		t.Errorf("teamId: got %q, want t-1", members.TeamID)
	}
	// Replace-all: the full current roster, not a delta.
	if !reflect.DeepEqual(members.UserIDs, []string{"b", "c"}) {
		t.Errorf("userIds: got %v, want full current list [b c]", members.UserIDs)
	}
}

func TestPartialFailureUnwraps(t *testing.T) {
	inner := ErrUnresolvableIdentity
	pf := &PartialFailure{Created: &Team{ID: "t-1"}, Step: "members", Err: inner}
	if pf.Unwrap() != inner {
		t.Error("Unwrap should return the inner error")
	}
	if pf.Error() == "" {
		t.Error("expected a message")
	}
}
