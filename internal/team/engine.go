package team

import (
	"fmt"

	"github.com/davidhull/crewdesk/internal/directory"
	"github.com/davidhull/crewdesk/internal/validate"
)

// ErrUnresolvableIdentity is returned when a candidate carries no usable
// identity and therefore cannot participate in any roster operation.
var ErrUnresolvableIdentity = fmt.Errorf("candidate has no resolvable identity")

// SetLeader returns a copy of t with candidate as leader. If the candidate
// is currently a member, it is removed from the roster in the same
// transition; the leader is never also a member.
func SetLeader(t Team, candidate *directory.User) (Team, error) {
	if candidate.Identity() == "" {
		return t, ErrUnresolvableIdentity
	}
	t.Leader = candidate
	t.Members = t.Members.Remove(candidate.Identity())
	return t, nil
}

// RemoveLeader returns a copy of t with no leader. No member is promoted in
// its place, and the former leader becomes a regular candidate again.
func RemoveLeader(t Team) Team {
	t.Leader = nil
	return t
}

// ToggleMember returns a copy of t with the candidate's membership toggled.
// Toggling the current leader is a no-op: the exclusivity invariant means a
// leader cannot be added to the roster, and it is excluded silently rather
// than rejected so pickers can share one click handler.
func ToggleMember(t Team, candidate *directory.User) (Team, error) {
	if candidate.Identity() == "" {
		return t, ErrUnresolvableIdentity
	}
	if candidate.Identity() == t.LeaderID() {
		return t, nil
	}
	t.Members = t.Members.Toggle(candidate)
	return t, nil
}

// ValidateForSubmit checks the fields a team must carry before it can be
// sent to the backend. Errors are reported per field.
func ValidateForSubmit(t Team) validate.Errors {
	var errs validate.Errors
	if t.Name == "" {
		errs = errs.Add("name", "name is required")
	}
	if t.DepartmentID == "" {
		errs = errs.Add("departmentId", "department is required")
	}
	if t.Leader == nil {
		errs = errs.Add("teamLeadId", "team leader is required")
	} else if t.LeaderID() == "" {
		errs = errs.Add("teamLeadId", "team leader has no resolvable identity")
	}
	return errs
}

// BuildCreateRequest produces the payloads for the two-step create flow:
// the team itself, then (only when the roster is non-empty) a member-add
// payload whose TeamID is filled in after the create step returns an id.
// The steps are sequential because the backend only mints the team id on
// create; a member-add failure after a successful create is a partial
// failure, not a create failure.
func BuildCreateRequest(t Team) (CreateRequest, *MemberRequest) {
	create := CreateRequest{
		Name:         t.Name,
		Description:  t.Description,
		TeamLeadID:   t.LeaderID(),
		DepartmentID: t.DepartmentID,
	}
	if t.Members.Len() == 0 {
		return create, nil
	}
	return create, &MemberRequest{UserIDs: t.Members.IDs()}
}

// BuildUpdateRequest produces the payloads for updating an existing team.
// The member payload carries the full current roster because the backend's
// member endpoint has replace-all semantics on update, unlike create, where
// there is nothing to replace and a delta would be meaningless.
func BuildUpdateRequest(t Team, original Team) (UpdateRequest, MemberRequest) {
	update := UpdateRequest{
		Name:         t.Name,
		Description:  t.Description,
		TeamLeadID:   t.LeaderID(),
		DepartmentID: t.DepartmentID,
	}
	members := MemberRequest{
		TeamID:  original.ID,
		UserIDs: t.Members.IDs(),
	}
	return update, members
}

// PartialFailure reports a two-step operation where the first step succeeded
// and a later one failed, e.g. the team row was created but the member step
// errored. The caller retries only the failed step; recreating the team
// would duplicate it.
type PartialFailure struct {
	Created *Team
	Step    string
	Err     error
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("step %q failed after team %s was created: %v", e.Step, e.Created.ID, e.Err)
}

func (e *PartialFailure) Unwrap() error { return e.Err }
