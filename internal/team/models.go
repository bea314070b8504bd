// Package team implements the team roster model and the reconciliation
// engine over it: leader/member exclusivity, identity-keyed membership, and
// the create/update payloads sent to the backing store. All transitions are
// pure functions over values: callers get a new Team back and the input is
// untouched.
package team

import (
	"time"

	"github.com/davidhull/crewdesk/internal/directory"
)

// Team is a named roster inside a department with an optional leader.
// An empty ID means the team has not been created yet.
type Team struct {
	ID           string          `json:"id,omitempty"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	DepartmentID string          `json:"departmentId"`
	Leader       *directory.User `json:"leader,omitempty"`
	Members      MemberSet       `json:"-"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// LeaderID returns the leader's identity, or "" when no leader is set.
func (t Team) LeaderID() string {
	return t.Leader.Identity()
}

// CreateRequest is the wire payload for creating a team. Field names are the
// backend contract and must not change.
type CreateRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	TeamLeadID   string `json:"teamLeadId"`
	DepartmentID string `json:"departmentId"`
}

// UpdateRequest is the wire payload for updating a team's own fields.
type UpdateRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	TeamLeadID   string `json:"teamLeadId"`
	DepartmentID string `json:"departmentId"`
}

// MemberRequest is the wire payload for the member endpoint. On create it is
// a plain add; on update the backend replaces the whole roster with UserIDs.
type MemberRequest struct {
	TeamID  string   `json:"teamId"`
	UserIDs []string `json:"userIds"`
}
