package shift

import (
	"fmt"

	"github.com/davidhull/crewdesk/internal/dates"
	"github.com/davidhull/crewdesk/internal/directory"
	"github.com/davidhull/crewdesk/internal/validate"
)

// Window is the inclusive [EffectiveFrom, EffectiveTo] date range an
// assignment is in force. EffectiveTo equal to EffectiveFrom is a valid
// one-day window.
type Window struct {
	EffectiveFrom dates.Date `json:"effectiveFrom"`
	EffectiveTo   dates.Date `json:"effectiveTo"`
}

// ValidateWindow checks an effective-date window. Both ends are required and
// comparison is on calendar-date granularity only.
func ValidateWindow(from, to dates.Date) validate.Errors {
	var errs validate.Errors
	if from.IsZero() {
		errs = errs.Add("effectiveFrom", "effective from date is required")
	}
	if to.IsZero() {
		errs = errs.Add("effectiveTo", "effective to date is required")
	}
	if !errs.Valid() {
		return errs
	}
	if to.Before(from) {
		errs = errs.Add("effectiveTo", "must not be before effective from date")
	}
	return errs
}

// AssignRequest is the wire payload for a batch assignment: every selected
// user shares the one submitted window, and the backend creates one
// assignment record per user. Field names are the backend contract.
type AssignRequest struct {
	ShiftID       string     `json:"shiftId"`
	UserIDs       []string   `json:"userIds"`
	EffectiveFrom dates.Date `json:"effectiveFrom"`
	EffectiveTo   dates.Date `json:"effectiveTo"`
}

// PlanAssignment builds the batch request assigning the selected users to
// the shift for the given window. Duplicate and empty identities are dropped
// while preserving selection order. An empty selection or invalid window is
// a validation failure.
func PlanAssignment(shiftID string, selectedUserIDs []string, w Window) (AssignRequest, validate.Errors) {
	errs := ValidateWindow(w.EffectiveFrom, w.EffectiveTo)
	if shiftID == "" {
		errs = errs.Add("shiftId", "shift is required")
	}

	seen := map[string]bool{}
	userIDs := make([]string, 0, len(selectedUserIDs))
	for _, id := range selectedUserIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		userIDs = append(userIDs, id)
	}
	if len(userIDs) == 0 {
		errs = errs.Add("userIds", "at least one user is required")
	}
	if !errs.Valid() {
		return AssignRequest{}, errs
	}

	return AssignRequest{
		ShiftID:       shiftID,
		UserIDs:       userIDs,
		EffectiveFrom: w.EffectiveFrom,
		EffectiveTo:   w.EffectiveTo,
	}, nil
}

// RemovalRequest identifies the assignment to remove. The id travels in the
// URL path; there is no body.
type RemovalRequest struct {
	AssignmentID string `json:"-"`
}

// ReconcileRemoval builds a removal keyed strictly by assignment identity.
// Removing "by user" is disallowed: a user may hold several windows on the
// same shift, and a user-keyed removal would be ambiguous about which one
// goes.
func ReconcileRemoval(assignmentID string) (RemovalRequest, error) {
	if assignmentID == "" {
		return RemovalRequest{}, fmt.Errorf("assignment id is required")
	}
	return RemovalRequest{AssignmentID: assignmentID}, nil
}

// AssignedIdentities collects the identities holding any assignment in the
// given list, regardless of whether their windows have already expired.
// An expired-but-present assignment still blocks re-assignment; see the
// partitioning note on PartitionCandidates.
func AssignedIdentities(assignments []*Assignment) map[string]struct{} {
	set := make(map[string]struct{}, len(assignments))
	for _, a := range assignments {
		if a != nil && a.UserID != "" {
			set[a.UserID] = struct{}{}
		}
	}
	return set
}

// PartitionCandidates splits users into those without any current assignment
// to the shift (available) and those already holding one (assigned). The UI
// only offers the available pool, so an already-assigned user cannot be
// silently given an overlapping duplicate window; re-assignment requires
// removing the existing record first. Input order is preserved in both
// halves.
func PartitionCandidates(users []*directory.User, assignedIdentities map[string]struct{}) (available, assigned []*directory.User) {
	available = []*directory.User{}
	assigned = []*directory.User{}
	for _, u := range users {
		if u == nil || u.Identity() == "" {
			continue
		}
		if _, ok := assignedIdentities[u.Identity()]; ok {
			assigned = append(assigned, u)
		} else {
			available = append(available, u)
		}
	}
	return available, assigned
}
