// Package leave manages leave requests: a member asks for a calendar-date
// window off, an admin approves or rejects it. Windows follow the same
// date-granularity rules as shift assignments.
package leave

import (
	"time"

	"github.com/davidhull/crewdesk/internal/dates"
	"github.com/davidhull/crewdesk/internal/validate"
)

// Request statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var leaveTypes = map[string]bool{
	"annual": true,
	"sick":   true,
	"unpaid": true,
	"other":  true,
}

// Request is a user's ask for time off over an inclusive date window.
type Request struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	LeaveType string     `json:"leaveType"`
	From      dates.Date `json:"from"`
	To        dates.Date `json:"to"`
	Reason    string     `json:"reason"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
}

// Validate checks a leave request before submission, field by field.
func Validate(r Request) validate.Errors {
	var errs validate.Errors
	if r.UserID == "" {
		errs = errs.Add("userId", "user is required")
	}
	if !leaveTypes[r.LeaveType] {
		errs = errs.Add("leaveType", "must be one of annual, sick, unpaid, other")
	}
	if r.From.IsZero() {
		errs = errs.Add("from", "start date is required")
	}
	if r.To.IsZero() {
		errs = errs.Add("to", "end date is required")
	}
	if !r.From.IsZero() && !r.To.IsZero() && r.To.Before(r.From) {
		errs = errs.Add("to", "must not be before start date")
	}
	return errs
}
