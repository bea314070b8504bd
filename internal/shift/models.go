// Package shift implements shift definitions and the assignment window
// manager: validating effective-date windows, planning batch assignments,
// and partitioning candidates into available and already-assigned pools.
package shift

import (
	"regexp"
	"time"

	"github.com/davidhull/crewdesk/internal/dates"
	"github.com/davidhull/crewdesk/internal/validate"
	"github.com/davidhull/crewdesk/internal/workday"
)

// Shift statuses. Deleting a shift flips it to inactive; restore flips back.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Geofence is an optional clock-in location constraint. All three fields are
// required together or absent together.
type Geofence struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters int     `json:"radiusMeters"`
}

// Shift is a recurring working window on selected days of the week.
// StartTime and EndTime are local clock times in HH:MM:SS; the shift covers
// [StartTime, EndTime).
type Shift struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	StartTime          string    `json:"startTime"`
	EndTime            string    `json:"endTime"`
	WorkDays           []int     `json:"workDays"`
	GracePeriodMinutes int       `json:"gracePeriodMinutes"`
	Geofence           *Geofence `json:"geofence,omitempty"`
	MaxOvertimeMinutes *int      `json:"maxOvertimeMinutes,omitempty"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// Payload is the wire shape for creating or updating a shift. Field names
// are the backend contract and must not change.
type Payload struct {
	Name               string   `json:"name"`
	StartTime          string   `json:"startTime"`
	EndTime            string   `json:"endTime"`
	WorkDays           []int    `json:"workDays"`
	GracePeriodMinutes int      `json:"gracePeriodMinutes"`
	IsLocation         bool     `json:"isLocation"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	RadiusMeters       *int     `json:"radiusMeters,omitempty"`
	OvertimeAllowed    bool     `json:"overtimeAllowed"`
	MaxOvertimeMinutes *int     `json:"maxOvertimeMinutes,omitempty"`
}

// BuildPayload renders a shift in the wire shape, deriving the isLocation
// and overtimeAllowed flags from the optional fields.
func BuildPayload(s Shift) Payload {
	p := Payload{
		Name:               s.Name,
		StartTime:          s.StartTime,
		EndTime:            s.EndTime,
		WorkDays:           workday.Normalize(s.WorkDays),
		GracePeriodMinutes: s.GracePeriodMinutes,
	}
	if s.Geofence != nil {
		p.IsLocation = true
		p.Latitude = &s.Geofence.Latitude
		p.Longitude = &s.Geofence.Longitude
		p.RadiusMeters = &s.Geofence.RadiusMeters
	}
	if s.MaxOvertimeMinutes != nil {
		p.OvertimeAllowed = true
		p.MaxOvertimeMinutes = s.MaxOvertimeMinutes
	}
	return p
}

var clockTimeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d:[0-5]\d$`)

// Validate checks a shift definition field by field.
func Validate(s Shift) validate.Errors {
	var errs validate.Errors
	if s.Name == "" {
		errs = errs.Add("name", "name is required")
	}
	if !clockTimeRe.MatchString(s.StartTime) {
		errs = errs.Add("startTime", "must be a clock time in HH:MM:SS")
	}
	if !clockTimeRe.MatchString(s.EndTime) {
		errs = errs.Add("endTime", "must be a clock time in HH:MM:SS")
	}
	if len(s.WorkDays) == 0 {
		errs = errs.Add("workDays", "at least one work day is required")
	} else {
		seen := map[int]bool{}
		for _, ord := range s.WorkDays {
			if _, ok := workday.ToName(ord); !ok {
				errs = errs.Add("workDays", "day ordinals must be between 1 and 7")
				break
			}
			if seen[ord] {
				errs = errs.Add("workDays", "day ordinals must not repeat")
				break
			}
			seen[ord] = true
		}
	}
	if s.GracePeriodMinutes < 0 {
		errs = errs.Add("gracePeriodMinutes", "must not be negative")
	}
	if s.Geofence != nil && s.Geofence.RadiusMeters <= 0 {
		errs = errs.Add("radiusMeters", "must be positive when a geofence is set")
	}
	if s.MaxOvertimeMinutes != nil && *s.MaxOvertimeMinutes < 0 {
		errs = errs.Add("maxOvertimeMinutes", "must not be negative")
	}
	return errs
}

// Assignment binds one user to one shift for an inclusive calendar-date
// window. It is keyed by its own id, not by the (user, shift) pair: a user
// may hold several assignment records to the same shift across different
// windows.
type Assignment struct {
	ID            string     `json:"id"`
	ShiftID       string     `json:"shiftId"`
	UserID        string     `json:"userId"`
	EffectiveFrom dates.Date `json:"effectiveFrom"`
	EffectiveTo   dates.Date `json:"effectiveTo"`
	CreatedAt     time.Time  `json:"createdAt"`
}
