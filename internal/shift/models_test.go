package shift

import (
	"reflect"
	"testing"
)

func validShift() Shift {
	return Shift{
		Name:               "Night",
		StartTime:          "22:00:00",
		EndTime:            "06:00:00",
		WorkDays:           []int{1, 3, 5},
		GracePeriodMinutes: 10,
		Status:             StatusActive,
	}
}

func TestValidateShift(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Shift)
		field  string
	}{
		{"valid", func(s *Shift) {}, ""},
		{"missing name", func(s *Shift) { s.Name = "" }, "name"},
		{"bad start time", func(s *Shift) { s.StartTime = "9:00" }, "startTime"},
		{"bad end time", func(s *Shift) { s.EndTime = "25:00:00" }, "endTime"},
		{"no work days", func(s *Shift) { s.WorkDays = nil }, "workDays"},
		{"out of range work day", func(s *Shift) { s.WorkDays = []int{1, 8} }, "workDays"},
		{"duplicate work day", func(s *Shift) { s.WorkDays = []int{2, 2} }, "workDays"},
		{"negative grace", func(s *Shift) { s.GracePeriodMinutes = -1 }, "gracePeriodMinutes"},
		{"geofence zero radius", func(s *Shift) { s.Geofence = &Geofence{Latitude: 1, Longitude: 2} }, "radiusMeters"},
		{"negative overtime cap", func(s *Shift) { v := -5; s.MaxOvertimeMinutes = &v }, "maxOvertimeMinutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validShift()
			tt.mutate(&s)
			errs := Validate(s)
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

func TestBuildPayloadGeofence(t *testing.T) {
	s := validShift()
	s.Geofence = &Geofence{Latitude: 51.5, Longitude: -0.12, RadiusMeters: 150}

	p := BuildPayload(s)
	if !p.IsLocation {
		t.Error("expected isLocation true")
	}
	if p.Latitude == nil || *p.Latitude != 51.5 {
		t.Errorf("latitude: %v", p.Latitude)
	}
	if p.RadiusMeters == nil || *p.RadiusMeters != 150 {
		t.Errorf("radiusMeters: %v", p.RadiusMeters)
	}
}

func TestBuildPayloadNoGeofenceNoOvertime(t *testing.T) {
	p := BuildPayload(validShift())
	if p.IsLocation || p.Latitude != nil || p.Longitude != nil || p.RadiusMeters != nil {
		t.Errorf("expected location fields absent: %+v", p)
	}
	if p.OvertimeAllowed || p.MaxOvertimeMinutes != nil {
		t.Errorf("expected overtime fields absent: %+v", p)
	}
}

func TestBuildPayloadOvertime(t *testing.T) {
	s := validShift()
	overtime := 90
	s.MaxOvertimeMinutes = &overtime

	p := BuildPayload(s)
	if !p.OvertimeAllowed {
		t.Error("expected overtimeAllowed true")
	}
	if p.MaxOvertimeMinutes == nil || *p.MaxOvertimeMinutes != 90 {
		t.Errorf("maxOvertimeMinutes: %v", p.MaxOvertimeMinutes)
	}
}

func TestBuildPayloadFiltersWorkDays(t *testing.T) {
	s := validShift()
	s.WorkDays = []int{5, 0, 1, 9}
	p := BuildPayload(s)
	if !reflect.DeepEqual(p.WorkDays, []int{5, 1}) {
		t.Errorf("got %v, want [5 1]", p.WorkDays)
	}
}
