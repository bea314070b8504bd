package api

import (
	"errors"
	"net/http"

	"github.com/davidhull/crewdesk/internal/shift"
	"github.com/davidhull/crewdesk/internal/validate"
	"github.com/davidhull/crewdesk/internal/workday"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// shiftsHandler groups shift definition HTTP handlers (admin only).
type shiftsHandler struct {
	store *shift.Store
}

func newShiftsHandler(store *shift.Store) *shiftsHandler {
	return &shiftsHandler{store: store}
}

// shiftFromPayload converts the wire payload into a shift definition. The
// isLocation and overtimeAllowed flags gate their optional fields: when a
// flag is off the fields are discarded, when it is on they are required.
func shiftFromPayload(p shift.Payload) (shift.Shift, validate.Errors) {
	s := shift.Shift{
		Name:               p.Name,
		StartTime:          p.StartTime,
		EndTime:            p.EndTime,
		WorkDays:           p.WorkDays,
		GracePeriodMinutes: p.GracePeriodMinutes,
	}

	var errs validate.Errors

	if p.IsLocation {
		if p.Latitude == nil || p.Longitude == nil || p.RadiusMeters == nil {
			errs = errs.Add("isLocation", "latitude, longitude, and radiusMeters are required when isLocation is set")
		} else {
			s.Geofence = &shift.Geofence{
				Latitude:     *p.Latitude,
				Longitude:    *p.Longitude,
				RadiusMeters: *p.RadiusMeters,
			}
		}
	}

	if p.OvertimeAllowed {
		if p.MaxOvertimeMinutes == nil {
			errs = errs.Add("maxOvertimeMinutes", "required when overtimeAllowed is set")
		} else {
			s.MaxOvertimeMinutes = p.MaxOvertimeMinutes
		}
	}

	errs = append(errs, shift.Validate(s)...)
	return s, errs
}

// CreateShift handles POST /api/v1/admin/shifts.
func (h *shiftsHandler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var p shift.Payload
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	s, errs := shiftFromPayload(p)
	if !errs.Valid() {
		writeValidationError(w, errs)
		return
	}

	created, err := h.store.Create(r.Context(), s)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create shift")
		return
	}

	auditLog(r, "create", "shift", created.ID, "days", workday.FormatOrdered(created.WorkDays, nil))
	writeJSON(w, http.StatusCreated, created)
}

// ListShifts handles GET /api/v1/admin/shifts. Inactive shifts are hidden
// unless includeInactive=true.
func (h *shiftsHandler) ListShifts(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"

	shifts, err := h.store.List(r.Context(), includeInactive)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list shifts")
		return
	}

	if shifts == nil {
		shifts = []*shift.Shift{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"shifts": shifts,
	})
}

// GetShift handles GET /api/v1/admin/shifts/{id}.
func (h *shiftsHandler) GetShift(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "shift not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get shift")
		return
	}

	writeJSON(w, http.StatusOK, s)
}

// UpdateShift handles PUT /api/v1/admin/shifts/{id}.
func (h *shiftsHandler) UpdateShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var p shift.Payload
	if err := readJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	s, errs := shiftFromPayload(p)
	if !errs.Valid() {
		writeValidationError(w, errs)
		return
	}

	updated, err := h.store.Update(r.Context(), id, s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "shift not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update shift")
		return
	}

	auditLog(r, "update", "shift", id)
	writeJSON(w, http.StatusOK, updated)
}

// DeleteShift handles DELETE /api/v1/admin/shifts/{id}. Deletion is a status
// flip: assignments stay put and the shift can be restored later.
func (h *shiftsHandler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.store.SetStatus(r.Context(), id, shift.StatusInactive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "shift not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete shift")
		return
	}

	auditLog(r, "deactivate", "shift", id)
	w.WriteHeader(http.StatusNoContent)
}

// RestoreShift handles POST /api/v1/admin/shifts/{id}/restore.
func (h *shiftsHandler) RestoreShift(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s, err := h.store.SetStatus(r.Context(), id, shift.StatusActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "shift not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to restore shift")
		return
	}

	auditLog(r, "restore", "shift", id)
	writeJSON(w, http.StatusOK, s)
}
