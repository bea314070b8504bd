package api

import (
	"errors"
	"net/http"

	"github.com/davidhull/crewdesk/internal/directory"
	"github.com/davidhull/crewdesk/internal/metrics"
	"github.com/davidhull/crewdesk/internal/shift"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// assignmentsHandler groups shift assignment HTTP handlers (admin only).
type assignmentsHandler struct {
	shifts  *shift.Store
	users   *directory.Store
	metrics *metrics.Metrics
}

func newAssignmentsHandler(shifts *shift.Store, users *directory.Store, m *metrics.Metrics) *assignmentsHandler {
	return &assignmentsHandler{shifts: shifts, users: users, metrics: m}
}

// CreateAssignments handles POST /api/v1/admin/shifts/{id}/assignments.
// Every selected user gets one assignment record sharing the submitted
// effective-date window. Users already holding an assignment to the shift
// are rejected; re-assignment requires removing the existing record first.
func (h *assignmentsHandler) CreateAssignments(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")

	var req shift.AssignRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if _, err := h.shifts.GetByID(r.Context(), shiftID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "shift not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get shift")
		return
	}

	plan, errs := shift.PlanAssignment(shiftID, req.UserIDs, shift.Window{
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
	})
	if !errs.Valid() {
		writeValidationError(w, errs)
		return
	}

	existing, err := h.shifts.ListAssignments(r.Context(), shiftID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list assignments")
		return
	}
	assigned := shift.AssignedIdentities(existing)
	for _, userID := range plan.UserIDs {
		if _, ok := assigned[userID]; ok {
			writeError(w, http.StatusConflict, "already_assigned",
				"user "+userID+" already holds an assignment to this shift")
			return
		}
	}

	created, err := h.shifts.CreateAssignments(r.Context(), plan)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create assignments")
		return
	}

	if h.metrics != nil {
		h.metrics.AddAssignmentsCreated(len(created))
	}
	auditLog(r, "assign", "shift", shiftID, "count", len(created))
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"assignments": created,
	})
}

// ListAssignments handles GET /api/v1/admin/shifts/{id}/assignments.
func (h *assignmentsHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")

	assignments, err := h.shifts.ListAssignments(r.Context(), shiftID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list assignments")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"assignments": assignments,
	})
}

// Candidates handles GET /api/v1/admin/shifts/{id}/candidates. Users are
// split into those assignable to the shift and those already holding an
// assignment record, expired windows included. An optional search param
// narrows both pools.
func (h *assignmentsHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	shiftID := chi.URLParam(r, "id")

	assignments, err := h.shifts.ListAssignments(r.Context(), shiftID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list assignments")
		return
	}

	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list users")
		return
	}

	pool := directory.FilterCandidates(users, nil, r.URL.Query().Get("search"))
	available, assigned := shift.PartitionCandidates(pool, shift.AssignedIdentities(assignments))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"available": available,
		"assigned":  assigned,
	})
}

// DeleteAssignment handles DELETE /api/v1/admin/assignments/{id}. Removal is
// keyed by the assignment's own id; there is no remove-by-user.
func (h *assignmentsHandler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	removal, err := shift.ReconcileRemoval(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "assignment id is required")
		return
	}

	removed, err := h.shifts.DeleteAssignment(r.Context(), removal.AssignmentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete assignment")
		return
	}
	if removed == 0 {
		writeError(w, http.StatusNotFound, "not_found", "assignment not found")
		return
	}

	if h.metrics != nil {
		h.metrics.IncAssignmentRemoved()
	}
	auditLog(r, "unassign", "assignment", removal.AssignmentID)
	w.WriteHeader(http.StatusNoContent)
}
