package api

import (
	"errors"
	"net/http"

	"github.com/davidhull/crewdesk/internal/auth"
	"github.com/davidhull/crewdesk/internal/leave"
	"github.com/davidhull/crewdesk/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// leaveHandler groups leave request HTTP handlers.
type leaveHandler struct {
	store   *leave.Store
	metrics *metrics.Metrics
}

func newLeaveHandler(store *leave.Store, m *metrics.Metrics) *leaveHandler {
	return &leaveHandler{store: store, metrics: m}
}

// CreateRequest handles POST /api/v1/member/leave. The request is always
// filed for the caller; admins use the same endpoint for themselves.
func (h *leaveHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	var req leave.Request
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	req.UserID = caller.ID

	if errs := leave.Validate(req); !errs.Valid() {
		writeValidationError(w, errs)
		return
	}

	created, err := h.store.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create leave request")
		return
	}

	auditLog(r, "create", "leave_request", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

// ListOwn handles GET /api/v1/member/leave.
func (h *leaveHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	requests, err := h.store.ListForUser(r.Context(), caller.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list leave requests")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

// ListPending handles GET /api/v1/admin/leave/pending.
func (h *leaveHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.store.ListPending(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list pending leave requests")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

// Approve handles POST /api/v1/admin/leave/{id}/approve.
func (h *leaveHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.StatusApproved)
}

// Reject handles POST /api/v1/admin/leave/{id}/reject.
func (h *leaveHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, leave.StatusRejected)
}

func (h *leaveHandler) decide(w http.ResponseWriter, r *http.Request, status string) {
	id := chi.URLParam(r, "id")

	decided, err := h.store.Decide(r.Context(), id, status)
	if err != nil {
		// A decided request no longer matches the pending filter, so the
		// update returns no row whether the id is unknown or already settled.
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusConflict, "not_pending", "leave request not found or already decided")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to decide leave request")
		return
	}

	if h.metrics != nil {
		h.metrics.IncLeaveDecision(status)
	}
	auditLog(r, status, "leave_request", id)
	writeJSON(w, http.StatusOK, decided)
}
