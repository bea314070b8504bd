package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/davidhull/crewdesk/internal/directory"
	"github.com/davidhull/crewdesk/internal/metrics"
	"github.com/davidhull/crewdesk/internal/validate"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// usersHandler groups user directory HTTP handlers (admin only).
type usersHandler struct {
	store   *directory.Store
	metrics *metrics.Metrics
}

func newUsersHandler(store *directory.Store, m *metrics.Metrics) *usersHandler {
	return &usersHandler{store: store, metrics: m}
}

// CreateUser handles POST /api/v1/admin/users.
func (h *usersHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req directory.CreateUserInput
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	var errs validate.Errors
	if req.Email == "" {
		errs = errs.Add("email", "email is required")
	}
	if req.Password == "" {
		errs = errs.Add("password", "password is required")
	}
	if req.Role != "" && req.Role != "admin" && req.Role != "member" {
		errs = errs.Add("role", "role must be admin or member")
	}
	if !errs.Valid() {
		writeValidationError(w, errs)
		return
	}

	u, err := h.store.Create(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create user")
		return
	}

	auditLog(r, "create", "user", u.ID)
	writeJSON(w, http.StatusCreated, u)
}

// ListUsers handles GET /api/v1/admin/users.
func (h *usersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list users")
		return
	}

	if users == nil {
		users = []*directory.User{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
	})
}

// GetUser handles GET /api/v1/admin/users/{id}.
func (h *usersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	u, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get user")
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// UpdateUser handles PUT /api/v1/admin/users/{id}.
func (h *usersHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var input directory.UpdateUserInput
	if err := readJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if input.Role != nil && *input.Role != "admin" && *input.Role != "member" {
		writeValidationError(w, validate.Errors{}.Add("role", "role must be admin or member"))
		return
	}

	u, err := h.store.Update(r.Context(), id, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update user")
		return
	}

	auditLog(r, "update", "user", u.ID)
	writeJSON(w, http.StatusOK, u)
}

// DeleteUser handles DELETE /api/v1/admin/users/{id}.
func (h *usersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.store.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get user")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete user")
		return
	}

	auditLog(r, "delete", "user", id)
	w.WriteHeader(http.StatusNoContent)
}

// SyncDirectory handles POST /api/v1/admin/directory/sync. The body carries
// raw records from the upstream directory; each record's identifier may sit
// under any known alias. Records with no resolvable identity are skipped and
// reported, not fatal.
func (h *usersHandler) SyncDirectory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Records []map[string]any `json:"records"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	upserted := 0
	skipped := 0
	for _, rec := range req.Records {
		u, ok := directory.FromRecord(rec)
		if !ok {
			skipped++
			h.recordSync("skipped")
			continue
		}
		if _, err := h.store.Upsert(r.Context(), u); err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to upsert user "+u.ID)
			return
		}
		upserted++
		h.recordSync("upserted")
	}

	auditLog(r, "sync", "directory", "", "upserted", upserted, "skipped", skipped)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"upserted": upserted,
		"skipped":  skipped,
	})
}

func (h *usersHandler) recordSync(outcome string) {
	if h.metrics != nil {
		h.metrics.IncSyncRecord(outcome)
	}
}

// Candidates handles GET /api/v1/admin/users/candidates. Query params:
// search filters on display name, email, or username; exclude is a
// comma-separated list of identities to drop (e.g. the current leader when
// picking members).
func (h *usersHandler) Candidates(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list users")
		return
	}

	var excludeIDs []string
	if raw := r.URL.Query().Get("exclude"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			excludeIDs = append(excludeIDs, strings.TrimSpace(id))
		}
	}
	excluded := directory.Exclude(excludeIDs...)

	candidates := directory.FilterCandidates(users, excluded, r.URL.Query().Get("search"))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"users": candidates,
	})
}
