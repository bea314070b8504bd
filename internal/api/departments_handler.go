package api

import (
	"errors"
	"net/http"

	"github.com/davidhull/crewdesk/internal/department"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// departmentsHandler groups department HTTP handlers (admin only).
type departmentsHandler struct {
	store *department.Store
}

func newDepartmentsHandler(store *department.Store) *departmentsHandler {
	return &departmentsHandler{store: store}
}

// CreateDepartment handles POST /api/v1/admin/departments.
func (h *departmentsHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name is required")
		return
	}

	d, err := h.store.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create department")
		return
	}

	auditLog(r, "create", "department", d.ID)
	writeJSON(w, http.StatusCreated, d)
}

// ListDepartments handles GET /api/v1/admin/departments.
func (h *departmentsHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	deps, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list departments")
		return
	}

	if deps == nil {
		deps = []*department.Department{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"departments": deps,
	})
}

// RenameDepartment handles PUT /api/v1/admin/departments/{id}.
func (h *departmentsHandler) RenameDepartment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		Name string `json:"name"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name is required")
		return
	}

	d, err := h.store.Rename(r.Context(), id, req.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "department not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to rename department")
		return
	}

	auditLog(r, "rename", "department", d.ID)
	writeJSON(w, http.StatusOK, d)
}

// DeleteDepartment handles DELETE /api/v1/admin/departments/{id}. Deleting a
// department that teams still reference fails with a conflict.
func (h *departmentsHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusConflict, "constraint_error", "department is still referenced by teams")
		return
	}

	auditLog(r, "delete", "department", id)
	w.WriteHeader(http.StatusNoContent)
}
