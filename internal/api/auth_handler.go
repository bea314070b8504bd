package api

import (
	"context"
	"net/http"

	"github.com/davidhull/crewdesk/internal/auth"
	"github.com/davidhull/crewdesk/internal/directory"
	"github.com/davidhull/crewdesk/internal/metrics"
)

// sessionLookup adapts the directory store's session table to the auth
// middleware's interface.
type sessionLookup struct {
	store *directory.Store
}

// NewSessionLookup wraps a directory store for use by the auth middleware.
func NewSessionLookup(store *directory.Store) auth.SessionLookup {
	return &sessionLookup{store: store}
}

func (s *sessionLookup) LookupSession(ctx context.Context, token string) (*auth.User, error) {
	u, err := s.store.GetSessionUser(ctx, token)
	if err != nil {
		return nil, err
	}
	return &auth.User{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.DisplayName(),
		Role:  u.Role,
	}, nil
}

// authHandler groups authentication HTTP handlers.
type authHandler struct {
	store   *directory.Store
	metrics *metrics.Metrics
}

func newAuthHandler(store *directory.Store, m *metrics.Metrics) *authHandler {
	return &authHandler{store: store, metrics: m}
}

// Login handles POST /api/v1/auth/login.
func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "email and password are required")
		return
	}

	u, err := h.store.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.recordAuthFailure()
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
		return
	}

	if !directory.CheckPassword(u, req.Password) {
		h.recordAuthFailure()
		writeError(w, http.StatusUnauthorized, "unauthorized", "invalid email or password")
		return
	}

	token, _, err := h.store.CreateSession(r.Context(), u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create session")
		return
	}

	if h.metrics != nil {
		h.metrics.IncAuthSuccess("password")
	}
	auditLog(r, "login", "session", u.ID)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    u.ID,
			"email": u.Email,
			"name":  u.DisplayName(),
			"role":  u.Role,
		},
	})
}

func (h *authHandler) recordAuthFailure() {
	if h.metrics != nil {
		h.metrics.IncAuthFailure("password")
	}
}

// Me handles GET /api/v1/auth/me.
func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	if u == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
		"role":  u.Role,
	})
}

// Logout handles POST /api/v1/auth/logout.
func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := auth.ExtractBearerToken(r)
	if token == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	_ = h.store.DeleteSession(r.Context(), token)
	w.WriteHeader(http.StatusNoContent)
}
