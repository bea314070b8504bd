package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/davidhull/crewdesk/internal/directory"
	"github.com/davidhull/crewdesk/internal/metrics"
	"github.com/davidhull/crewdesk/internal/team"
	"github.com/davidhull/crewdesk/internal/validate"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
)

// teamsHandler groups team HTTP handlers (admin only).
type teamsHandler struct {
	teams   *team.Store
	users   *directory.Store
	metrics *metrics.Metrics
}

func newTeamsHandler(teams *team.Store, users *directory.Store, m *metrics.Metrics) *teamsHandler {
	return &teamsHandler{teams: teams, users: users, metrics: m}
}

// teamBody is the wire shape for creating or updating a team. The roster
// travels alongside the team fields; the member step is split off internally.
type teamBody struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	TeamLeadID   string   `json:"teamLeadId"`
	DepartmentID string   `json:"departmentId"`
	UserIDs      []string `json:"userIds"`
}

// teamView is the response shape for a team with its roster expanded.
type teamView struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	DepartmentID string            `json:"departmentId"`
	Leader       *directory.User   `json:"leader,omitempty"`
	Members      []*directory.User `json:"members"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

func viewTeam(t team.Team) teamView {
	return teamView{
		ID:           t.ID,
		Name:         t.Name,
		Description:  t.Description,
		DepartmentID: t.DepartmentID,
		Leader:       t.Leader,
		Members:      t.Members.Users(),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// hydrate resolves a stored record into a Team with its leader and roster
// loaded from the directory.
func (h *teamsHandler) hydrate(ctx context.Context, rec *team.Record) (team.Team, error) {
	ids := append([]string{}, rec.MemberIDs...)
	if rec.LeaderID != "" {
		ids = append(ids, rec.LeaderID)
	}

	users, err := h.users.GetByIDs(ctx, ids)
	if err != nil {
		return team.Team{}, err
	}
	byID := make(map[string]*directory.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	return team.Hydrate(*rec, func(id string) *directory.User { return byID[id] }), nil
}

// buildTeam assembles an in-memory Team from a request body, resolving the
// leader and roster against the directory. Unknown roster ids surface as
// field errors rather than being silently dropped.
func (h *teamsHandler) buildTeam(ctx context.Context, body teamBody) (team.Team, validate.Errors, error) {
	t := team.Team{
		Name:         body.Name,
		Description:  body.Description,
		DepartmentID: body.DepartmentID,
		Members:      team.NewMemberSet(),
	}

	var errs validate.Errors

	if body.TeamLeadID != "" {
		leader, err := h.users.GetByID(ctx, body.TeamLeadID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				errs = errs.Add("teamLeadId", "team leader not found")
			} else {
				return team.Team{}, nil, err
			}
		} else {
			t, _ = team.SetLeader(t, leader)
		}
	}

	if len(body.UserIDs) > 0 {
		users, err := h.users.GetByIDs(ctx, body.UserIDs)
		if err != nil {
			return team.Team{}, nil, err
		}
		if len(users) != len(uniqueIDs(body.UserIDs)) {
			errs = errs.Add("userIds", "one or more users not found")
		}
		for _, u := range users {
			if next, err := team.ToggleMember(t, u); err == nil {
				t = next
			}
		}
	}

	errs = append(errs, team.ValidateForSubmit(t)...)
	return t, errs, nil
}

func uniqueIDs(ids []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// ListTeams handles GET /api/v1/admin/teams.
func (h *teamsHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	recs, err := h.teams.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list teams")
		return
	}

	teams := make([]teamView, 0, len(recs))
	for _, rec := range recs {
		t, err := h.hydrate(r.Context(), rec)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to load team roster")
			return
		}
		teams = append(teams, viewTeam(t))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"teams": teams,
	})
}

// GetTeam handles GET /api/v1/admin/teams/{id}.
func (h *teamsHandler) GetTeam(w http.ResponseWriter, r *http.Request) {
	rec, err := h.teams.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "team not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get team")
		return
	}

	t, err := h.hydrate(r.Context(), rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load team roster")
		return
	}

	writeJSON(w, http.StatusOK, viewTeam(t))
}

// CreateTeam handles POST /api/v1/admin/teams. Creation is two sequential
// steps: the team row first, then the roster once the new id is known. When
// the roster step fails after the row landed, the response is 207 carrying
// the created team and the failed step, so the client retries only the
// member step instead of recreating the team.
func (h *teamsHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var body teamBody
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	t, errs, err := h.buildTeam(r.Context(), body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to resolve team users")
		return
	}
	if !errs.Valid() {
		writeValidationError(w, errs)
		return
	}

	createReq, memberReq := team.BuildCreateRequest(t)
	rec, err := h.teams.Create(r.Context(), createReq)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create team")
		return
	}

	if memberReq != nil {
		memberReq.TeamID = rec.ID
		if err := h.teams.ReplaceMembers(r.Context(), memberReq.TeamID, memberReq.UserIDs); err != nil {
			created, hydrateErr := h.hydrate(r.Context(), rec)
			if hydrateErr != nil {
				created = team.Team{ID: rec.ID, Name: rec.Name}
			}
			pf := &team.PartialFailure{Created: &created, Step: "members", Err: err}
			if h.metrics != nil {
				h.metrics.IncTeamPartialFailure()
			}
			auditLog(r, "create_partial", "team", rec.ID, "failed_step", pf.Step)
			writeJSON(w, http.StatusMultiStatus, map[string]interface{}{
				"team": viewTeam(created),
				"partialFailure": map[string]interface{}{
					"step":    pf.Step,
					"message": "team was created but adding members failed; retry the member step",
				},
			})
			return
		}
		rec.MemberIDs = memberReq.UserIDs
	}

	created, err := h.hydrate(r.Context(), rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load team roster")
		return
	}

	h.recordRoster("create")
	auditLog(r, "create", "team", rec.ID)
	writeJSON(w, http.StatusCreated, viewTeam(created))
}

// UpdateTeam handles PUT /api/v1/admin/teams/{id}. The submitted roster
// replaces the stored one wholesale; omitting a current member removes them.
func (h *teamsHandler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.teams.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "team not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get team")
		return
	}
	original, err := h.hydrate(r.Context(), rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load team roster")
		return
	}

	var body teamBody
	if err := readJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	t, errs, err := h.buildTeam(r.Context(), body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to resolve team users")
		return
	}
	if !errs.Valid() {
		writeValidationError(w, errs)
		return
	}

	updateReq, memberReq := team.BuildUpdateRequest(t, original)
	if _, err := h.teams.Update(r.Context(), id, updateReq); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update team")
		return
	}
	if err := h.teams.ReplaceMembers(r.Context(), memberReq.TeamID, memberReq.UserIDs); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "team was updated but replacing members failed")
		return
	}

	updated, err := h.reload(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load team roster")
		return
	}

	h.recordRoster("update")
	auditLog(r, "update", "team", id)
	writeJSON(w, http.StatusOK, viewTeam(updated))
}

// DeleteTeam handles DELETE /api/v1/admin/teams/{id}.
func (h *teamsHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.teams.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete team")
		return
	}

	auditLog(r, "delete", "team", id)
	w.WriteHeader(http.StatusNoContent)
}

// SetLeader handles PUT /api/v1/admin/teams/{id}/leader. Promoting a current
// member evicts them from the roster in the same step.
func (h *teamsHandler) SetLeader(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		UserID string `json:"userId"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.UserID == "" {
		writeValidationError(w, validate.Errors{}.Add("userId", "user is required"))
		return
	}

	t, ok := h.loadTeam(w, r, id)
	if !ok {
		return
	}

	candidate, err := h.users.GetByID(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get user")
		return
	}

	next, err := team.SetLeader(t, candidate)
	if err != nil {
		writeValidationError(w, validate.Errors{}.Add("userId", "user has no resolvable identity"))
		return
	}

	if !h.persist(w, r, id, next) {
		return
	}
	h.recordRoster("leader")
	auditLog(r, "set_leader", "team", id, "leader_id", candidate.ID)
}

// RemoveLeader handles DELETE /api/v1/admin/teams/{id}/leader. The team is
// left leaderless; no member is promoted.
func (h *teamsHandler) RemoveLeader(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	t, ok := h.loadTeam(w, r, id)
	if !ok {
		return
	}

	next := team.RemoveLeader(t)
	if !h.persist(w, r, id, next) {
		return
	}
	h.recordRoster("leader")
	auditLog(r, "remove_leader", "team", id)
}

// ToggleMember handles POST /api/v1/admin/teams/{id}/members/toggle. Adds
// the user to the roster if absent, removes them if present. Toggling the
// current leader is a no-op.
func (h *teamsHandler) ToggleMember(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req struct {
		UserID string `json:"userId"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if req.UserID == "" {
		writeValidationError(w, validate.Errors{}.Add("userId", "user is required"))
		return
	}

	t, ok := h.loadTeam(w, r, id)
	if !ok {
		return
	}

	candidate, err := h.users.GetByID(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get user")
		return
	}

	next, err := team.ToggleMember(t, candidate)
	if err != nil {
		writeValidationError(w, validate.Errors{}.Add("userId", "user has no resolvable identity"))
		return
	}

	if !h.persist(w, r, id, next) {
		return
	}
	h.recordRoster("toggle")
	auditLog(r, "toggle_member", "team", id, "member_id", candidate.ID)
}

// loadTeam fetches and hydrates a team, writing the error response itself on
// failure.
func (h *teamsHandler) loadTeam(w http.ResponseWriter, r *http.Request, id string) (team.Team, bool) {
	rec, err := h.teams.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "not_found", "team not found")
			return team.Team{}, false
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get team")
		return team.Team{}, false
	}

	t, err := h.hydrate(r.Context(), rec)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load team roster")
		return team.Team{}, false
	}
	return t, true
}

// persist writes a transitioned team back (fields and roster) and responds
// with the reloaded team.
func (h *teamsHandler) persist(w http.ResponseWriter, r *http.Request, id string, t team.Team) bool {
	update := team.UpdateRequest{
		Name:         t.Name,
		Description:  t.Description,
		TeamLeadID:   t.LeaderID(),
		DepartmentID: t.DepartmentID,
	}
	if _, err := h.teams.Update(r.Context(), id, update); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update team")
		return false
	}
	if err := h.teams.ReplaceMembers(r.Context(), id, t.Members.IDs()); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "team was updated but replacing members failed")
		return false
	}

	updated, err := h.reload(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load team roster")
		return false
	}

	writeJSON(w, http.StatusOK, viewTeam(updated))
	return true
}

func (h *teamsHandler) reload(ctx context.Context, id string) (team.Team, error) {
	rec, err := h.teams.GetByID(ctx, id)
	if err != nil {
		return team.Team{}, err
	}
	return h.hydrate(ctx, rec)
}

func (h *teamsHandler) recordRoster(operation string) {
	if h.metrics != nil {
		h.metrics.IncRosterReplacement(operation)
	}
}
