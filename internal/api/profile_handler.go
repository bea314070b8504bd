package api

import (
	"net/http"

	"github.com/davidhull/crewdesk/internal/auth"
	"github.com/davidhull/crewdesk/internal/directory"
	"github.com/davidhull/crewdesk/internal/shift"
	"github.com/davidhull/crewdesk/internal/team"
)

// profileHandler groups member self-service HTTP handlers.
type profileHandler struct {
	users  *directory.Store
	teams  *team.Store
	shifts *shift.Store
}

func newProfileHandler(users *directory.Store, teams *team.Store, shifts *shift.Store) *profileHandler {
	return &profileHandler{users: users, teams: teams, shifts: shifts}
}

// GetProfile handles GET /api/v1/member/me: the caller's full directory
// record.
func (h *profileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	u, err := h.users.GetByID(r.Context(), caller.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// UpdateProfile handles PUT /api/v1/member/me. Members may change their own
// name and password only; everything else requires an admin.
func (h *profileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Password *string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	input := directory.UpdateUserInput{
		Name:     req.Name,
		Password: req.Password,
	}

	u, err := h.users.Update(r.Context(), caller.ID, input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to update profile")
		return
	}

	auditLog(r, "update", "profile", caller.ID)
	writeJSON(w, http.StatusOK, u)
}

// MyTeams handles GET /api/v1/member/teams: teams where the caller is a
// member or the leader.
func (h *profileHandler) MyTeams(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	recs, err := h.teams.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list teams")
		return
	}

	mine := []*team.Record{}
	for _, rec := range recs {
		if rec.LeaderID == caller.ID {
			mine = append(mine, rec)
			continue
		}
		for _, id := range rec.MemberIDs {
			if id == caller.ID {
				mine = append(mine, rec)
				break
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"teams": mine,
	})
}

// MyAssignments handles GET /api/v1/member/assignments: the caller's shift
// assignments across all shifts, expired windows included.
func (h *profileHandler) MyAssignments(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())
	if caller == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	assignments, err := h.shifts.ListAssignmentsForUser(r.Context(), caller.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list assignments")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"assignments": assignments,
	})
}
