package directory

import "strings"

// FilterCandidates computes the selectable subset of users for a picker.
// Users whose identity appears in excluded are dropped (e.g. the current
// leader is never offered in the member pool and vice versa). A non-blank
// searchText keeps only users whose display name, email, or username
// contains it, case-folded. Input order is preserved; the pickers paginate,
// so re-sorting here would make pages jump.
func FilterCandidates(users []*User, excluded map[string]struct{}, searchText string) []*User {
	query := strings.ToLower(strings.TrimSpace(searchText))

	out := make([]*User, 0, len(users))
	for _, u := range users {
		if u == nil {
			continue
		}
		if _, skip := excluded[u.Identity()]; skip {
			continue
		}
		if query != "" && !matchesQuery(u, query) {
			continue
		}
		out = append(out, u)
	}
	return out
}

func matchesQuery(u *User, query string) bool {
	for _, field := range []string{u.DisplayName(), u.Email, u.Username} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Exclude builds an exclusion set from identities, skipping blanks.
func Exclude(identities ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(identities))
	for _, id := range identities {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}
