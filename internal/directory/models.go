package directory

import (
	"strings"
	"time"

	"github.com/davidhull/crewdesk/internal/identity"
)

// User is a person in the org directory. The ID field always holds the
// canonical identity produced by the identity package; records arriving with
// a different id alias are normalized at the ingestion boundary.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	JobTitle     string    `json:"jobTitle"`
	RoleTags     []string  `json:"roleTags"`
	Role         string    `json:"role"` // "admin" or "member"
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity returns the user's canonical identity key, or "" when the user
// was never resolved.
func (u *User) Identity() string {
	if u == nil {
		return ""
	}
	return u.ID
}

// DisplayName derives the name shown in rosters and pickers: the explicit
// name, else first+last, else email, else username, else "Unknown".
func (u *User) DisplayName() string {
	if n := strings.TrimSpace(u.Name); n != "" {
		return n
	}
	full := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if full != "" {
		return full
	}
	if u.Email != "" {
		return u.Email
	}
	if u.Username != "" {
		return u.Username
	}
	return "Unknown"
}

// HasRoleTag reports whether the user carries the given role tag.
func (u *User) HasRoleTag(tag string) bool {
	for _, t := range u.RoleTags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// FromRecord builds a User from a raw directory payload whose identifier may
// sit under any of the known aliases. The second return is false when no
// identity can be resolved; such records are unusable and must be skipped.
func FromRecord(rec map[string]any) (*User, bool) {
	id, ok := identity.Resolve(rec)
	if !ok {
		return nil, false
	}

	u := &User{
		ID:        id,
		Email:     stringField(rec, "email"),
		Username:  stringField(rec, "username", "userName"),
		Name:      stringField(rec, "name", "displayName", "fullName"),
		FirstName: stringField(rec, "firstName", "first_name"),
		LastName:  stringField(rec, "lastName", "last_name"),
		JobTitle:  stringField(rec, "jobTitle", "job_title", "title"),
	}

	if tags, ok := rec["roleTags"].([]any); ok {
		for _, tag := range tags {
			if s, ok := tag.(string); ok && s != "" {
				u.RoleTags = append(u.RoleTags, s)
			}
		}
	}
	return u, true
}

func stringField(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := rec[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// CreateUserInput holds the fields required to create a new user.
type CreateUserInput struct {
	Email     string   `json:"email"`
	Username  string   `json:"username"`
	Password  string   `json:"password"`
	Name      string   `json:"name"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	JobTitle  string   `json:"jobTitle"`
	RoleTags  []string `json:"roleTags"`
	Role      string   `json:"role"`
}

// UpdateUserInput holds optional fields for a partial user update.
type UpdateUserInput struct {
	Email     *string   `json:"email,omitempty"`
	Username  *string   `json:"username,omitempty"`
	Password  *string   `json:"password,omitempty"`
	Name      *string   `json:"name,omitempty"`
	FirstName *string   `json:"firstName,omitempty"`
	LastName  *string   `json:"lastName,omitempty"`
	JobTitle  *string   `json:"jobTitle,omitempty"`
	RoleTags  *[]string `json:"roleTags,omitempty"`
	Role      *string   `json:"role,omitempty"`
}

// Session represents an active login session.
type Session struct {
	TokenHash string    `json:"-"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}
