// Package auth handles console session authentication: resolving bearer
// tokens to users and injecting the caller into the request context.
package auth

import "context"

// User represents an authenticated console user.
type User struct {
	ID    string
	Email string
	Name  string
	Role  string // "admin" or "member"
}

// IsAdmin reports whether the user holds the org-wide admin role.
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// SessionLookup is the interface for resolving session tokens to users.
type SessionLookup interface {
	LookupSession(ctx context.Context, token string) (*User, error)
}
