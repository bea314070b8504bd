package team

import "github.com/davidhull/crewdesk/internal/directory"

// MemberSet is an ordered roster of users, unique by canonical identity.
// Insertion order is preserved for display stability. All operations return
// a new set; the receiver is never mutated.
type MemberSet struct {
	users []*directory.User
}

// NewMemberSet builds a set from the given users, dropping any whose
// identity is empty or already present (first occurrence wins).
func NewMemberSet(users ...*directory.User) MemberSet {
	s := MemberSet{}
	for _, u := range users {
		s = s.Add(u)
	}
	return s
}

// Len returns the number of members.
func (s MemberSet) Len() int { return len(s.users) }

// Contains reports whether a member with the given identity is present.
func (s MemberSet) Contains(id string) bool {
	if id == "" {
		return false
	}
	for _, u := range s.users {
		if u.Identity() == id {
			return true
		}
	}
	return false
}

// Users returns the members in insertion order. The returned slice is a
// copy; callers may reorder it freely.
func (s MemberSet) Users() []*directory.User {
	out := make([]*directory.User, len(s.users))
	copy(out, s.users)
	return out
}

// IDs returns the member identities in insertion order.
func (s MemberSet) IDs() []string {
	out := make([]string, len(s.users))
	for i, u := range s.users {
		out[i] = u.Identity()
	}
	return out
}

// Add appends a user to the end of the set. Adding a user whose identity is
// already present, or who has no identity, is a no-op.
func (s MemberSet) Add(u *directory.User) MemberSet {
	if u == nil || u.Identity() == "" || s.Contains(u.Identity()) {
		return s
	}
	users := make([]*directory.User, len(s.users), len(s.users)+1)
	copy(users, s.users)
	return MemberSet{users: append(users, u)}
}

// Remove drops the member with the given identity. Removing an absent
// identity is a no-op.
func (s MemberSet) Remove(id string) MemberSet {
	if !s.Contains(id) {
		return s
	}
	users := make([]*directory.User, 0, len(s.users)-1)
	for _, u := range s.users {
		if u.Identity() != id {
			users = append(users, u)
		}
	}
	return MemberSet{users: users}
}

// Toggle adds the user if absent and removes it if present. It is idempotent
// in either direction: toggling twice restores the original membership.
func (s MemberSet) Toggle(u *directory.User) MemberSet {
	if u == nil || u.Identity() == "" {
		return s
	}
	if s.Contains(u.Identity()) {
		return s.Remove(u.Identity())
	}
	return s.Add(u)
}

// Diff compares s against original and returns the users present only in s
// (added) and only in original (removed). Used to build minimal delta
// payloads instead of re-sending the whole roster.
func (s MemberSet) Diff(original MemberSet) (added, removed []*directory.User) {
	added = []*directory.User{}
	removed = []*directory.User{}
	for _, u := range s.users {
		if !original.Contains(u.Identity()) {
			added = append(added, u)
		}
	}
	for _, u := range original.users {
		if !s.Contains(u.Identity()) {
			removed = append(removed, u)
		}
	}
	return added, removed
}

// Equal reports whether two sets hold the same identities, ignoring order.
func (s MemberSet) Equal(o MemberSet) bool {
	if len(s.users) != len(o.users) {
		return false
	}
	for _, u := range s.users {
		if !o.Contains(u.Identity()) {
			return false
		}
	}
	return true
}
