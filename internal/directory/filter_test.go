package directory

import (
	"testing"
)

func u(id, name, email, username string) *User {
	return &User{ID: id, Name: name, Email: email, Username: username}
}

func ids(users []*User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

func TestFilterCandidatesEmptyInput(t *testing.T) {
	got := FilterCandidates(nil, map[string]struct{}{}, "")
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d users", len(got))
	}
	got = FilterCandidates([]*User{}, nil, "anything")
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d users", len(got))
	}
}

func TestFilterCandidatesExcludesIdentities(t *testing.T) {
	users := []*User{
		u("1", "Alice", "alice@corp.io", "alice"),
		u("2", "Bob", "bob@corp.io", "bob"),
		u("3", "Carol", "carol@corp.io", "carol"),
	}

	got := FilterCandidates(users, Exclude("2"), "")
	want := []string{"1", "3"}
	if len(got) != 2 || got[0].ID != want[0] || got[1].ID != want[1] {
		t.Errorf("got %v, want %v", ids(got), want)
	}
}

func TestFilterCandidatesSearch(t *testing.T) {
	users := []*User{
		u("1", "Alice Smith", "alice@corp.io", "asmith"),
		u("2", "Bob Jones", "bob@corp.io", "bjones"),
		u("3", "", "carol@corp.io", "csmithers"),
	}

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"match display name", "alice", []string{"1"}},
		{"case folded", "SMITH", []string{"1", "3"}},
		{"match email", "bob@", []string{"2"}},
		{"match username", "csmithers", []string{"3"}},
		{"whitespace only means no filter", "   ", []string{"1", "2", "3"}},
		{"empty means no filter", "", []string{"1", "2", "3"}},
		{"no match", "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(FilterCandidates(users, nil, tt.search))
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

// Stability: input order must survive filtering.
func TestFilterCandidatesPreservesOrder(t *testing.T) {
	users := []*User{
		u("9", "Zed", "zed@corp.io", "zed"),
		u("1", "Ann", "ann@corp.io", "ann"),
		u("5", "Mia", "mia@corp.io", "mia"),
	}

	got := ids(FilterCandidates(users, nil, ""))
	want := []string{"9", "1", "5"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order not preserved: got %v, want %v", got, want)
		}
	}
}

func TestDisplayNameFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"explicit name", User{Name: "Dana Reyes", FirstName: "X", Email: "d@x"}, "Dana Reyes"},
		{"first and last", User{FirstName: "Dana", LastName: "Reyes"}, "Dana Reyes"},
		{"first only", User{FirstName: "Dana"}, "Dana"},
		{"email fallback", User{Email: "dana@corp.io"}, "dana@corp.io"},
		{"username fallback", User{Username: "dreyes"}, "dreyes"},
		{"nothing", User{}, "Unknown"},
		{"whitespace name ignored", User{Name: "   ", Email: "d@x"}, "d@x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromRecord(t *testing.T) {
	rec := map[string]any{
		"userID":   float64(77),
		"email":    "sam@corp.io",
		"fullName": "Sam Okafor",
		"jobTitle": "Dispatcher",
		"roleTags": []any{"supervisor", "driver"},
	}

	got, ok := FromRecord(rec)
	if !ok {
		t.Fatal("expected record to resolve")
	}
	if got.ID != "77" {
		t.Errorf("id: got %q, want %q", got.ID, "77")
	}
	if got.Name != "Sam Okafor" || got.Email != "sam@corp.io" {
		t.Errorf("unexpected fields: %+v", got)
	}
	if !got.HasRoleTag("Supervisor") {
		t.Error("expected role tag match to be case-insensitive")
	}
}

func TestFromRecordUnresolvable(t *testing.T) {
	if _, ok := FromRecord(map[string]any{"email": "nobody@corp.io"}); ok {
		t.Fatal("expected record without identity to be rejected")
	}
}
