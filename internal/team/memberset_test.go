package team

import (
	"reflect"
	"testing"

	"github.com/davidhull/crewdesk/internal/directory"
)

func member(id, name string) *directory.User {
	return &directory.User{ID: id, Name: name}
}

func TestMemberSetDeduplicatesByIdentity(t *testing.T) {
	a1 := member("a", "Alice")
	a2 := member("a", "Alice Again") // same identity, different object
	b := member("b", "Bob")

	s := NewMemberSet(a1, b, a2)
	if s.Len() != 2 {
		t.Fatalf("expected 2 members, got %d", s.Len())
	}
	// First occurrence wins.
	if s.Users()[0].Name != "Alice" {
		t.Errorf("expected first occurrence to win, got %q", s.Users()[0].Name)
	}
}

func TestMemberSetPreservesInsertionOrder(t *testing.T) {
	s := NewMemberSet(member("c", ""), member("a", ""), member("b", ""))
	got := s.IDs()
	want := []string{"c", "a", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestMemberSetAddIsImmutable(t *testing.T) {
	s1 := NewMemberSet(member("a", ""))
	s2 := s1.Add(member("b", ""))

	if s1.Len() != 1 {
		t.Errorf("original set mutated: len %d", s1.Len())
	}
	if s2.Len() != 2 {
		t.Errorf("new set wrong: len %d", s2.Len())
	}
}

func TestMemberSetAddIgnoresEmptyIdentity(t *testing.T) {
	s := NewMemberSet().Add(&directory.User{Name: "No ID"}).Add(nil)
	if s.Len() != 0 {
		t.Fatalf("expected empty set, got %d", s.Len())
	}
}

func TestMemberSetRemoveAbsentIsNoop(t *testing.T) {
	s := NewMemberSet(member("a", ""))
	if got := s.Remove("zzz"); got.Len() != 1 {
		t.Errorf("expected no-op, got len %d", got.Len())
	}
}

// toggle(toggle(set, u), u) == set, by identity multiset.
func TestToggleIsInvolutive(t *testing.T) {
	base := NewMemberSet(member("a", ""), member("b", ""))
	u := member("c", "")

	once := base.Toggle(u)
	if !once.Contains("c") {
		t.Fatal("first toggle should add")
	}
	twice := once.Toggle(u)
	if !twice.Equal(base) {
		t.Errorf("double toggle did not restore set: got %v, want %v", twice.IDs(), base.IDs())
	}

	// And from the other direction: start present, toggle twice.
	removedThenBack := base.Toggle(member("a", "")).Toggle(member("a", ""))
	if !removedThenBack.Equal(base) {
		t.Errorf("toggle-toggle from present state: got %v, want %v", removedThenBack.IDs(), base.IDs())
	}
}

func TestDiff(t *testing.T) {
	original := NewMemberSet(member("a", ""), member("b", ""), member("c", ""))
	current := NewMemberSet(member("b", ""), member("c", ""), member("d", ""))

	added, removed := current.Diff(original)
	if len(added) != 1 || added[0].ID != "d" {
		t.Errorf("added: got %v", idsOf(added))
	}
	if len(removed) != 1 || removed[0].ID != "a" {
		t.Errorf("removed: got %v", idsOf(removed))
	}
}

func TestDiffIdentical(t *testing.T) {
	s := NewMemberSet(member("a", ""), member("b", ""))
	added, removed := s.Diff(s)
	if len(added) != 0 || len(removed) != 0 {
		t.Errorf("diff(a, a): added=%v removed=%v", idsOf(added), idsOf(removed))
	}
}

func TestEqualIgnoresOrder(t *testing.T) {
	a := NewMemberSet(member("x", ""), member("y", ""))
	b := NewMemberSet(member("y", ""), member("x", ""))
	if !a.Equal(b) {
		t.Error("expected order-insensitive equality")
	}
	c := b.Add(member("z", ""))
	if a.Equal(c) {
		t.Error("expected sets of different size to differ")
	}
}

func idsOf(users []*directory.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}
