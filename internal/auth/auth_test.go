package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// --- mock session lookup ---

type mockSessions struct {
	users map[string]*User
}

func (m *mockSessions) LookupSession(ctx context.Context, token string) (*User, error) {
	u, ok := m.users[token]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid", "Bearer abc123", "abc123"},
		{"case insensitive scheme", "bearer abc123", "abc123"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"no token", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := ExtractBearerToken(r); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAdminMiddleware(t *testing.T) {
	sessions := &mockSessions{users: map[string]*User{
		"admin-token":  {ID: "1", Role: "admin"},
		"member-token": {ID: "2", Role: "member"},
	}}

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantCalled bool
	}{
		{"admin passes", "admin-token", http.StatusOK, true},
		{"member forbidden", "member-token", http.StatusForbidden, false},
		{"unknown token", "bad-token", http.StatusUnauthorized, false},
		{"no token", "", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := okHandler()
			handler := AdminMiddleware(sessions)(next)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			if *called != tt.wantCalled {
				t.Errorf("next called: got %v, want %v", *called, tt.wantCalled)
			}
			if !tt.wantCalled {
				var body errorResponse
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("decode error body: %v", err)
				}
				if body.Error.Code == "" {
					t.Error("expected error code in body")
				}
			}
		})
	}
}

func TestMemberMiddlewareInjectsUser(t *testing.T) {
	sessions := &mockSessions{users: map[string]*User{
		"tok": {ID: "42", Email: "m@corp.io", Role: "member"},
	}}

	var got *User
	handler := MemberMiddleware(sessions)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = UserFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer tok")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.ID != "42" {
		t.Fatalf("expected user 42 in context, got %+v", got)
	}
}

func TestUserFromContextMissing(t *testing.T) {
	if u := UserFromContext(context.Background()); u != nil {
		t.Errorf("expected nil, got %+v", u)
	}
}
