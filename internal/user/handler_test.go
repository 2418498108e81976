package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/gripeboard/service-api/internal/auth"
	"github.com/gripeboard/service-api/internal/user"
	"github.com/gripeboard/service-api/internal/user/entity"
)

// fakeLister returns a fixed newest-first slice, hashes included, the way
// the SQL repo would.
type fakeLister struct {
	rows []*entity.User
}

func (f *fakeLister) List(ctx context.Context) ([]*entity.User, error) {
	return f.rows, nil
}

func seedUsers() *fakeLister {
	now := time.Now()
	return &fakeLister{rows: []*entity.User{
		{ID: "u2", Email: "bob@example.com", PasswordHash: "$2a$10$bobhash", Name: "Bob", CreatedAt: now},
		{ID: "u1", Email: "alice@example.com", PasswordHash: "$2a$10$alicehash", Name: "Alice", IsAdmin: true, CreatedAt: now.Add(-time.Hour)},
	}}
}

func listAs(t *testing.T, u *entity.PublicUser) *httptest.ResponseRecorder {
	t.Helper()
	h := user.NewHandler(user.NewService(seedUsers()), zap.NewNop().Sugar())
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	if u != nil {
		req = req.WithContext(auth.WithUser(req.Context(), u))
	}
	rec := httptest.NewRecorder()
	h.List(rec, req)
	return rec
}

func TestListRequiresAuth(t *testing.T) {
	if rec := listAs(t, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401", rec.Code)
	}
}

func TestListRequiresAdmin(t *testing.T) {
	rec := listAs(t, &entity.PublicUser{ID: "u2", Name: "Bob"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin status = %d, want 403", rec.Code)
	}
}

func TestListAsAdmin(t *testing.T) {
	rec := listAs(t, &entity.PublicUser{ID: "u1", Name: "Alice", IsAdmin: true})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d", rec.Code)
	}

	var out struct {
		Users []map[string]any `json:"users"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Users) != 2 {
		t.Fatalf("got %d users, want 2", len(out.Users))
	}
	// newest-first order preserved from the store
	if out.Users[0]["email"] != "bob@example.com" {
		t.Fatalf("unexpected order: %v first", out.Users[0]["email"])
	}
	for _, u := range out.Users {
		for k := range u {
			if strings.Contains(strings.ToLower(k), "password") || strings.Contains(strings.ToLower(k), "hash") {
				t.Fatalf("listing leaks field %q", k)
			}
		}
	}
	if body := rec.Body.String(); strings.Contains(body, "$2a$") {
		t.Fatalf("listing leaks hash material: %s", body)
	}
}
