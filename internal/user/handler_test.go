// AngelaMos | 2026
// handler_test.go

package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/middleware"
	"github.com/mentorcamp/backend/internal/profile"
)

var standardStaff = &authz.Principal{
	UserID: "standard",
	Roles:  authz.NewRoleSet(authz.RoleStaff),
}

func newConsole(t *testing.T) (*Service, *memStore, func(p *authz.Principal) http.Handler) {
	t.Helper()
	svc, store, _ := newTestService(t)
	h := NewHandler(svc, profile.NewService(memProfiles{store}, svc))

	as := func(p *authz.Principal) http.Handler {
		r := chi.NewRouter()
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id := &middleware.Identity{Real: p, Effective: p}
				next.ServeHTTP(w, r.WithContext(middleware.WithIdentity(r.Context(), id)))
			})
		})
		h.RegisterAdminRoutes(r)
		return r
	}
	return svc, store, as
}

func send(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body core.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error == nil {
		return ""
	}
	return body.Error.Code
}

func TestCreateUserRoleEscalation(t *testing.T) {
	tests := []struct {
		name     string
		actor    *authz.Principal
		roles    string
		wantCode int
	}{
		{"standard staff grants admin", standardStaff, `["admin"]`, http.StatusForbidden},
		{"standard staff grants staff", standardStaff, `["mentor","staff"]`, http.StatusForbidden},
		{"standard staff grants mentor", standardStaff, `["mentor"]`, http.StatusCreated},
		{"admin grants admin", root, `["admin"]`, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, store, as := newConsole(t)

			body := `{"email":"new@example.com","password":"long-enough","name":"New","roles":` + tt.roles + `}`
			rec := send(as(tt.actor), http.MethodPost, "/users/", body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d, body = %s", rec.Code, tt.wantCode, rec.Body.String())
			}

			if tt.wantCode == http.StatusForbidden {
				if code := errorCode(t, rec); code != "INSUFFICIENT_ROLE" {
					t.Errorf("error code = %q", code)
				}
				if len(store.users) != 0 {
					t.Error("account created despite refusal")
				}
			}
		})
	}
}

func TestAdminAccountChangesNeedAdmin(t *testing.T) {
	svc, store, as := newConsole(t)

	target, err := svc.Create(context.Background(), root, CreateUserRequest{
		Email:    "admin@example.com",
		Password: "long-enough",
		Name:     "Admin",
		Roles:    []string{"admin"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	path := "/users/" + target.User.ID

	staff := as(standardStaff)
	refused := []struct {
		method, path, body string
	}{
		{http.MethodPatch, path, `{"email":"takeover@example.com"}`},
		{http.MethodPost, path + "/deactivate", ""},
		{http.MethodDelete, path, ""},
	}
	for _, c := range refused {
		rec := send(staff, c.method, c.path, c.body)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s %s = %d, want 403", c.method, c.path, rec.Code)
		}
	}

	stored := store.users[target.User.ID]
	if stored.Email != "admin@example.com" || !stored.Active {
		t.Fatalf("admin account changed: %+v", stored)
	}

	rec := send(as(root), http.MethodPatch, path, `{"name":"Renamed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin update = %d, body = %s", rec.Code, rec.Body.String())
	}
	if store.users[target.User.ID].Name != "Renamed" {
		t.Error("admin update not stored")
	}
}

func TestStandardStaffManagesNonAdmins(t *testing.T) {
	svc, store, as := newConsole(t)

	mentor, err := svc.Create(context.Background(), root, CreateUserRequest{
		Email:    "mentor@example.com",
		Password: "long-enough",
		Name:     "Mentor",
		Roles:    []string{"mentor"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	rec := send(as(standardStaff), http.MethodPost, "/users/"+mentor.User.ID+"/deactivate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate = %d, body = %s", rec.Code, rec.Body.String())
	}
	if store.users[mentor.User.ID].Active {
		t.Error("mentor still active")
	}
}
