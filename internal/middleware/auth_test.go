// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
)

type stubTokens map[string]*Identity

func (s stubTokens) AuthenticateToken(_ context.Context, raw string) (*Identity, error) {
	if raw == "broken" {
		return nil, errors.New("connection refused")
	}
	id, ok := s[raw]
	if !ok {
		return nil, fmt.Errorf("lookup token: %w", core.ErrUnauthorized)
	}
	return id, nil
}

type stubSessions struct {
	id  *Identity
	err error
}

func (s stubSessions) ResolveSession(http.ResponseWriter, *http.Request) (*Identity, error) {
	return s.id, s.err
}

func identityOf(p *authz.Principal) *Identity {
	return &Identity{Real: p, Effective: p}
}

func withRoles(userID string, roles ...authz.Role) *authz.Principal {
	return &authz.Principal{UserID: userID, Roles: authz.NewRoleSet(roles...)}
}

// echoUser answers 200 with the effective user id in a header.
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-User", GetUserID(r.Context()))
	w.WriteHeader(http.StatusOK)
})

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func asIdentity(id *Identity, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id != nil {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		h.ServeHTTP(w, r)
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) core.ErrorBody {
	t.Helper()
	var body core.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success || body.Error == nil {
		t.Fatalf("expected an error envelope, got %s", rec.Body.String())
	}
	return *body.Error
}

func TestExtractToken(t *testing.T) {
	tests := map[string]string{
		"":                   "",
		"Bearer abc123":      "abc123",
		"bearer abc123":      "abc123",
		"BEARER  abc123 ":    "abc123",
		"Basic dXNlcjpwdw==": "",
		"Bearer":             "",
		"Bearerabc123":       "",
		"Token abc123":       "",
	}
	for header, want := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		if got := ExtractToken(r); got != want {
			t.Errorf("ExtractToken(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestBearerAuth(t *testing.T) {
	tokens := stubTokens{"good": identityOf(withRoles("u1", authz.RoleMentee))}
	h := BearerAuth(tokens)(echoUser)

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantUser string
	}{
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", http.StatusUnauthorized, ""},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, ""},
		{"store failure", "Bearer broken", http.StatusInternalServerError, ""},
		{"valid token", "bearer good", http.StatusOK, "u1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rec := serve(h, r)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusUnauthorized {
				body := decodeError(t, rec)
				if body.Code != "UNAUTHENTICATED" || body.Message != "Authentication required." {
					t.Errorf("error = %+v", body)
				}
			}
			if got := rec.Header().Get("X-User"); got != tt.wantUser {
				t.Errorf("user = %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestOptionalBearer(t *testing.T) {
	tokens := stubTokens{"good": identityOf(withRoles("u1", authz.RoleMentor))}
	h := OptionalBearer(tokens)(echoUser)

	for header, wantUser := range map[string]string{
		"":              "",
		"Bearer nope":   "",
		"Bearer good":   "u1",
		"Bearer broken": "",
	} {
		r := httptest.NewRequest(http.MethodPost, "/graphql", nil)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		rec := serve(h, r)
		if rec.Code != http.StatusOK || rec.Header().Get("X-User") != wantUser {
			t.Errorf("%q: status %d user %q, want 200 %q", header, rec.Code, rec.Header().Get("X-User"), wantUser)
		}
	}
}

func TestSessionAuth(t *testing.T) {
	staff := identityOf(withRoles("s1", authz.RoleStaff))

	tests := []struct {
		name     string
		sessions stubSessions
		wantCode int
	}{
		{"no cookie", stubSessions{err: core.ErrUnauthorized}, http.StatusUnauthorized},
		{"expired", stubSessions{err: fmt.Errorf("parse session: %w", core.ErrTokenExpired)}, http.StatusUnauthorized},
		{"tampered", stubSessions{err: core.ErrTokenInvalid}, http.StatusUnauthorized},
		{"user lookup failed", stubSessions{err: errors.New("db down")}, http.StatusInternalServerError},
		{"valid", stubSessions{id: staff}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(SessionAuth(tt.sessions)(echoUser), httptest.NewRequest(http.MethodGet, "/admin/users", nil))
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusUnauthorized {
				if body := decodeError(t, rec); body.Code != "UNAUTHENTICATED" {
					t.Errorf("code = %q", body.Code)
				}
			}
		})
	}
}

func TestRequireRealAdminWhileSpoofing(t *testing.T) {
	admin := withRoles("a1", authz.RoleStaff, authz.RoleAdmin)
	standard := withRoles("s1", authz.RoleStaff)
	mentee := withRoles("m1", authz.RoleMentee)

	tests := []struct {
		name     string
		id       *Identity
		wantCode int
	}{
		{"admin spoofing a mentee", &Identity{Real: admin, Effective: mentee, Spoofing: true}, http.StatusOK},
		{"admin", identityOf(admin), http.StatusOK},
		{"standard staff", identityOf(standard), http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := asIdentity(tt.id, RequireRealAdmin(echoUser))
			rec := serve(h, httptest.NewRequest(http.MethodPut, "/admin/spoof", nil))
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}

	// The spoofed user is effective for everything else.
	spoofing := &Identity{Real: admin, Effective: mentee, Spoofing: true}
	rec := serve(asIdentity(spoofing, RequireSuperuser(echoUser)), httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("superuser gate while spoofing a mentee = %d, want 403", rec.Code)
	}
}

func TestRequireNavigation(t *testing.T) {
	tests := []struct {
		name     string
		p        *authz.Principal
		section  authz.Section
		wantCode int
	}{
		{"mentor opens teams", withRoles("u", authz.RoleMentor), authz.SectionTeams, http.StatusOK},
		{"mentee opens users", withRoles("u", authz.RoleMentee), authz.SectionUsers, http.StatusForbidden},
		{"volunteer opens seasons", withRoles("u", authz.RoleVolunteer), authz.SectionSeasons, http.StatusForbidden},
		{"staff opens seasons", withRoles("u", authz.RoleStaff), authz.SectionSeasons, http.StatusOK},
		{"anonymous", nil, authz.SectionMessages, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id *Identity
			if tt.p != nil {
				id = identityOf(tt.p)
			}
			h := asIdentity(id, RequireNavigation(tt.section)(echoUser))
			rec := serve(h, httptest.NewRequest(http.MethodGet, "/admin", nil))
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if tt.wantCode == http.StatusForbidden {
				if body := decodeError(t, rec); body.Code != "INSUFFICIENT_ROLE" {
					t.Errorf("code = %q", body.Code)
				}
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	tests := []struct {
		name     string
		p        *authz.Principal
		action   authz.Action
		resource authz.Resource
		wantCode int
	}{
		{"mentor views users", withRoles("u", authz.RoleMentor), authz.ActionView, authz.ResourceUser, http.StatusOK},
		{"mentor edits users", withRoles("u", authz.RoleMentor), authz.ActionEdit, authz.ResourceUser, http.StatusForbidden},
		{"volunteer logs attendance", withRoles("u", authz.RoleVolunteer), authz.ActionCreate, authz.ResourceEventLog, http.StatusOK},
		{"guardian creates events", withRoles("u", authz.RoleGuardian), authz.ActionCreate, authz.ResourceEvent, http.StatusForbidden},
		{"staff deletes teams", withRoles("u", authz.RoleStaff), authz.ActionDelete, authz.ResourceTeam, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := asIdentity(identityOf(tt.p), RequirePermission(tt.action, tt.resource)(echoUser))
			rec := serve(h, httptest.NewRequest(http.MethodPost, "/admin", nil))
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestWriteErrorRoutesDenials(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	WriteError(rec, r, fmt.Errorf("update: %w", authz.ErrNotOwner), "relationship")
	if rec.Code != http.StatusForbidden || decodeError(t, rec).Code != "NOT_OWNER" {
		t.Errorf("denial rendered as %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	WriteError(rec, r, core.ErrNotFound, "relationship")
	if rec.Code != http.StatusNotFound {
		t.Errorf("not found rendered as %d", rec.Code)
	}
}
