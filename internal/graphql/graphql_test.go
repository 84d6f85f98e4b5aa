// AngelaMos | 2026
// graphql_test.go

package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mentorcamp/backend/internal/auth"
	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/middleware"
	"github.com/mentorcamp/backend/internal/team"
)

type fakeAuth struct {
	AuthService
	users map[string]*auth.UserInfo
}

func (f *fakeAuth) Me(_ context.Context, userID string) (*auth.UserInfo, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return u, nil
}

func (f *fakeAuth) Login(_ context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	for _, u := range f.users {
		if u.Email == req.Email && req.Password == "correct horse" {
			return &auth.LoginResponse{
				User: auth.ToUserResponse(u),
				Token: auth.TokenResponse{
					Token:     "raw-token",
					TokenType: "Bearer",
					ExpiresAt: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
				},
			}, nil
		}
	}
	return nil, auth.ErrInvalidCredentials
}

type fakeTeams struct {
	TeamService
	created []team.TeamRequest
}

func (f *fakeTeams) Create(_ context.Context, req team.TeamRequest) (*team.Team, error) {
	if req.Name == "Taken" {
		return nil, core.DuplicateError("name")
	}
	f.created = append(f.created, req)
	return &team.Team{ID: "t1", Name: req.Name, Color: req.Color}, nil
}

type gqlResponse struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type payloadBody struct {
	Success bool `json:"success"`
	Team    *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	Token  *string      `json:"token"`
	Errors []FieldError `json:"errors"`
}

func newTestHandler(t *testing.T, teams *fakeTeams) *Handler {
	t.Helper()

	schema, err := NewSchema(Services{
		Auth: &fakeAuth{users: map[string]*auth.UserInfo{
			"u1": {
				ID:     "u1",
				Email:  "mentee@example.com",
				Name:   "Mia",
				Active: true,
				Roles:  authz.NewRoleSet(authz.RoleMentee),
			},
		}},
		Teams: teams,
	})
	if err != nil {
		t.Fatalf("NewSchema() error = %v", err)
	}
	return NewHandler(schema)
}

func execute(t *testing.T, h *Handler, p *authz.Principal, query string) gqlResponse {
	t.Helper()

	body, _ := json.Marshal(map[string]any{"query": query})
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	if p != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), &middleware.Identity{Real: p, Effective: p}))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp gqlResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func decodeField(t *testing.T, resp gqlResponse, field string, dst any) {
	t.Helper()
	raw, ok := resp.Data[field]
	if !ok {
		t.Fatalf("response has no %q field: %+v", field, resp)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decode %s: %v", field, err)
	}
}

func TestMeRequiresAuthentication(t *testing.T) {
	h := newTestHandler(t, &fakeTeams{})

	resp := execute(t, h, nil, `{ me { id } }`)
	if len(resp.Errors) != 1 || resp.Errors[0].Message != "Authentication required." {
		t.Fatalf("errors = %+v, want Authentication required.", resp.Errors)
	}

	mentee := &authz.Principal{UserID: "u1", Roles: authz.NewRoleSet(authz.RoleMentee)}
	resp = execute(t, h, mentee, `{ me { id email roles } }`)
	if len(resp.Errors) != 0 {
		t.Fatalf("errors = %+v", resp.Errors)
	}

	var me struct {
		ID    string   `json:"id"`
		Email string   `json:"email"`
		Roles []string `json:"roles"`
	}
	decodeField(t, resp, "me", &me)
	if me.Email != "mentee@example.com" || len(me.Roles) != 1 || me.Roles[0] != "mentee" {
		t.Errorf("me = %+v", me)
	}
}

func TestLoginPayload(t *testing.T) {
	h := newTestHandler(t, &fakeTeams{})

	tests := []struct {
		name      string
		query     string
		wantToken bool
		wantField string
	}{
		{
			name:      "success",
			query:     `mutation { login(email: "mentee@example.com", password: "correct horse") { token errors { field message } } }`,
			wantToken: true,
		},
		{
			name:      "invalid email",
			query:     `mutation { login(email: "nope", password: "x") { token errors { field message } } }`,
			wantField: "email",
		},
		{
			name:      "bad credentials",
			query:     `mutation { login(email: "mentee@example.com", password: "wrong") { token errors { field message } } }`,
			wantField: "base",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := execute(t, h, nil, tt.query)
			if len(resp.Errors) != 0 {
				t.Fatalf("errors = %+v", resp.Errors)
			}

			var got payloadBody
			decodeField(t, resp, "login", &got)

			if tt.wantToken {
				if got.Token == nil || *got.Token != "raw-token" || len(got.Errors) != 0 {
					t.Errorf("payload = %+v", got)
				}
				return
			}
			if got.Token != nil {
				t.Errorf("token = %q, want null", *got.Token)
			}
			if len(got.Errors) == 0 || got.Errors[0].Field != tt.wantField {
				t.Errorf("errors = %+v, want field %q", got.Errors, tt.wantField)
			}
		})
	}
}

func TestCreateTeamPolicy(t *testing.T) {
	teams := &fakeTeams{}
	h := newTestHandler(t, teams)
	query := `mutation { createTeam(name: "Falcons", color: "#ff0000") { team { id name } errors { field message } } }`

	resp := execute(t, h, nil, query)
	if len(resp.Errors) != 1 || resp.Errors[0].Message != "Authentication required." {
		t.Errorf("anonymous errors = %+v", resp.Errors)
	}

	mentor := &authz.Principal{UserID: "m1", Roles: authz.NewRoleSet(authz.RoleMentor)}
	var got payloadBody
	decodeField(t, execute(t, h, mentor, query), "createTeam", &got)
	if got.Team != nil || len(got.Errors) != 1 || got.Errors[0].Message != authz.ErrInsufficientRole.Message {
		t.Errorf("mentor payload = %+v", got)
	}
	if len(teams.created) != 0 {
		t.Fatal("mentor created a team")
	}

	staff := &authz.Principal{UserID: "s1", Roles: authz.NewRoleSet(authz.RoleStaff)}
	got = payloadBody{}
	decodeField(t, execute(t, h, staff, query), "createTeam", &got)
	if got.Team == nil || got.Team.Name != "Falcons" || len(got.Errors) != 0 {
		t.Errorf("staff payload = %+v", got)
	}

	got = payloadBody{}
	decodeField(t, execute(t, h, staff, `mutation { createTeam(name: "Taken") { team { id } errors { field message } } }`), "createTeam", &got)
	if got.Team != nil || len(got.Errors) != 1 || got.Errors[0].Field != "name" {
		t.Errorf("duplicate payload = %+v", got)
	}
}

func TestServeHTTPRejectsEmptyQuery(t *testing.T) {
	h := newTestHandler(t, &fakeTeams{})

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
