// AngelaMos | 2026
// schema.go

package graphql

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	gql "github.com/graphql-go/graphql"

	"github.com/mentorcamp/backend/internal/auth"
	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/device"
	"github.com/mentorcamp/backend/internal/event"
	"github.com/mentorcamp/backend/internal/message"
	"github.com/mentorcamp/backend/internal/relationship"
	"github.com/mentorcamp/backend/internal/season"
	"github.com/mentorcamp/backend/internal/team"
	"github.com/mentorcamp/backend/internal/user"
)

type AuthService interface {
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
	Logout(ctx context.Context, tokenHash string) error
	Me(ctx context.Context, userID string) (*auth.UserInfo, error)
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.UserInfo, error)
	Confirm(ctx context.Context, token string) (*auth.UserInfo, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

type UserService interface {
	List(ctx context.Context, params user.ListUsersParams) ([]user.Detail, int, error)
	Get(ctx context.Context, id string) (*user.Detail, error)
}

type TeamService interface {
	List(ctx context.Context) ([]team.Team, error)
	Create(ctx context.Context, req team.TeamRequest) (*team.Team, error)
	Update(ctx context.Context, id string, req team.TeamRequest) (*team.Team, error)
	Delete(ctx context.Context, id string) error
}

type EventService interface {
	ListTypes(ctx context.Context) ([]event.EventType, error)
	List(ctx context.Context, params event.ListParams) ([]event.Event, error)
	Create(ctx context.Context, actor *authz.Principal, req event.EventRequest) (*event.Event, error)
	Update(ctx context.Context, actor *authz.Principal, id string, req event.EventRequest) (*event.Event, error)
	Delete(ctx context.Context, id string) error
	Register(ctx context.Context, eventID, userID string) (*event.EventLog, error)
	CheckIn(ctx context.Context, eventID, userID string) (*event.EventLog, error)
	PointsFor(ctx context.Context, userID, seasonID string) (*event.Points, error)
	CurrentPoints(ctx context.Context, userID string) (*event.Points, error)
}

type SeasonService interface {
	List(ctx context.Context) ([]season.Season, error)
	Current(ctx context.Context) (*season.Season, bool, error)
}

type RelationshipService interface {
	Create(
		ctx context.Context,
		actor *authz.Principal,
		req relationship.CreateRelationshipRequest,
	) (*relationship.UserRelationship, error)
	Update(
		ctx context.Context,
		actor *authz.Principal,
		id string,
		req relationship.UpdateRelationshipRequest,
	) (*relationship.UserRelationship, error)
	Delete(ctx context.Context, actor *authz.Principal, id string) error
	CreateFamilyMember(
		ctx context.Context,
		actor *authz.Principal,
		req relationship.CreateFamilyMemberRequest,
	) (*relationship.FamilyMember, error)
	UpdateFamilyMember(
		ctx context.Context,
		actor *authz.Principal,
		id string,
		req relationship.UpdateFamilyMemberRequest,
	) (*relationship.FamilyMember, error)
	DeleteFamilyMember(ctx context.Context, actor *authz.Principal, id string) error
}

type MessageService interface {
	Inbox(ctx context.Context, actor *authz.Principal, params message.InboxParams) ([]message.InboxItem, error)
	Thread(ctx context.Context, actor *authz.Principal, messageID string) ([]message.Message, error)
	Send(ctx context.Context, actor *authz.Principal, req message.SendRequest) (*message.Message, error)
	Reply(
		ctx context.Context,
		actor *authz.Principal,
		parentID string,
		req message.ReplyRequest,
	) (*message.Message, error)
	MarkRead(ctx context.Context, actor *authz.Principal, messageID string) error
	Archive(ctx context.Context, actor *authz.Principal, messageID string, archived bool) error
}

type DeviceService interface {
	Register(ctx context.Context, actor *authz.Principal, req device.RegisterRequest) (*device.UserDevice, error)
}

// Services are the domain services the schema resolves against. Every one
// of them must be set.
type Services struct {
	Auth          AuthService
	Users         UserService
	Teams         TeamService
	Events        EventService
	Seasons       SeasonService
	Relationships RelationshipService
	Messages      MessageService
	Devices       DeviceService
}

type resolver struct {
	svc       Services
	validator *validator.Validate
}

// NewSchema builds the public schema over svc.
func NewSchema(svc Services) (gql.Schema, error) {
	r := &resolver{svc: svc, validator: core.NewValidator()}

	schema, err := gql.NewSchema(gql.SchemaConfig{
		Query:    gql.NewObject(gql.ObjectConfig{Name: "Query", Fields: r.queries()}),
		Mutation: gql.NewObject(gql.ObjectConfig{Name: "Mutation", Fields: r.mutations()}),
	})
	if err != nil {
		return gql.Schema{}, fmt.Errorf("build graphql schema: %w", err)
	}
	return schema, nil
}

// validate reports struct validation failures as a core.ValidationError.
func (r *resolver) validate(req any) error {
	if err := r.validator.Struct(req); err != nil {
		return core.FieldErrors(err)
	}
	return nil
}

func argString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return v
}

func argInt(args map[string]any, key string, fallback int) int {
	if v, ok := args[key].(int); ok {
		return v
	}
	return fallback
}

func argBool(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

func argStrings(args map[string]any, key string) []string {
	raw, _ := args[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func required(t gql.Input) *gql.ArgumentConfig {
	return &gql.ArgumentConfig{Type: gql.NewNonNull(t)}
}

func optional(t gql.Input) *gql.ArgumentConfig {
	return &gql.ArgumentConfig{Type: t}
}
