// AngelaMos | 2026
// query.go

package graphql

import (
	"errors"
	"time"

	gql "github.com/graphql-go/graphql"

	"github.com/mentorcamp/backend/internal/auth"
	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/event"
	"github.com/mentorcamp/backend/internal/message"
	"github.com/mentorcamp/backend/internal/season"
	"github.com/mentorcamp/backend/internal/team"
	"github.com/mentorcamp/backend/internal/user"
)

const dateLayout = "2006-01-02"

func (r *resolver) queries() gql.Fields {
	return gql.Fields{
		"me": &gql.Field{Type: userType, Resolve: r.me},
		"users": &gql.Field{
			Type: nonNull(userPageType),
			Args: gql.FieldConfigArgument{
				"page":     optional(gql.Int),
				"pageSize": optional(gql.Int),
				"search":   optional(gql.String),
				"role":     optional(gql.String),
			},
			Resolve: r.users,
		},
		"user": &gql.Field{
			Type:    userType,
			Args:    gql.FieldConfigArgument{"id": required(gql.ID)},
			Resolve: r.user,
		},
		"teams": &gql.Field{Type: listOf(teamType), Resolve: r.teams},
		"events": &gql.Field{
			Type: listOf(eventType),
			Args: gql.FieldConfigArgument{
				"from":   optional(gql.String),
				"to":     optional(gql.String),
				"typeId": optional(gql.ID),
			},
			Resolve: r.events,
		},
		"eventTypes":    &gql.Field{Type: listOf(eventTypeType), Resolve: r.eventTypes},
		"seasons":       &gql.Field{Type: listOf(seasonType), Resolve: r.seasons},
		"currentSeason": &gql.Field{Type: seasonType, Resolve: r.currentSeason},
		"myPoints": &gql.Field{
			Type:    pointsType,
			Args:    gql.FieldConfigArgument{"seasonId": optional(gql.ID)},
			Resolve: r.myPoints,
		},
		"inbox": &gql.Field{
			Type: listOf(inboxItemType),
			Args: gql.FieldConfigArgument{
				"archived": optional(gql.Boolean),
				"limit":    optional(gql.Int),
				"offset":   optional(gql.Int),
			},
			Resolve: r.inbox,
		},
		"thread": &gql.Field{
			Type:    listOf(messageType),
			Args:    gql.FieldConfigArgument{"id": required(gql.ID)},
			Resolve: r.thread,
		},
	}
}

func (r *resolver) me(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}

	info, err := r.svc.Auth.Me(p.Context, actor.UserID)
	if err != nil {
		return nil, queryError(p.Context, err)
	}
	return auth.ToUserResponse(info), nil
}

func (r *resolver) users(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}
	if err := authz.RequirePermission(actor, authz.ActionView, authz.ResourceUser); err != nil {
		return nil, queryError(p.Context, err)
	}

	params := user.ListUsersParams{
		Page:     argInt(p.Args, "page", 1),
		PageSize: argInt(p.Args, "pageSize", 20),
		Search:   argString(p.Args, "search"),
	}
	if raw := argString(p.Args, "role"); raw != "" {
		role, ok := authz.ParseRole(raw)
		if !ok {
			return nil, errors.New("unknown role " + raw)
		}
		params.Role = role
	}
	params.Normalize()

	details, total, err := r.svc.Users.List(p.Context, params)
	if err != nil {
		return nil, queryError(p.Context, err)
	}

	return map[string]any{
		"items":    user.ToUserResponseList(details),
		"total":    total,
		"page":     params.Page,
		"pageSize": params.PageSize,
	}, nil
}

// user lets anyone read their own record.
func (r *resolver) user(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}

	id := argString(p.Args, "id")
	if id != actor.UserID {
		if err := authz.RequirePermission(actor, authz.ActionView, authz.ResourceUser); err != nil {
			return nil, queryError(p.Context, err)
		}
	}

	d, err := r.svc.Users.Get(p.Context, id)
	if err != nil {
		return nil, queryError(p.Context, err)
	}
	return user.ToUserResponse(d), nil
}

func (r *resolver) teams(p gql.ResolveParams) (any, error) {
	if err := r.allowed(p, authz.ActionView, authz.ResourceTeam); err != nil {
		return nil, err
	}

	teams, err := r.svc.Teams.List(p.Context)
	if err != nil {
		return nil, queryError(p.Context, err)
	}
	return team.ToTeamResponseList(teams), nil
}

func (r *resolver) events(p gql.ResolveParams) (any, error) {
	if err := r.allowed(p, authz.ActionView, authz.ResourceEvent); err != nil {
		return nil, err
	}

	params := event.ListParams{TypeID: argString(p.Args, "typeId")}
	for key, dst := range map[string]**time.Time{"from": &params.From, "to": &params.To} {
		raw := argString(p.Args, key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, errors.New(key + " must be a date like 2006-01-02")
		}
		*dst = &t
	}

	events, err := r.svc.Events.List(p.Context, params)
	if err != nil {
		return nil, queryError(p.Context, err)
	}
	return event.ToEventResponseList(events), nil
}

func (r *resolver) eventTypes(p gql.ResolveParams) (any, error) {
	if err := r.allowed(p, authz.ActionView, authz.ResourceEventType); err != nil {
		return nil, err
	}

	types, err := r.svc.Events.ListTypes(p.Context)
	if err != nil {
		return nil, queryError(p.Context, err)
	}
	return event.ToEventTypeResponseList(types), nil
}

func (r *resolver) seasons(p gql.ResolveParams) (any, error) {
	if err := r.allowed(p, authz.ActionView, authz.ResourceSeason); err != nil {
		return nil, err
	}

	seasons, err := r.svc.Seasons.List(p.Context)
	if err != nil {
		return nil, queryError(p.Context, err)
	}
	return season.ToSeasonResponseList(seasons), nil
}

func (r *resolver) currentSeason(p gql.ResolveParams) (any, error) {
	if err := r.allowed(p, authz.ActionView, authz.ResourceSeason); err != nil {
		return nil, err
	}

	current, ok, err := r.svc.Seasons.Current(p.Context)
	if err != nil {
		return nil, queryError(p.Context, err)
	}
	if !ok {
		return nil, nil
	}
	return season.ToSeasonResponse(current), nil
}

// myPoints is null when no season is running and none was named.
func (r *resolver) myPoints(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}

	var points *event.Points
	if seasonID := argString(p.Args, "seasonId"); seasonID != "" {
		points, err = r.svc.Events.PointsFor(p.Context, actor.UserID, seasonID)
	} else {
		points, err = r.svc.Events.CurrentPoints(p.Context, actor.UserID)
	}
	if err != nil {
		return nil, queryError(p.Context, err)
	}
	if points == nil {
		return nil, nil
	}
	return event.ToPointsResponse(points), nil
}

func (r *resolver) inbox(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}

	items, err := r.svc.Messages.Inbox(p.Context, actor, message.InboxParams{
		Archived: argBool(p.Args, "archived", false),
		Limit:    argInt(p.Args, "limit", 0),
		Offset:   argInt(p.Args, "offset", 0),
	})
	if err != nil {
		return nil, queryError(p.Context, err)
	}
	return message.ToInboxResponseList(items), nil
}

func (r *resolver) thread(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}

	messages, err := r.svc.Messages.Thread(p.Context, actor, argString(p.Args, "id"))
	if err != nil {
		return nil, queryError(p.Context, err)
	}
	return message.ToMessageResponseList(messages), nil
}

func (r *resolver) allowed(p gql.ResolveParams, action authz.Action, resource authz.Resource) error {
	actor, err := viewer(p)
	if err != nil {
		return err
	}
	if err := authz.RequirePermission(actor, action, resource); err != nil {
		return queryError(p.Context, err)
	}
	return nil
}
