// AngelaMos | 2026
// mutation.go

package graphql

import (
	gql "github.com/graphql-go/graphql"

	"github.com/mentorcamp/backend/internal/auth"
	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/device"
	"github.com/mentorcamp/backend/internal/event"
	"github.com/mentorcamp/backend/internal/message"
	"github.com/mentorcamp/backend/internal/middleware"
	"github.com/mentorcamp/backend/internal/relationship"
	"github.com/mentorcamp/backend/internal/team"
)

func (r *resolver) mutations() gql.Fields {
	return gql.Fields{
		"login": &gql.Field{
			Type: nonNull(loginPayload),
			Args: gql.FieldConfigArgument{
				"email":      required(gql.String),
				"password":   required(gql.String),
				"deviceName": optional(gql.String),
			},
			Resolve: r.login,
		},
		"logout": &gql.Field{Type: nonNull(successPayload), Resolve: r.logout},
		"register": &gql.Field{
			Type: nonNull(userPayload),
			Args: gql.FieldConfigArgument{
				"email":    required(gql.String),
				"password": required(gql.String),
				"name":     required(gql.String),
				"role":     optional(gql.String),
			},
			Resolve: r.register,
		},
		"confirmAccount": &gql.Field{
			Type:    nonNull(userPayload),
			Args:    gql.FieldConfigArgument{"token": required(gql.String)},
			Resolve: r.confirmAccount,
		},
		"requestPasswordReset": &gql.Field{
			Type:    nonNull(successPayload),
			Args:    gql.FieldConfigArgument{"email": required(gql.String)},
			Resolve: r.requestPasswordReset,
		},
		"resetPassword": &gql.Field{
			Type: nonNull(successPayload),
			Args: gql.FieldConfigArgument{
				"token":    required(gql.String),
				"password": required(gql.String),
			},
			Resolve: r.resetPassword,
		},
		"registerDevice": &gql.Field{
			Type: nonNull(devicePayload),
			Args: gql.FieldConfigArgument{
				"pushToken": required(gql.String),
				"platform":  required(gql.String),
			},
			Resolve: r.registerDevice,
		},

		"createTeam": &gql.Field{
			Type: nonNull(teamPayload),
			Args: gql.FieldConfigArgument{
				"name":  required(gql.String),
				"color": optional(gql.String),
			},
			Resolve: r.createTeam,
		},
		"updateTeam": &gql.Field{
			Type: nonNull(teamPayload),
			Args: gql.FieldConfigArgument{
				"id":    required(gql.ID),
				"name":  required(gql.String),
				"color": optional(gql.String),
			},
			Resolve: r.updateTeam,
		},
		"deleteTeam": &gql.Field{
			Type:    nonNull(successPayload),
			Args:    gql.FieldConfigArgument{"id": required(gql.ID)},
			Resolve: r.deleteTeam,
		},

		"createEvent": &gql.Field{
			Type:    nonNull(eventPayload),
			Args:    eventArgs(false),
			Resolve: r.createEvent,
		},
		"updateEvent": &gql.Field{
			Type:    nonNull(eventPayload),
			Args:    eventArgs(true),
			Resolve: r.updateEvent,
		},
		"deleteEvent": &gql.Field{
			Type:    nonNull(successPayload),
			Args:    gql.FieldConfigArgument{"id": required(gql.ID)},
			Resolve: r.deleteEvent,
		},
		"checkIn": &gql.Field{
			Type: nonNull(eventLogPayload),
			Args: gql.FieldConfigArgument{
				"eventId": required(gql.ID),
				"userId":  required(gql.ID),
			},
			Resolve: r.checkIn,
		},
		"registerForEvent": &gql.Field{
			Type: nonNull(eventLogPayload),
			Args: gql.FieldConfigArgument{
				"eventId": required(gql.ID),
				"userId":  optional(gql.ID),
			},
			Resolve: r.registerForEvent,
		},

		"createRelationship": &gql.Field{
			Type: nonNull(relationshipPayload),
			Args: gql.FieldConfigArgument{
				"userId":           required(gql.ID),
				"relatedUserId":    required(gql.ID),
				"relationshipType": required(gql.String),
			},
			Resolve: r.createRelationship,
		},
		"updateRelationship": &gql.Field{
			Type: nonNull(relationshipPayload),
			Args: gql.FieldConfigArgument{
				"id":               required(gql.ID),
				"relationshipType": required(gql.String),
			},
			Resolve: r.updateRelationship,
		},
		"deleteRelationship": &gql.Field{
			Type:    nonNull(successPayload),
			Args:    gql.FieldConfigArgument{"id": required(gql.ID)},
			Resolve: r.deleteRelationship,
		},
		"createFamilyMember": &gql.Field{
			Type: nonNull(familyMemberPayload),
			Args: gql.FieldConfigArgument{
				"guardianUserId":   required(gql.ID),
				"menteeUserId":     required(gql.ID),
				"relationshipType": required(gql.String),
			},
			Resolve: r.createFamilyMember,
		},
		"updateFamilyMember": &gql.Field{
			Type: nonNull(familyMemberPayload),
			Args: gql.FieldConfigArgument{
				"id":               required(gql.ID),
				"relationshipType": required(gql.String),
			},
			Resolve: r.updateFamilyMember,
		},
		"deleteFamilyMember": &gql.Field{
			Type:    nonNull(successPayload),
			Args:    gql.FieldConfigArgument{"id": required(gql.ID)},
			Resolve: r.deleteFamilyMember,
		},

		"sendMessage": &gql.Field{
			Type: nonNull(messagePayload),
			Args: gql.FieldConfigArgument{
				"recipientIds": required(gql.NewList(gql.NewNonNull(gql.ID))),
				"subject":      required(gql.String),
				"body":         required(gql.String),
				"replyMode":    optional(gql.String),
			},
			Resolve: r.sendMessage,
		},
		"replyToMessage": &gql.Field{
			Type: nonNull(messagePayload),
			Args: gql.FieldConfigArgument{
				"id":           required(gql.ID),
				"body":         required(gql.String),
				"recipientIds": optional(gql.NewList(gql.NewNonNull(gql.ID))),
				"replyMode":    optional(gql.String),
			},
			Resolve: r.replyToMessage,
		},
		"markMessageRead": &gql.Field{
			Type:    nonNull(successPayload),
			Args:    gql.FieldConfigArgument{"id": required(gql.ID)},
			Resolve: r.markMessageRead,
		},
		"archiveMessage": &gql.Field{
			Type: nonNull(successPayload),
			Args: gql.FieldConfigArgument{
				"id":       required(gql.ID),
				"archived": &gql.ArgumentConfig{Type: gql.Boolean, DefaultValue: true},
			},
			Resolve: r.archiveMessage,
		},
	}
}

func eventArgs(withID bool) gql.FieldConfigArgument {
	args := gql.FieldConfigArgument{
		"name":        required(gql.String),
		"eventTypeId": required(gql.ID),
		"date":        required(gql.String),
		"description": optional(gql.String),
	}
	if withID {
		args["id"] = required(gql.ID)
	}
	return args
}

func (r *resolver) login(p gql.ResolveParams) (any, error) {
	req := auth.LoginRequest{
		Email:      argString(p.Args, "email"),
		Password:   argString(p.Args, "password"),
		DeviceName: argString(p.Args, "deviceName"),
	}
	if err := r.validate(req); err != nil {
		return payload(p.Context, "user", nil, err)
	}

	resp, err := r.svc.Auth.Login(p.Context, req)
	if err != nil {
		return payload(p.Context, "user", nil, err)
	}
	return map[string]any{
		"token":     resp.Token.Token,
		"expiresAt": resp.Token.ExpiresAt,
		"user":      resp.User,
		"errors":    []FieldError{},
	}, nil
}

// logout revokes the bearer token the request was made with.
func (r *resolver) logout(p gql.ResolveParams) (any, error) {
	id := middleware.GetIdentity(p.Context)
	if id == nil || id.TokenHash == "" {
		return nil, errUnauthenticated
	}
	return success(p.Context, r.svc.Auth.Logout(p.Context, id.TokenHash))
}

func (r *resolver) register(p gql.ResolveParams) (any, error) {
	req := auth.RegisterRequest{
		Email:    argString(p.Args, "email"),
		Password: argString(p.Args, "password"),
		Name:     argString(p.Args, "name"),
		Role:     argString(p.Args, "role"),
	}
	if err := r.validate(req); err != nil {
		return payload(p.Context, "user", nil, err)
	}

	info, err := r.svc.Auth.Register(p.Context, req)
	if err != nil {
		return payload(p.Context, "user", nil, err)
	}
	return payload(p.Context, "user", auth.ToUserResponse(info), nil)
}

func (r *resolver) confirmAccount(p gql.ResolveParams) (any, error) {
	info, err := r.svc.Auth.Confirm(p.Context, argString(p.Args, "token"))
	if err != nil {
		return payload(p.Context, "user", nil, err)
	}
	return payload(p.Context, "user", auth.ToUserResponse(info), nil)
}

func (r *resolver) requestPasswordReset(p gql.ResolveParams) (any, error) {
	req := auth.PasswordResetRequest{Email: argString(p.Args, "email")}
	if err := r.validate(req); err != nil {
		return success(p.Context, err)
	}
	return success(p.Context, r.svc.Auth.RequestPasswordReset(p.Context, req.Email))
}

func (r *resolver) resetPassword(p gql.ResolveParams) (any, error) {
	req := auth.ResetPasswordRequest{
		Token:    argString(p.Args, "token"),
		Password: argString(p.Args, "password"),
	}
	if err := r.validate(req); err != nil {
		return success(p.Context, err)
	}
	return success(p.Context, r.svc.Auth.ResetPassword(p.Context, req.Token, req.Password))
}

func (r *resolver) registerDevice(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}

	req := device.RegisterRequest{
		PushToken: argString(p.Args, "pushToken"),
		Platform:  device.Platform(argString(p.Args, "platform")),
	}
	if err := r.validate(req); err != nil {
		return payload(p.Context, "device", nil, err)
	}

	d, err := r.svc.Devices.Register(p.Context, actor, req)
	if err != nil {
		return payload(p.Context, "device", nil, err)
	}
	return payload(p.Context, "device", device.ToDeviceResponse(d), nil)
}

// authorize checks a permission for the caller. A missing login still
// surfaces as a GraphQL error once passed through payload or success.
func (r *resolver) authorize(
	p gql.ResolveParams,
	action authz.Action,
	resource authz.Resource,
) (*authz.Principal, error) {
	actor := middleware.GetPrincipal(p.Context)
	return actor, authz.RequirePermission(actor, action, resource)
}

func (r *resolver) createTeam(p gql.ResolveParams) (any, error) {
	_, err := r.authorize(p, authz.ActionCreate, authz.ResourceTeam)
	if err != nil {
		return payload(p.Context, "team", nil, err)
	}

	req := team.TeamRequest{Name: argString(p.Args, "name"), Color: argString(p.Args, "color")}
	if err := r.validate(req); err != nil {
		return payload(p.Context, "team", nil, err)
	}

	t, err := r.svc.Teams.Create(p.Context, req)
	if err != nil {
		return payload(p.Context, "team", nil, err)
	}
	return payload(p.Context, "team", team.ToTeamResponse(t), nil)
}

func (r *resolver) updateTeam(p gql.ResolveParams) (any, error) {
	_, err := r.authorize(p, authz.ActionEdit, authz.ResourceTeam)
	if err != nil {
		return payload(p.Context, "team", nil, err)
	}

	req := team.TeamRequest{Name: argString(p.Args, "name"), Color: argString(p.Args, "color")}
	if err := r.validate(req); err != nil {
		return payload(p.Context, "team", nil, err)
	}

	t, err := r.svc.Teams.Update(p.Context, argString(p.Args, "id"), req)
	if err != nil {
		return payload(p.Context, "team", nil, err)
	}
	return payload(p.Context, "team", team.ToTeamResponse(t), nil)
}

func (r *resolver) deleteTeam(p gql.ResolveParams) (any, error) {
	if _, err := r.authorize(p, authz.ActionDelete, authz.ResourceTeam); err != nil {
		return success(p.Context, err)
	}
	return success(p.Context, r.svc.Teams.Delete(p.Context, argString(p.Args, "id")))
}

func eventRequest(args map[string]any) event.EventRequest {
	return event.EventRequest{
		Name:        argString(args, "name"),
		EventTypeID: argString(args, "eventTypeId"),
		Date:        argString(args, "date"),
		Description: argString(args, "description"),
	}
}

func (r *resolver) createEvent(p gql.ResolveParams) (any, error) {
	actor, err := r.authorize(p, authz.ActionCreate, authz.ResourceEvent)
	if err != nil {
		return payload(p.Context, "event", nil, err)
	}

	req := eventRequest(p.Args)
	if err := r.validate(req); err != nil {
		return payload(p.Context, "event", nil, err)
	}

	e, err := r.svc.Events.Create(p.Context, actor, req)
	if err != nil {
		return payload(p.Context, "event", nil, err)
	}
	return payload(p.Context, "event", event.ToEventResponse(e), nil)
}

func (r *resolver) updateEvent(p gql.ResolveParams) (any, error) {
	actor, err := r.authorize(p, authz.ActionEdit, authz.ResourceEvent)
	if err != nil {
		return payload(p.Context, "event", nil, err)
	}

	req := eventRequest(p.Args)
	if err := r.validate(req); err != nil {
		return payload(p.Context, "event", nil, err)
	}

	e, err := r.svc.Events.Update(p.Context, actor, argString(p.Args, "id"), req)
	if err != nil {
		return payload(p.Context, "event", nil, err)
	}
	return payload(p.Context, "event", event.ToEventResponse(e), nil)
}

func (r *resolver) deleteEvent(p gql.ResolveParams) (any, error) {
	if _, err := r.authorize(p, authz.ActionDelete, authz.ResourceEvent); err != nil {
		return success(p.Context, err)
	}
	return success(p.Context, r.svc.Events.Delete(p.Context, argString(p.Args, "id")))
}

func (r *resolver) checkIn(p gql.ResolveParams) (any, error) {
	_, err := r.authorize(p, authz.ActionCreate, authz.ResourceEventLog)
	if err != nil {
		return payload(p.Context, "eventLog", nil, err)
	}

	l, err := r.svc.Events.CheckIn(p.Context, argString(p.Args, "eventId"), argString(p.Args, "userId"))
	if err != nil {
		return payload(p.Context, "eventLog", nil, err)
	}
	return payload(p.Context, "eventLog", event.ToEventLogResponse(l), nil)
}

// registerForEvent signs up the caller, or userId when the caller may
// record attendance for others.
func (r *resolver) registerForEvent(p gql.ResolveParams) (any, error) {
	actor, err := r.authorize(p, authz.ActionView, authz.ResourceEvent)
	if err != nil {
		return payload(p.Context, "eventLog", nil, err)
	}

	userID := argString(p.Args, "userId")
	if userID == "" {
		userID = actor.UserID
	}
	if userID != actor.UserID {
		if err := authz.RequirePermission(actor, authz.ActionCreate, authz.ResourceEventLog); err != nil {
			return payload(p.Context, "eventLog", nil, err)
		}
	}

	l, err := r.svc.Events.Register(p.Context, argString(p.Args, "eventId"), userID)
	if err != nil {
		return payload(p.Context, "eventLog", nil, err)
	}
	return payload(p.Context, "eventLog", event.ToEventLogResponse(l), nil)
}

func (r *resolver) createRelationship(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}

	req := relationship.CreateRelationshipRequest{
		UserID:           argString(p.Args, "userId"),
		RelatedUserID:    argString(p.Args, "relatedUserId"),
		RelationshipType: argString(p.Args, "relationshipType"),
	}
	if err := r.validate(req); err != nil {
		return payload(p.Context, "relationship", nil, err)
	}

	rel, err := r.svc.Relationships.Create(p.Context, actor, req)
	if err != nil {
		return payload(p.Context, "relationship", nil, err)
	}
	return payload(p.Context, "relationship", relationship.ToRelationshipResponse(rel), nil)
}

func (r *resolver) updateRelationship(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}

	req := relationship.UpdateRelationshipRequest{RelationshipType: argString(p.Args, "relationshipType")}
	if err := r.validate(req); err != nil {
		return payload(p.Context, "relationship", nil, err)
	}

	rel, err := r.svc.Relationships.Update(p.Context, actor, argString(p.Args, "id"), req)
	if err != nil {
		return payload(p.Context, "relationship", nil, err)
	}
	return payload(p.Context, "relationship", relationship.ToRelationshipResponse(rel), nil)
}

func (r *resolver) deleteRelationship(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}
	return success(p.Context, r.svc.Relationships.Delete(p.Context, actor, argString(p.Args, "id")))
}

func (r *resolver) createFamilyMember(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}

	req := relationship.CreateFamilyMemberRequest{
		GuardianUserID:   argString(p.Args, "guardianUserId"),
		MenteeUserID:     argString(p.Args, "menteeUserId"),
		RelationshipType: argString(p.Args, "relationshipType"),
	}
	if err := r.validate(req); err != nil {
		return payload(p.Context, "familyMember", nil, err)
	}

	fm, err := r.svc.Relationships.CreateFamilyMember(p.Context, actor, req)
	if err != nil {
		return payload(p.Context, "familyMember", nil, err)
	}
	return payload(p.Context, "familyMember", relationship.ToFamilyMemberResponse(fm), nil)
}

func (r *resolver) updateFamilyMember(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}

	req := relationship.UpdateFamilyMemberRequest{RelationshipType: argString(p.Args, "relationshipType")}
	if err := r.validate(req); err != nil {
		return payload(p.Context, "familyMember", nil, err)
	}

	fm, err := r.svc.Relationships.UpdateFamilyMember(p.Context, actor, argString(p.Args, "id"), req)
	if err != nil {
		return payload(p.Context, "familyMember", nil, err)
	}
	return payload(p.Context, "familyMember", relationship.ToFamilyMemberResponse(fm), nil)
}

func (r *resolver) deleteFamilyMember(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}
	return success(p.Context, r.svc.Relationships.DeleteFamilyMember(p.Context, actor, argString(p.Args, "id")))
}

func (r *resolver) sendMessage(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}

	req := message.SendRequest{
		RecipientIDs: argStrings(p.Args, "recipientIds"),
		Subject:      argString(p.Args, "subject"),
		Body:         argString(p.Args, "body"),
		ReplyMode:    message.ReplyMode(argString(p.Args, "replyMode")),
	}
	if err := r.validate(req); err != nil {
		return payload(p.Context, "message", nil, err)
	}

	m, err := r.svc.Messages.Send(p.Context, actor, req)
	if err != nil {
		return payload(p.Context, "message", nil, err)
	}
	return payload(p.Context, "message", message.ToMessageResponse(m), nil)
}

func (r *resolver) replyToMessage(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}

	req := message.ReplyRequest{
		RecipientIDs: argStrings(p.Args, "recipientIds"),
		Body:         argString(p.Args, "body"),
		ReplyMode:    message.ReplyMode(argString(p.Args, "replyMode")),
	}
	if err := r.validate(req); err != nil {
		return payload(p.Context, "message", nil, err)
	}

	m, err := r.svc.Messages.Reply(p.Context, actor, argString(p.Args, "id"), req)
	if err != nil {
		return payload(p.Context, "message", nil, err)
	}
	return payload(p.Context, "message", message.ToMessageResponse(m), nil)
}

func (r *resolver) markMessageRead(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}
	return success(p.Context, r.svc.Messages.MarkRead(p.Context, actor, argString(p.Args, "id")))
}

func (r *resolver) archiveMessage(p gql.ResolveParams) (any, error) {
	actor, err := viewer(p)
	if err != nil {
		return nil, err
	}
	archived := argBool(p.Args, "archived", true)
	return success(p.Context, r.svc.Messages.Archive(p.Context, actor, argString(p.Args, "id"), archived))
}
