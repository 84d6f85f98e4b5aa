// AngelaMos | 2026
// types.go

package graphql

import (
	gql "github.com/graphql-go/graphql"

	"github.com/mentorcamp/backend/internal/message"
)

// Object fields resolve from the REST response structs by matching Go
// field names case-insensitively, so these stay in step with dto.go files.

func nonNull(t gql.Output) gql.Output {
	return gql.NewNonNull(t)
}

func listOf(t gql.Output) gql.Output {
	return gql.NewNonNull(gql.NewList(gql.NewNonNull(t)))
}

var fieldErrorType = gql.NewObject(gql.ObjectConfig{
	Name: "FieldError",
	Fields: gql.Fields{
		"field":   &gql.Field{Type: nonNull(gql.String)},
		"message": &gql.Field{Type: nonNull(gql.String)},
	},
})

var userType = gql.NewObject(gql.ObjectConfig{
	Name: "User",
	Fields: gql.Fields{
		"id":        &gql.Field{Type: nonNull(gql.ID)},
		"email":     &gql.Field{Type: nonNull(gql.String)},
		"name":      &gql.Field{Type: nonNull(gql.String)},
		"active":    &gql.Field{Type: nonNull(gql.Boolean)},
		"avatarUrl": &gql.Field{Type: gql.String},
		"roles":     &gql.Field{Type: listOf(gql.String)},
		"createdAt": &gql.Field{Type: gql.DateTime},
	},
})

var userPageType = gql.NewObject(gql.ObjectConfig{
	Name: "UserPage",
	Fields: gql.Fields{
		"items":    &gql.Field{Type: listOf(userType)},
		"total":    &gql.Field{Type: nonNull(gql.Int)},
		"page":     &gql.Field{Type: nonNull(gql.Int)},
		"pageSize": &gql.Field{Type: nonNull(gql.Int)},
	},
})

var teamType = gql.NewObject(gql.ObjectConfig{
	Name: "Team",
	Fields: gql.Fields{
		"id":          &gql.Field{Type: nonNull(gql.ID)},
		"name":        &gql.Field{Type: nonNull(gql.String)},
		"color":       &gql.Field{Type: gql.String},
		"iconUrl":     &gql.Field{Type: gql.String},
		"memberCount": &gql.Field{Type: nonNull(gql.Int)},
		"createdAt":   &gql.Field{Type: gql.DateTime},
	},
})

var eventTypeType = gql.NewObject(gql.ObjectConfig{
	Name: "EventType",
	Fields: gql.Fields{
		"id":         &gql.Field{Type: nonNull(gql.ID)},
		"name":       &gql.Field{Type: nonNull(gql.String)},
		"category":   &gql.Field{Type: nonNull(gql.String)},
		"pointValue": &gql.Field{Type: nonNull(gql.Int)},
	},
})

var eventType = gql.NewObject(gql.ObjectConfig{
	Name: "Event",
	Fields: gql.Fields{
		"id":            &gql.Field{Type: nonNull(gql.ID)},
		"name":          &gql.Field{Type: nonNull(gql.String)},
		"eventTypeId":   &gql.Field{Type: nonNull(gql.ID)},
		"eventTypeName": &gql.Field{Type: gql.String},
		"date":          &gql.Field{Type: nonNull(gql.String)},
		"creatorId":     &gql.Field{Type: gql.ID},
		"imageUrl":      &gql.Field{Type: gql.String},
		"description":   &gql.Field{Type: gql.String},
		"createdAt":     &gql.Field{Type: gql.DateTime},
	},
})

var eventLogType = gql.NewObject(gql.ObjectConfig{
	Name: "EventLog",
	Fields: gql.Fields{
		"id":            &gql.Field{Type: nonNull(gql.ID)},
		"eventId":       &gql.Field{Type: nonNull(gql.ID)},
		"userId":        &gql.Field{Type: nonNull(gql.ID)},
		"userName":      &gql.Field{Type: gql.String},
		"logType":       &gql.Field{Type: nonNull(gql.String)},
		"pointsAwarded": &gql.Field{Type: nonNull(gql.Int)},
		"createdAt":     &gql.Field{Type: gql.DateTime},
	},
})

var seasonType = gql.NewObject(gql.ObjectConfig{
	Name: "Season",
	Fields: gql.Fields{
		"id":         &gql.Field{Type: nonNull(gql.ID)},
		"name":       &gql.Field{Type: nonNull(gql.String)},
		"startMonth": &gql.Field{Type: nonNull(gql.Int)},
		"startDay":   &gql.Field{Type: nonNull(gql.Int)},
		"endMonth":   &gql.Field{Type: nonNull(gql.Int)},
		"endDay":     &gql.Field{Type: nonNull(gql.Int)},
		"wraps":      &gql.Field{Type: nonNull(gql.Boolean)},
		"createdAt":  &gql.Field{Type: gql.DateTime},
	},
})

var pointsType = gql.NewObject(gql.ObjectConfig{
	Name: "Points",
	Fields: gql.Fields{
		"userId":   &gql.Field{Type: nonNull(gql.ID)},
		"seasonId": &gql.Field{Type: nonNull(gql.ID)},
		"start":    &gql.Field{Type: nonNull(gql.DateTime)},
		"end":      &gql.Field{Type: nonNull(gql.DateTime)},
		"points":   &gql.Field{Type: nonNull(gql.Int)},
	},
})

var relationshipType = gql.NewObject(gql.ObjectConfig{
	Name: "Relationship",
	Fields: gql.Fields{
		"id":               &gql.Field{Type: nonNull(gql.ID)},
		"userId":           &gql.Field{Type: nonNull(gql.ID)},
		"userName":         &gql.Field{Type: gql.String},
		"relatedUserId":    &gql.Field{Type: nonNull(gql.ID)},
		"relatedUserName":  &gql.Field{Type: gql.String},
		"relationshipType": &gql.Field{Type: nonNull(gql.String)},
		"createdAt":        &gql.Field{Type: gql.DateTime},
	},
})

var familyMemberType = gql.NewObject(gql.ObjectConfig{
	Name: "FamilyMember",
	Fields: gql.Fields{
		"id":               &gql.Field{Type: nonNull(gql.ID)},
		"guardianUserId":   &gql.Field{Type: nonNull(gql.ID)},
		"guardianName":     &gql.Field{Type: gql.String},
		"menteeUserId":     &gql.Field{Type: nonNull(gql.ID)},
		"menteeName":       &gql.Field{Type: gql.String},
		"relationshipType": &gql.Field{Type: nonNull(gql.String)},
		"createdAt":        &gql.Field{Type: gql.DateTime},
	},
})

var messageType = gql.NewObject(gql.ObjectConfig{
	Name: "Message",
	Fields: gql.Fields{
		"id":           &gql.Field{Type: nonNull(gql.ID)},
		"parentId":     &gql.Field{Type: gql.ID},
		"rootId":       &gql.Field{Type: nonNull(gql.ID)},
		"senderId":     &gql.Field{Type: nonNull(gql.ID)},
		"senderName":   &gql.Field{Type: gql.String},
		"subject":      &gql.Field{Type: nonNull(gql.String)},
		"body":         &gql.Field{Type: nonNull(gql.String)},
		"replyMode":    &gql.Field{Type: nonNull(gql.String)},
		"recipientIds": &gql.Field{Type: gql.NewList(gql.NewNonNull(gql.ID))},
		"createdAt":    &gql.Field{Type: gql.DateTime},
	},
})

var inboxItemType = gql.NewObject(gql.ObjectConfig{
	Name: "InboxItem",
	Fields: gql.Fields{
		"message": &gql.Field{
			Type: nonNull(messageType),
			Resolve: func(p gql.ResolveParams) (any, error) {
				item, _ := p.Source.(message.InboxItemResponse)
				return item.MessageResponse, nil
			},
		},
		"read":     &gql.Field{Type: nonNull(gql.Boolean)},
		"archived": &gql.Field{Type: nonNull(gql.Boolean)},
	},
})

var deviceType = gql.NewObject(gql.ObjectConfig{
	Name: "Device",
	Fields: gql.Fields{
		"id":        &gql.Field{Type: nonNull(gql.ID)},
		"pushToken": &gql.Field{Type: nonNull(gql.String)},
		"platform":  &gql.Field{Type: nonNull(gql.String)},
		"createdAt": &gql.Field{Type: gql.DateTime},
	},
})

func payloadType(name string, fields gql.Fields) *gql.Object {
	fields["errors"] = &gql.Field{Type: listOf(fieldErrorType)}
	return gql.NewObject(gql.ObjectConfig{Name: name, Fields: fields})
}

var (
	successPayload = payloadType("SuccessPayload", gql.Fields{
		"success": &gql.Field{Type: nonNull(gql.Boolean)},
	})
	loginPayload = payloadType("LoginPayload", gql.Fields{
		"token":     &gql.Field{Type: gql.String},
		"expiresAt": &gql.Field{Type: gql.DateTime},
		"user":      &gql.Field{Type: userType},
	})
	userPayload         = payloadType("UserPayload", gql.Fields{"user": &gql.Field{Type: userType}})
	devicePayload       = payloadType("DevicePayload", gql.Fields{"device": &gql.Field{Type: deviceType}})
	teamPayload         = payloadType("TeamPayload", gql.Fields{"team": &gql.Field{Type: teamType}})
	eventPayload        = payloadType("EventPayload", gql.Fields{"event": &gql.Field{Type: eventType}})
	eventLogPayload     = payloadType("EventLogPayload", gql.Fields{"eventLog": &gql.Field{Type: eventLogType}})
	relationshipPayload = payloadType("RelationshipPayload", gql.Fields{
		"relationship": &gql.Field{Type: relationshipType},
	})
	familyMemberPayload = payloadType("FamilyMemberPayload", gql.Fields{
		"familyMember": &gql.Field{Type: familyMemberType},
	})
	messagePayload = payloadType("MessagePayload", gql.Fields{"message": &gql.Field{Type: messageType}})
)
