// AngelaMos | 2026
// dto.go

package message

import "time"

const maxRecipients = 200

type SendRequest struct {
	RecipientIDs []string  `json:"recipient_ids" validate:"required,min=1,max=200,dive,required"`
	Subject      string    `json:"subject"       validate:"required,max=200"`
	Body         string    `json:"body"          validate:"required,max=20000"`
	ReplyMode    ReplyMode `json:"reply_mode"    validate:"omitempty,oneof=sender_only all"`
}

// ReplyRequest may name recipients; otherwise the parent's reply mode picks
// them.
type ReplyRequest struct {
	RecipientIDs []string  `json:"recipient_ids" validate:"omitempty,max=200,dive,required"`
	Body         string    `json:"body"          validate:"required,max=20000"`
	ReplyMode    ReplyMode `json:"reply_mode"    validate:"omitempty,oneof=sender_only all"`
}

type InboxParams struct {
	Archived bool
	Limit    int
	Offset   int
}

func (p *InboxParams) Normalize() {
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

type MessageResponse struct {
	ID           string    `json:"id"`
	ParentID     *string   `json:"parent_id"`
	RootID       string    `json:"root_id"`
	SenderID     string    `json:"sender_id"`
	SenderName   string    `json:"sender_name,omitempty"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	ReplyMode    ReplyMode `json:"reply_mode"`
	RecipientIDs []string  `json:"recipient_ids,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type InboxItemResponse struct {
	MessageResponse
	Read     bool `json:"read"`
	Archived bool `json:"archived"`
}

// InboxEvent is what the live feed pushes to a recipient.
type InboxEvent struct {
	Type    string          `json:"type"`
	Message MessageResponse `json:"message"`
}

func ToMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		ParentID:   m.ParentID,
		RootID:     m.RootID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Subject:    m.Subject,
		Body:       m.Body,
		ReplyMode:  m.ReplyMode,
		CreatedAt:  m.CreatedAt,
	}
}

func ToMessageResponseList(messages []Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, ToMessageResponse(&messages[i]))
	}
	return out
}

func ToInboxResponseList(items []InboxItem) []InboxItemResponse {
	out := make([]InboxItemResponse, 0, len(items))
	for i := range items {
		out = append(out, InboxItemResponse{
			MessageResponse: ToMessageResponse(&items[i].Message),
			Read:            items[i].Read,
			Archived:        items[i].Archived,
		})
	}
	return out
}
