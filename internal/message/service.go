// AngelaMos | 2026
// service.go

package message

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
)

// Publisher fans a payload out to live listeners. *core.Redis satisfies it.
type Publisher interface {
	PublishJSON(ctx context.Context, channel string, v any) error
}

// Notifier sends a push notification to every device of the given users.
// It never fails the caller.
type Notifier interface {
	Notify(ctx context.Context, userIDs []string, title, body string, data map[string]string)
}

func InboxChannel(userID string) string {
	return "inbox:" + userID
}

const pushPreviewLen = 120

type Service struct {
	repo      Repository
	publisher Publisher
	notifier  Notifier
	sanitizer *bluemonday.Policy
	now       func() time.Time
	// dispatch runs delivery after the message is stored.
	dispatch func(func())
}

func NewService(repo Repository, publisher Publisher, notifier Notifier) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		notifier:  notifier,
		sanitizer: bluemonday.StrictPolicy(),
		now:       time.Now,
		dispatch:  func(f func()) { go f() },
	}
}

// Send starts a new thread.
func (s *Service) Send(ctx context.Context, actor *authz.Principal, req SendRequest) (*Message, error) {
	if err := authz.RequirePermission(actor, authz.ActionCreate, authz.ResourceMessage); err != nil {
		return nil, err
	}

	recipients := audience(req.RecipientIDs, actor.UserID)
	if len(recipients) == 0 {
		return nil, core.NewValidationError("recipient_ids", "must name someone other than yourself")
	}

	mode := req.ReplyMode
	if mode == "" {
		mode = ReplySenderOnly
	}

	m := &Message{ID: uuid.NewString(), SenderID: actor.UserID, ReplyMode: mode}
	m.RootID = m.ID
	if err := s.fill(m, req.Subject, req.Body); err != nil {
		return nil, err
	}

	return s.store(ctx, m, recipients)
}

// Reply answers parentID inside its thread. Only thread participants may
// reply.
func (s *Service) Reply(
	ctx context.Context,
	actor *authz.Principal,
	parentID string,
	req ReplyRequest,
) (*Message, error) {
	if err := authz.RequirePermission(actor, authz.ActionCreate, authz.ResourceMessage); err != nil {
		return nil, err
	}

	parent, err := s.repo.GetByID(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, actor, parent.RootID); err != nil {
		return nil, err
	}

	var recipients []string
	if len(req.RecipientIDs) > 0 {
		recipients = audience(req.RecipientIDs, actor.UserID)
	} else {
		parentRecipients, err := s.repo.RecipientIDs(ctx, parent.ID)
		if err != nil {
			return nil, err
		}
		recipients = replyRecipients(parent, parentRecipients, actor.UserID)
	}
	if len(recipients) == 0 {
		return nil, core.NewValidationError("recipient_ids", "reply has nobody to go to")
	}

	mode := req.ReplyMode
	if mode == "" {
		mode = parent.ReplyMode
	}

	m := &Message{
		ID:        uuid.NewString(),
		ParentID:  &parent.ID,
		RootID:    parent.RootID,
		SenderID:  actor.UserID,
		ReplyMode: mode,
	}
	if err := s.fill(m, replySubject(parent.Subject), req.Body); err != nil {
		return nil, err
	}

	return s.store(ctx, m, recipients)
}

// Thread returns every message in the thread containing messageID.
func (s *Service) Thread(ctx context.Context, actor *authz.Principal, messageID string) ([]Message, error) {
	if err := authz.RequirePermission(actor, authz.ActionView, authz.ResourceMessage); err != nil {
		return nil, err
	}

	m, err := s.repo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, actor, m.RootID); err != nil {
		return nil, err
	}
	return s.repo.Thread(ctx, m.RootID)
}

func (s *Service) Inbox(ctx context.Context, actor *authz.Principal, params InboxParams) ([]InboxItem, error) {
	if err := authz.RequirePermission(actor, authz.ActionView, authz.ResourceMessage); err != nil {
		return nil, err
	}
	params.Normalize()
	return s.repo.Inbox(ctx, actor.UserID, params)
}

func (s *Service) UnreadCount(ctx context.Context, actor *authz.Principal) (int, error) {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return 0, err
	}
	return s.repo.UnreadCount(ctx, actor.UserID)
}

// MarkRead fails with NotFound when the actor did not receive the message.
func (s *Service) MarkRead(ctx context.Context, actor *authz.Principal, messageID string) error {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, messageID, actor.UserID)
}

func (s *Service) Archive(ctx context.Context, actor *authz.Principal, messageID string, archived bool) error {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return err
	}
	return s.repo.SetArchived(ctx, messageID, actor.UserID, archived)
}

func (s *Service) requireParticipant(ctx context.Context, actor *authz.Principal, rootID string) error {
	participants, err := s.repo.Participants(ctx, rootID)
	if err != nil {
		return err
	}
	return authz.RequireThreadAccess(actor, participants)
}

// plainText strips markup and undoes the entity escaping the sanitizer
// applies, so clients get back the characters that were typed.
func (s *Service) plainText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(raw)))
}

func (s *Service) fill(m *Message, subject, body string) error {
	m.Subject = s.plainText(subject)
	m.Body = s.plainText(body)

	ve := &core.ValidationError{Fields: map[string]string{}}
	if m.Subject == "" {
		ve.Fields["subject"] = "is required"
	}
	if m.Body == "" {
		ve.Fields["body"] = "is required"
	}
	if len(ve.Fields) > 0 {
		return ve
	}

	m.CreatedAt = s.now().UTC()
	return nil
}

func (s *Service) store(ctx context.Context, m *Message, recipients []string) (*Message, error) {
	if len(recipients) > maxRecipients {
		return nil, core.NewValidationError("recipient_ids", "has too many recipients")
	}

	if err := s.repo.Create(ctx, m, recipients); err != nil {
		if core.ConstraintName(err) != "" && errors.Is(err, core.ErrNotFound) {
			return nil, core.NewValidationError("recipient_ids", "contains an unknown user")
		}
		return nil, err
	}

	stored, err := s.repo.GetByID(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	deliveryCtx := context.WithoutCancel(ctx)
	s.dispatch(func() { s.deliver(deliveryCtx, stored, recipients) })
	return stored, nil
}

// deliver pushes a stored message to live inboxes and devices. Failures are
// logged only.
func (s *Service) deliver(ctx context.Context, m *Message, recipients []string) {
	event := InboxEvent{Type: "message", Message: ToMessageResponse(m)}
	for _, id := range recipients {
		if err := s.publisher.PublishJSON(ctx, InboxChannel(id), event); err != nil {
			slog.WarnContext(ctx, "publish inbox event failed",
				"message_id", m.ID,
				"recipient_id", id,
				"error", err,
			)
		}
	}

	title := m.Subject
	if m.SenderName != "" {
		title = m.SenderName + ": " + m.Subject
	}
	s.notifier.Notify(ctx, recipients, title, preview(m.Body), map[string]string{
		"message_id": m.ID,
		"root_id":    m.RootID,
	})
}

func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}

func preview(body string) string {
	if utf8.RuneCountInString(body) <= pushPreviewLen {
		return body
	}
	runes := []rune(body)
	return string(runes[:pushPreviewLen-1]) + "…"
}
