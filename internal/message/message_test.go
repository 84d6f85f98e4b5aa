// AngelaMos | 2026
// message_test.go

package message

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
)

type memRepo struct {
	messages   map[string]*Message
	recipients map[string][]string
	users      map[string]string
}

func newMemRepo(users ...string) *memRepo {
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u] = strings.ToUpper(u)
	}
	return &memRepo{
		messages:   map[string]*Message{},
		recipients: map[string][]string{},
		users:      names,
	}
}

func (m *memRepo) Create(_ context.Context, msg *Message, recipientIDs []string) error {
	for _, id := range recipientIDs {
		if _, ok := m.users[id]; !ok {
			return &core.ConstraintError{
				Constraint: "message_recipients_user_id_fkey",
				Err:        core.ErrNotFound,
			}
		}
	}
	cp := *msg
	m.messages[msg.ID] = &cp
	m.recipients[msg.ID] = slices.Clone(recipientIDs)
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *msg
	cp.SenderName = m.users[cp.SenderID]
	return &cp, nil
}

func (m *memRepo) RecipientIDs(_ context.Context, messageID string) ([]string, error) {
	return m.recipients[messageID], nil
}

func (m *memRepo) Thread(_ context.Context, rootID string) ([]Message, error) {
	var out []Message
	for _, msg := range m.messages {
		if msg.RootID == rootID {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *memRepo) Participants(_ context.Context, rootID string) ([]string, error) {
	var out []string
	for id, msg := range m.messages {
		if msg.RootID != rootID {
			continue
		}
		out = append(out, msg.SenderID)
		out = append(out, m.recipients[id]...)
	}
	return out, nil
}

func (m *memRepo) Inbox(_ context.Context, userID string, _ InboxParams) ([]InboxItem, error) {
	var out []InboxItem
	for id, rcpts := range m.recipients {
		if slices.Contains(rcpts, userID) {
			out = append(out, InboxItem{Message: *m.messages[id]})
		}
	}
	return out, nil
}

func (m *memRepo) UnreadCount(context.Context, string) (int, error) { return 0, nil }

func (m *memRepo) MarkRead(_ context.Context, messageID, userID string) error {
	if !slices.Contains(m.recipients[messageID], userID) {
		return core.ErrNotFound
	}
	return nil
}

func (m *memRepo) SetArchived(_ context.Context, messageID, userID string, _ bool) error {
	return m.MarkRead(context.Background(), messageID, userID)
}

type published struct {
	channel string
	event   InboxEvent
}

type fakePublisher struct {
	sent []published
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, channel string, v any) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{channel: channel, event: v.(InboxEvent)})
	return nil
}

type push struct {
	userIDs []string
	title   string
	body    string
	data    map[string]string
}

type fakeNotifier struct {
	pushes []push
}

func (f *fakeNotifier) Notify(_ context.Context, userIDs []string, title, body string, data map[string]string) {
	f.pushes = append(f.pushes, push{userIDs: userIDs, title: title, body: body, data: data})
}

func newTestService(repo *memRepo) (*Service, *fakePublisher, *fakeNotifier) {
	pub := &fakePublisher{}
	notifier := &fakeNotifier{}
	svc := NewService(repo, pub, notifier)
	svc.dispatch = func(f func()) { f() }
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return svc, pub, notifier
}

func member(id string) *authz.Principal {
	return &authz.Principal{UserID: id, Roles: authz.NewRoleSet(authz.RoleMentee)}
}

func TestReplyRecipients(t *testing.T) {
	tests := []struct {
		name       string
		mode       ReplyMode
		recipients []string
		replier    string
		want       []string
	}{
		{"sender only", ReplySenderOnly, []string{"b", "c"}, "b", []string{"a"}},
		{"reply all", ReplyAll, []string{"b", "c"}, "b", []string{"a", "c"}},
		{"sender follows up", ReplySenderOnly, []string{"b", "c"}, "a", []string{"b", "c"}},
		{"duplicates dropped", ReplyAll, []string{"a", "c", "c"}, "b", []string{"a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := &Message{SenderID: "a", ReplyMode: tt.mode}
			got := replyRecipients(parent, tt.recipients, tt.replier)
			if !slices.Equal(got, tt.want) {
				t.Errorf("replyRecipients() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSendDelivers(t *testing.T) {
	repo := newMemRepo("a", "b", "c")
	svc, pub, notifier := newTestService(repo)

	m, err := svc.Send(context.Background(), member("a"), SendRequest{
		RecipientIDs: []string{"b", "c", "a", "b"},
		Subject:      "Practice",
		Body:         "See you <b>Saturday</b>",
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if m.RootID != m.ID || m.ParentID != nil {
		t.Errorf("root message has RootID %q ParentID %v", m.RootID, m.ParentID)
	}
	if m.ReplyMode != ReplySenderOnly {
		t.Errorf("ReplyMode = %q, want default %q", m.ReplyMode, ReplySenderOnly)
	}
	if m.Body != "See you Saturday" {
		t.Errorf("Body = %q, want markup stripped", m.Body)
	}
	if got := repo.recipients[m.ID]; !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("recipients = %v, want [b c]", got)
	}

	if len(pub.sent) != 2 || pub.sent[0].channel != InboxChannel("b") {
		t.Fatalf("published = %+v", pub.sent)
	}
	if pub.sent[0].event.Message.ID != m.ID {
		t.Errorf("published message %q, want %q", pub.sent[0].event.Message.ID, m.ID)
	}

	if len(notifier.pushes) != 1 {
		t.Fatalf("pushes = %d, want 1", len(notifier.pushes))
	}
	p := notifier.pushes[0]
	if p.title != "A: Practice" || p.data["root_id"] != m.ID {
		t.Errorf("push = %+v", p)
	}
}

func TestSendKeepsPlainCharacters(t *testing.T) {
	repo := newMemRepo("a", "b")
	svc, _, _ := newTestService(repo)

	m, err := svc.Send(context.Background(), member("a"), SendRequest{
		RecipientIDs: []string{"b"},
		Subject:      "Q&A",
		Body:         `Don't forget: 3 < 5 & "snacks" <i>please</i>`,
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	stored := repo.messages[m.ID]
	if stored.Subject != "Q&A" {
		t.Errorf("Subject = %q, want %q", stored.Subject, "Q&A")
	}
	want := `Don't forget: 3 < 5 & "snacks" please`
	if stored.Body != want {
		t.Errorf("Body = %q, want %q", stored.Body, want)
	}
}

func TestSendValidation(t *testing.T) {
	repo := newMemRepo("a", "b")
	svc, pub, _ := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Send(ctx, member("a"), SendRequest{RecipientIDs: []string{"a"}, Subject: "x", Body: "y"})
	if _, ok := core.AsValidationError(err); !ok {
		t.Errorf("self-only send error = %v, want validation error", err)
	}

	_, err = svc.Send(ctx, member("a"), SendRequest{
		RecipientIDs: []string{"b"},
		Subject:      "<script>alert(1)</script>",
		Body:         "hi",
	})
	ve, ok := core.AsValidationError(err)
	if !ok || ve.Fields["subject"] == "" {
		t.Errorf("markup-only subject error = %v, want subject field", err)
	}

	_, err = svc.Send(ctx, member("a"), SendRequest{RecipientIDs: []string{"ghost"}, Subject: "x", Body: "y"})
	ve, ok = core.AsValidationError(err)
	if !ok || ve.Fields["recipient_ids"] == "" {
		t.Errorf("unknown recipient error = %v, want recipient_ids field", err)
	}

	if len(pub.sent) != 0 {
		t.Errorf("failed sends published %d events", len(pub.sent))
	}

	_, err = svc.Send(ctx, nil, SendRequest{RecipientIDs: []string{"b"}, Subject: "x", Body: "y"})
	if !errors.Is(err, authz.ErrUnauthenticated) {
		t.Errorf("anonymous send error = %v, want ErrUnauthenticated", err)
	}
}

func TestReplyThreading(t *testing.T) {
	repo := newMemRepo("a", "b", "c", "d")
	svc, _, _ := newTestService(repo)
	ctx := context.Background()

	root, err := svc.Send(ctx, member("a"), SendRequest{
		RecipientIDs: []string{"b", "c"},
		Subject:      "Carpool",
		Body:         "Who can drive?",
		ReplyMode:    ReplyAll,
	})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	reply, err := svc.Reply(ctx, member("b"), root.ID, ReplyRequest{Body: "I can"})
	if err != nil {
		t.Fatalf("Reply() error = %v", err)
	}
	if reply.RootID != root.ID || reply.ParentID == nil || *reply.ParentID != root.ID {
		t.Errorf("reply threading = root %q parent %v", reply.RootID, reply.ParentID)
	}
	if reply.Subject != "Re: Carpool" {
		t.Errorf("Subject = %q, want %q", reply.Subject, "Re: Carpool")
	}
	if reply.ReplyMode != ReplyAll {
		t.Errorf("ReplyMode = %q, want inherited %q", reply.ReplyMode, ReplyAll)
	}
	if got := repo.recipients[reply.ID]; !slices.Equal(got, []string{"a", "c"}) {
		t.Errorf("reply recipients = %v, want [a c]", got)
	}

	second, err := svc.Reply(ctx, member("c"), reply.ID, ReplyRequest{Body: "Thanks"})
	if err != nil {
		t.Fatalf("second Reply() error = %v", err)
	}
	if second.Subject != "Re: Carpool" {
		t.Errorf("Subject = %q, want no doubled prefix", second.Subject)
	}

	_, err = svc.Reply(ctx, member("d"), root.ID, ReplyRequest{Body: "me too"})
	if !errors.Is(err, authz.ErrNotOwner) {
		t.Errorf("outsider Reply() error = %v, want ErrNotOwner", err)
	}

	_, err = svc.Thread(ctx, member("d"), root.ID)
	if !errors.Is(err, authz.ErrNotOwner) {
		t.Errorf("outsider Thread() error = %v, want ErrNotOwner", err)
	}

	staff := &authz.Principal{UserID: "s", Roles: authz.NewRoleSet(authz.RoleStaff)}
	thread, err := svc.Thread(ctx, staff, reply.ID)
	if err != nil {
		t.Fatalf("staff Thread() error = %v", err)
	}
	if len(thread) != 3 {
		t.Errorf("thread has %d messages, want 3", len(thread))
	}
}

func TestDeliveryFailureDoesNotFailSend(t *testing.T) {
	repo := newMemRepo("a", "b")
	svc, pub, notifier := newTestService(repo)
	pub.err = errors.New("redis down")

	if _, err := svc.Send(context.Background(), member("a"), SendRequest{
		RecipientIDs: []string{"b"},
		Subject:      "x",
		Body:         "y",
	}); err != nil {
		t.Fatalf("Send() error = %v, want delivery errors swallowed", err)
	}
	if len(notifier.pushes) != 1 {
		t.Errorf("pushes = %d, want push despite publish failure", len(notifier.pushes))
	}
}

func TestMarkReadRequiresRecipient(t *testing.T) {
	repo := newMemRepo("a", "b", "c")
	svc, _, _ := newTestService(repo)
	ctx := context.Background()

	m, err := svc.Send(ctx, member("a"), SendRequest{RecipientIDs: []string{"b"}, Subject: "x", Body: "y"})
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if err := svc.MarkRead(ctx, member("b"), m.ID); err != nil {
		t.Errorf("recipient MarkRead() error = %v", err)
	}
	if err := svc.MarkRead(ctx, member("c"), m.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("stranger MarkRead() error = %v, want ErrNotFound", err)
	}
}

func TestPreview(t *testing.T) {
	short := "hello"
	if got := preview(short); got != short {
		t.Errorf("preview(%q) = %q", short, got)
	}

	long := strings.Repeat("é", pushPreviewLen+5)
	got := []rune(preview(long))
	if len(got) != pushPreviewLen || got[len(got)-1] != '…' {
		t.Errorf("preview() = %d runes ending %q", len(got), got[len(got)-1])
	}
}
