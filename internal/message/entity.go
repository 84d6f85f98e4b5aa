// AngelaMos | 2026
// entity.go

package message

import "time"

// ReplyMode decides who a reply goes to when the replier names nobody.
type ReplyMode string

const (
	ReplySenderOnly ReplyMode = "sender_only"
	ReplyAll        ReplyMode = "all"
)

func (m ReplyMode) Valid() bool {
	return m == ReplySenderOnly || m == ReplyAll
}

// Message is one node of a thread. A root message has no parent and is its
// own root.
type Message struct {
	ID         string    `db:"id"`
	ParentID   *string   `db:"parent_id"`
	RootID     string    `db:"root_id"`
	SenderID   string    `db:"sender_id"`
	SenderName string    `db:"sender_name"`
	Subject    string    `db:"subject"`
	Body       string    `db:"body"`
	ReplyMode  ReplyMode `db:"reply_mode"`
	CreatedAt  time.Time `db:"created_at"`
}

type Recipient struct {
	MessageID string     `db:"message_id"`
	UserID    string     `db:"user_id"`
	Read      bool       `db:"read"`
	Archived  bool       `db:"archived"`
	ReadAt    *time.Time `db:"read_at"`
}

// InboxItem is a message as one recipient sees it.
type InboxItem struct {
	Message
	Read     bool `db:"read"`
	Archived bool `db:"archived"`
}

// replyRecipients expands the default audience of a reply to parent.
// sender_only answers the parent's sender; all answers the sender and every
// recipient. The replier is never included. A sender replying to their own
// sender_only message reaches its original recipients.
func replyRecipients(parent *Message, parentRecipients []string, replier string) []string {
	candidates := []string{parent.SenderID}
	if parent.ReplyMode == ReplyAll || parent.SenderID == replier {
		candidates = append(candidates, parentRecipients...)
	}
	return audience(candidates, replier)
}

// audience drops duplicates and the sender, keeping first-seen order.
func audience(ids []string, sender string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || id == sender {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
