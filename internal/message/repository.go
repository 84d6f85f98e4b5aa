// AngelaMos | 2026
// repository.go

package message

import (
	"context"
	"fmt"

	"github.com/mentorcamp/backend/internal/core"
)

type Repository interface {
	// Create stores the message and its recipient rows in one statement.
	Create(ctx context.Context, m *Message, recipientIDs []string) error
	GetByID(ctx context.Context, id string) (*Message, error)
	RecipientIDs(ctx context.Context, messageID string) ([]string, error)
	Thread(ctx context.Context, rootID string) ([]Message, error)
	// Participants lists every sender and recipient in the thread.
	Participants(ctx context.Context, rootID string) ([]string, error)
	Inbox(ctx context.Context, userID string, params InboxParams) ([]InboxItem, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, messageID, userID string) error
	SetArchived(ctx context.Context, messageID, userID string, archived bool) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const messageSelect = `
	SELECT m.id, m.parent_id, m.root_id, m.sender_id, u.name AS sender_name,
	       m.subject, m.body, m.reply_mode, m.created_at`

func (r *repository) Create(ctx context.Context, m *Message, recipientIDs []string) error {
	query := `
		WITH msg AS (
			INSERT INTO messages (id, parent_id, root_id, sender_id, subject, body, reply_mode, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id
		)
		INSERT INTO message_recipients (message_id, user_id)
		SELECT msg.id, rcpt::uuid FROM msg, unnest($9::text[]) AS rcpt`

	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.ParentID,
		m.RootID,
		m.SenderID,
		m.Subject,
		m.Body,
		m.ReplyMode,
		m.CreatedAt,
		recipientIDs,
	)
	if err != nil {
		return fmt.Errorf("create message: %w", core.MapStoreError(err))
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Message, error) {
	query := messageSelect + `
		FROM messages m JOIN users u ON u.id = m.sender_id
		WHERE m.id = $1`

	var m Message
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, fmt.Errorf("get message: %w", core.MapStoreError(err))
	}
	return &m, nil
}

func (r *repository) RecipientIDs(ctx context.Context, messageID string) ([]string, error) {
	query := `SELECT user_id FROM message_recipients WHERE message_id = $1 ORDER BY user_id`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, messageID); err != nil {
		return nil, fmt.Errorf("list recipients: %w", err)
	}
	return ids, nil
}

func (r *repository) Thread(ctx context.Context, rootID string) ([]Message, error) {
	query := messageSelect + `
		FROM messages m JOIN users u ON u.id = m.sender_id
		WHERE m.root_id = $1
		ORDER BY m.created_at, m.id`

	var messages []Message
	if err := r.db.SelectContext(ctx, &messages, query, rootID); err != nil {
		return nil, fmt.Errorf("load thread: %w", err)
	}
	return messages, nil
}

func (r *repository) Participants(ctx context.Context, rootID string) ([]string, error) {
	query := `
		SELECT sender_id FROM messages WHERE root_id = $1
		UNION
		SELECT mr.user_id FROM message_recipients mr
		JOIN messages m ON m.id = mr.message_id
		WHERE m.root_id = $1`

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, rootID); err != nil {
		return nil, fmt.Errorf("thread participants: %w", err)
	}
	return ids, nil
}

func (r *repository) Inbox(ctx context.Context, userID string, params InboxParams) ([]InboxItem, error) {
	query := messageSelect + `, mr.read, mr.archived
		FROM message_recipients mr
		JOIN messages m ON m.id = mr.message_id
		JOIN users u ON u.id = m.sender_id
		WHERE mr.user_id = $1 AND mr.archived = $2
		ORDER BY m.created_at DESC
		LIMIT $3 OFFSET $4`

	var items []InboxItem
	err := r.db.SelectContext(ctx, &items, query, userID, params.Archived, params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("load inbox: %w", err)
	}
	return items, nil
}

func (r *repository) UnreadCount(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*) FROM message_recipients
		WHERE user_id = $1 AND NOT read AND NOT archived`

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

// MarkRead keeps the first read time.
func (r *repository) MarkRead(ctx context.Context, messageID, userID string) error {
	query := `
		UPDATE message_recipients
		SET read = TRUE, read_at = COALESCE(read_at, NOW())
		WHERE message_id = $1 AND user_id = $2`
	return r.execOne(ctx, "mark read", query, messageID, userID)
}

func (r *repository) SetArchived(ctx context.Context, messageID, userID string, archived bool) error {
	query := `
		UPDATE message_recipients SET archived = $3
		WHERE message_id = $1 AND user_id = $2`
	return r.execOne(ctx, "archive message", query, messageID, userID, archived)
}

func (r *repository) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, core.MapStoreError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}
