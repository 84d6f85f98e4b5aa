// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

type User struct {
	ID                    string     `db:"id"`
	Email                 string     `db:"email"`
	PasswordHash          string     `db:"password_hash"`
	Name                  string     `db:"name"`
	Active                bool       `db:"active"`
	ConfirmationTokenHash *string    `db:"confirmation_token_hash"`
	ConfirmationSentAt    *time.Time `db:"confirmation_sent_at"`
	AvatarURL             *string    `db:"avatar_url"`
	CreatedAt             time.Time  `db:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at"`
}

// IsPendingConfirmation reports a self-registered account whose mail link
// has not been used yet.
func (u *User) IsPendingConfirmation() bool {
	return !u.Active && u.ConfirmationTokenHash != nil
}
