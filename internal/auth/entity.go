// AngelaMos | 2026
// entity.go

package auth

import (
	"time"

	"github.com/mentorcamp/backend/internal/authz"
)

// Token is an API bearer credential. Only the SHA-256 of the raw value is
// stored; the raw value is shown to the client once.
type Token struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	TokenHash  string    `db:"token_hash"`
	DeviceName *string   `db:"device_name"`
	ExpiresAt  time.Time `db:"expires_at"`
	LastUsedAt time.Time `db:"last_used_at"`
	CreatedAt  time.Time `db:"created_at"`
}

func (t *Token) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// UserInfo is the account view the authenticator needs. Roles must reflect
// the profile rows at load time.
type UserInfo struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Active       bool
	AvatarURL    *string
	Roles        authz.RoleSet
}

func (u *UserInfo) Principal() *authz.Principal {
	return &authz.Principal{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Roles:  u.Roles,
	}
}

// NewAccount is everything needed to create a user together with its
// profile rows in one transaction.
type NewAccount struct {
	Email                 string
	PasswordHash          string
	Name                  string
	Active                bool
	ConfirmationTokenHash *string
	Roles                 []authz.Role
}
