// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/mentorcamp/backend/internal/authz"
)

type LoginRequest struct {
	Email      string `json:"email"       validate:"required,email,max=255"`
	Password   string `json:"password"    validate:"required,max=128"`
	DeviceName string `json:"device_name" validate:"omitempty,max=100"`
}

type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name"     validate:"required,min=1,max=100"`
	Role     string `json:"role"     validate:"omitempty,oneof=mentee guardian"`
}

type ConfirmRequest struct {
	Token string `json:"token" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type UserResponse struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	Name      string   `json:"name"`
	Active    bool     `json:"active"`
	AvatarURL *string  `json:"avatar_url,omitempty"`
	Roles     []string `json:"roles"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
}

type LoginResponse struct {
	User  UserResponse  `json:"user"`
	Token TokenResponse `json:"token"`
}

type TokenInfo struct {
	ID         string    `json:"id"`
	DeviceName *string   `json:"device_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Current    bool      `json:"current"`
}

type SessionResponse struct {
	User      UserResponse  `json:"user"`
	Effective *UserResponse `json:"effective,omitempty"`
	Spoofing  bool          `json:"spoofing"`
}

func ToUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Active:    u.Active,
		AvatarURL: u.AvatarURL,
		Roles:     u.Roles.Strings(),
	}
}

func principalResponse(p *authz.Principal) UserResponse {
	return UserResponse{
		ID:     p.UserID,
		Email:  p.Email,
		Name:   p.Name,
		Active: true,
		Roles:  p.Roles.Strings(),
	}
}
