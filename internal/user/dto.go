// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/profile"
)

type CreateUserRequest struct {
	Email    string   `json:"email"    validate:"required,email,max=255"`
	Password string   `json:"password" validate:"required,min=8,max=128"`
	Name     string   `json:"name"     validate:"required,min=1,max=100"`
	Active   *bool    `json:"active,omitempty"`
	Roles    []string `json:"roles"    validate:"dive,oneof=admin staff mentor mentee guardian volunteer"`
}

type UpdateUserRequest struct {
	Name  *string `json:"name,omitempty"  validate:"omitempty,min=1,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
}

type StaffLevelRequest struct {
	PermissionLevel string `json:"permission_level" validate:"required,oneof=standard admin"`
}

type AssignMentorRequest struct {
	MentorUserID *string `json:"mentor_user_id" validate:"omitempty,uuid"`
}

type UserResponse struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	Name      string            `json:"name"`
	Active    bool              `json:"active"`
	AvatarURL *string           `json:"avatar_url,omitempty"`
	Roles     []string          `json:"roles"`
	Profiles  *ProfilesResponse `json:"profiles,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type ProfilesResponse struct {
	StaffLevel   *string `json:"staff_level,omitempty"`
	MentorUserID *string `json:"mentor_user_id,omitempty"`
	TeamID       *string `json:"team_id,omitempty"`
}

type ListUsersParams struct {
	Page     int
	PageSize int
	Search   string
	Role     authz.Role
	Active   *bool
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Detail is a user together with its profile rows.
type Detail struct {
	User     *User
	Profiles *profile.Set
}

func (d *Detail) Roles() authz.RoleSet {
	if d.Profiles == nil {
		return authz.NewRoleSet()
	}
	return d.Profiles.Roles()
}

func ToUserResponse(d *Detail) UserResponse {
	resp := UserResponse{
		ID:        d.User.ID,
		Email:     d.User.Email,
		Name:      d.User.Name,
		Active:    d.User.Active,
		AvatarURL: d.User.AvatarURL,
		Roles:     d.Roles().Strings(),
		CreatedAt: d.User.CreatedAt,
		UpdatedAt: d.User.UpdatedAt,
	}

	if set := d.Profiles; set != nil {
		var p ProfilesResponse
		if set.Staff != nil {
			p.StaffLevel = &set.Staff.PermissionLevel
		}
		if set.Mentee != nil {
			p.MentorUserID = set.Mentee.MentorUserID
			p.TeamID = set.Mentee.TeamID
		}
		if p != (ProfilesResponse{}) {
			resp.Profiles = &p
		}
	}

	return resp
}

func ToUserResponseList(details []Detail) []UserResponse {
	out := make([]UserResponse, 0, len(details))
	for i := range details {
		out = append(out, ToUserResponse(&details[i]))
	}
	return out
}
