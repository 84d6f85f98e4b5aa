// AngelaMos | 2026
// entity.go

package profile

import (
	"time"

	"github.com/mentorcamp/backend/internal/authz"
)

const (
	PermissionStandard = "standard"
	PermissionAdmin    = "admin"
)

type Staff struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	PermissionLevel string    `db:"permission_level"`
	CreatedAt       time.Time `db:"created_at"`
}

type Mentor struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

type Mentee struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	MentorID     *string   `db:"mentor_id"`
	MentorUserID *string   `db:"mentor_user_id"`
	TeamID       *string   `db:"team_id"`
	CreatedAt    time.Time `db:"created_at"`
}

type Guardian struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

type Volunteer struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Set is every profile row one user holds. Nil fields are roles the user
// does not have.
type Set struct {
	UserID    string
	Staff     *Staff
	Mentor    *Mentor
	Mentee    *Mentee
	Guardian  *Guardian
	Volunteer *Volunteer
}

func (s *Set) Roles() authz.RoleSet {
	roles := authz.NewRoleSet()
	if s == nil {
		return roles
	}
	if s.Staff != nil {
		roles.Add(authz.RoleStaff)
		if s.Staff.PermissionLevel == PermissionAdmin {
			roles.Add(authz.RoleAdmin)
		}
	}
	if s.Mentor != nil {
		roles.Add(authz.RoleMentor)
	}
	if s.Mentee != nil {
		roles.Add(authz.RoleMentee)
	}
	if s.Guardian != nil {
		roles.Add(authz.RoleGuardian)
	}
	if s.Volunteer != nil {
		roles.Add(authz.RoleVolunteer)
	}
	return roles
}

// row is the flattened left join of a user onto every profile table.
type row struct {
	UserID             string  `db:"user_id"`
	StaffID            *string `db:"staff_id"`
	StaffLevel         *string `db:"staff_level"`
	MentorID           *string `db:"mentor_id"`
	MenteeID           *string `db:"mentee_id"`
	MenteeMentorID     *string `db:"mentee_mentor_id"`
	MenteeMentorUserID *string `db:"mentee_mentor_user_id"`
	MenteeTeamID       *string `db:"mentee_team_id"`
	GuardianID         *string `db:"guardian_id"`
	VolunteerID        *string `db:"volunteer_id"`
}

func (r row) set() *Set {
	s := &Set{UserID: r.UserID}
	if r.StaffID != nil {
		level := PermissionStandard
		if r.StaffLevel != nil {
			level = *r.StaffLevel
		}
		s.Staff = &Staff{ID: *r.StaffID, UserID: r.UserID, PermissionLevel: level}
	}
	if r.MentorID != nil {
		s.Mentor = &Mentor{ID: *r.MentorID, UserID: r.UserID}
	}
	if r.MenteeID != nil {
		s.Mentee = &Mentee{
			ID:           *r.MenteeID,
			UserID:       r.UserID,
			MentorID:     r.MenteeMentorID,
			MentorUserID: r.MenteeMentorUserID,
			TeamID:       r.MenteeTeamID,
		}
	}
	if r.GuardianID != nil {
		s.Guardian = &Guardian{ID: *r.GuardianID, UserID: r.UserID}
	}
	if r.VolunteerID != nil {
		s.Volunteer = &Volunteer{ID: *r.VolunteerID, UserID: r.UserID}
	}
	return s
}
