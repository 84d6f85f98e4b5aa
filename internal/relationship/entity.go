// AngelaMos | 2026
// entity.go

package relationship

import (
	"time"

	"github.com/mentorcamp/backend/internal/authz"
)

// UserRelationship is a typed link from UserID to RelatedUserID. For the
// "mentor" type UserID is the mentor side.
type UserRelationship struct {
	ID               string    `db:"id"`
	UserID           string    `db:"user_id"`
	UserName         string    `db:"user_name"`
	RelatedUserID    string    `db:"related_user_id"`
	RelatedUserName  string    `db:"related_user_name"`
	RelationshipType string    `db:"relationship_type"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (r *UserRelationship) Ref() authz.RelationshipRef {
	return authz.RelationshipRef{
		UserID:           r.UserID,
		RelatedUserID:    r.RelatedUserID,
		RelationshipType: r.RelationshipType,
	}
}

// FamilyMember links a guardian profile to a mentee profile. The user ids
// are joined in for display.
type FamilyMember struct {
	ID               string    `db:"id"`
	GuardianID       string    `db:"guardian_id"`
	GuardianUserID   string    `db:"guardian_user_id"`
	GuardianName     string    `db:"guardian_name"`
	MenteeID         string    `db:"mentee_id"`
	MenteeUserID     string    `db:"mentee_user_id"`
	MenteeName       string    `db:"mentee_name"`
	RelationshipType string    `db:"relationship_type"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}
