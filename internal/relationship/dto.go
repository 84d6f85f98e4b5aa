// AngelaMos | 2026
// dto.go

package relationship

import "time"

type CreateRelationshipRequest struct {
	UserID           string `json:"user_id"           validate:"required"`
	RelatedUserID    string `json:"related_user_id"   validate:"required"`
	RelationshipType string `json:"relationship_type" validate:"required,max=50"`
}

type UpdateRelationshipRequest struct {
	RelationshipType string `json:"relationship_type" validate:"required,max=50"`
}

type CreateFamilyMemberRequest struct {
	GuardianUserID   string `json:"guardian_user_id"  validate:"required"`
	MenteeUserID     string `json:"mentee_user_id"    validate:"required"`
	RelationshipType string `json:"relationship_type" validate:"required,max=50"`
}

type UpdateFamilyMemberRequest struct {
	RelationshipType string `json:"relationship_type" validate:"required,max=50"`
}

type RelationshipResponse struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	UserName         string    `json:"user_name,omitempty"`
	RelatedUserID    string    `json:"related_user_id"`
	RelatedUserName  string    `json:"related_user_name,omitempty"`
	RelationshipType string    `json:"relationship_type"`
	CreatedAt        time.Time `json:"created_at"`
}

type FamilyMemberResponse struct {
	ID               string    `json:"id"`
	GuardianUserID   string    `json:"guardian_user_id"`
	GuardianName     string    `json:"guardian_name,omitempty"`
	MenteeUserID     string    `json:"mentee_user_id"`
	MenteeName       string    `json:"mentee_name,omitempty"`
	RelationshipType string    `json:"relationship_type"`
	CreatedAt        time.Time `json:"created_at"`
}

func ToRelationshipResponse(r *UserRelationship) RelationshipResponse {
	return RelationshipResponse{
		ID:               r.ID,
		UserID:           r.UserID,
		UserName:         r.UserName,
		RelatedUserID:    r.RelatedUserID,
		RelatedUserName:  r.RelatedUserName,
		RelationshipType: r.RelationshipType,
		CreatedAt:        r.CreatedAt,
	}
}

func ToRelationshipResponseList(rels []UserRelationship) []RelationshipResponse {
	out := make([]RelationshipResponse, 0, len(rels))
	for i := range rels {
		out = append(out, ToRelationshipResponse(&rels[i]))
	}
	return out
}

func ToFamilyMemberResponse(f *FamilyMember) FamilyMemberResponse {
	return FamilyMemberResponse{
		ID:               f.ID,
		GuardianUserID:   f.GuardianUserID,
		GuardianName:     f.GuardianName,
		MenteeUserID:     f.MenteeUserID,
		MenteeName:       f.MenteeName,
		RelationshipType: f.RelationshipType,
		CreatedAt:        f.CreatedAt,
	}
}

func ToFamilyMemberResponseList(members []FamilyMember) []FamilyMemberResponse {
	out := make([]FamilyMemberResponse, 0, len(members))
	for i := range members {
		out = append(out, ToFamilyMemberResponse(&members[i]))
	}
	return out
}
