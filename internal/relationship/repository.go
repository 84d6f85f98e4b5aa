// AngelaMos | 2026
// repository.go

package relationship

import (
	"context"
	"fmt"

	"github.com/mentorcamp/backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, rel *UserRelationship) error
	GetByID(ctx context.Context, id string) (*UserRelationship, error)
	UpdateType(ctx context.Context, id, relationshipType string) error
	Delete(ctx context.Context, id string) error
	// List returns every link touching userID, or all links when userID is "".
	List(ctx context.Context, userID string) ([]UserRelationship, error)

	CreateFamilyMember(ctx context.Context, f *FamilyMember) error
	GetFamilyMember(ctx context.Context, id string) (*FamilyMember, error)
	UpdateFamilyMemberType(ctx context.Context, id, relationshipType string) error
	DeleteFamilyMember(ctx context.Context, id string) error
	// ListFamilyMembers filters by guardian user id when it is not "".
	ListFamilyMembers(ctx context.Context, guardianUserID string) ([]FamilyMember, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const relationshipSelect = `
	SELECT r.id, r.user_id, u.name AS user_name, r.related_user_id,
	       ru.name AS related_user_name, r.relationship_type, r.created_at, r.updated_at
	FROM user_relationships r
	JOIN users u ON u.id = r.user_id
	JOIN users ru ON ru.id = r.related_user_id`

func (r *repository) Create(ctx context.Context, rel *UserRelationship) error {
	query := `
		INSERT INTO user_relationships (id, user_id, related_user_id, relationship_type)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		rel.ID,
		rel.UserID,
		rel.RelatedUserID,
		rel.RelationshipType,
	).Scan(&rel.CreatedAt, &rel.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create relationship: %w", core.MapStoreError(err))
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*UserRelationship, error) {
	var rel UserRelationship
	if err := r.db.GetContext(ctx, &rel, relationshipSelect+` WHERE r.id = $1`, id); err != nil {
		return nil, fmt.Errorf("get relationship: %w", core.MapStoreError(err))
	}
	return &rel, nil
}

func (r *repository) UpdateType(ctx context.Context, id, relationshipType string) error {
	query := `
		UPDATE user_relationships SET relationship_type = $2, updated_at = NOW()
		WHERE id = $1`
	return r.execOne(ctx, "update relationship", query, id, relationshipType)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete relationship", `DELETE FROM user_relationships WHERE id = $1`, id)
}

func (r *repository) List(ctx context.Context, userID string) ([]UserRelationship, error) {
	query := relationshipSelect
	var args []any
	if userID != "" {
		query += ` WHERE r.user_id = $1 OR r.related_user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY r.created_at DESC`

	var rels []UserRelationship
	if err := r.db.SelectContext(ctx, &rels, query, args...); err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	return rels, nil
}

const familySelect = `
	SELECT f.id, f.guardian_id, g.user_id AS guardian_user_id, gu.name AS guardian_name,
	       f.mentee_id, m.user_id AS mentee_user_id, mu.name AS mentee_name,
	       f.relationship_type, f.created_at, f.updated_at
	FROM family_members f
	JOIN guardians g ON g.id = f.guardian_id
	JOIN users gu ON gu.id = g.user_id
	JOIN mentees m ON m.id = f.mentee_id
	JOIN users mu ON mu.id = m.user_id`

func (r *repository) CreateFamilyMember(ctx context.Context, f *FamilyMember) error {
	query := `
		INSERT INTO family_members (id, guardian_id, mentee_id, relationship_type)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		f.ID,
		f.GuardianID,
		f.MenteeID,
		f.RelationshipType,
	).Scan(&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create family member: %w", core.MapStoreError(err))
	}
	return nil
}

func (r *repository) GetFamilyMember(ctx context.Context, id string) (*FamilyMember, error) {
	var f FamilyMember
	if err := r.db.GetContext(ctx, &f, familySelect+` WHERE f.id = $1`, id); err != nil {
		return nil, fmt.Errorf("get family member: %w", core.MapStoreError(err))
	}
	return &f, nil
}

func (r *repository) UpdateFamilyMemberType(ctx context.Context, id, relationshipType string) error {
	query := `
		UPDATE family_members SET relationship_type = $2, updated_at = NOW()
		WHERE id = $1`
	return r.execOne(ctx, "update family member", query, id, relationshipType)
}

func (r *repository) DeleteFamilyMember(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete family member", `DELETE FROM family_members WHERE id = $1`, id)
}

func (r *repository) ListFamilyMembers(ctx context.Context, guardianUserID string) ([]FamilyMember, error) {
	query := familySelect
	var args []any
	if guardianUserID != "" {
		query += ` WHERE g.user_id = $1`
		args = append(args, guardianUserID)
	}
	query += ` ORDER BY gu.name, mu.name`

	var members []FamilyMember
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, fmt.Errorf("list family members: %w", err)
	}
	return members, nil
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
