// AngelaMos | 2026
// service.go

package relationship

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/profile"
)

// Profiles resolves the role profiles behind a user id.
type Profiles interface {
	ForUser(ctx context.Context, userID string) (*profile.Set, error)
}

// Service applies the relationship policy before touching storage. Every
// method takes the acting principal.
type Service struct {
	repo     Repository
	profiles Profiles
}

func NewService(repo Repository, profiles Profiles) *Service {
	return &Service{repo: repo, profiles: profiles}
}

// List returns every link for superusers and only the actor's own links for
// everyone else.
func (s *Service) List(ctx context.Context, actor *authz.Principal) ([]UserRelationship, error) {
	if err := authz.RequirePermission(actor, authz.ActionView, authz.ResourceRelationship); err != nil {
		return nil, err
	}

	if authz.IsSuperuser(actor) {
		return s.repo.List(ctx, "")
	}
	return s.repo.List(ctx, actor.UserID)
}

func (s *Service) Get(ctx context.Context, actor *authz.Principal, id string) (*UserRelationship, error) {
	if err := authz.RequirePermission(actor, authz.ActionView, authz.ResourceRelationship); err != nil {
		return nil, err
	}

	rel, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.IsSuperuser(actor) && rel.UserID != actor.UserID && rel.RelatedUserID != actor.UserID {
		return nil, authz.ErrNotOwner
	}
	return rel, nil
}

func (s *Service) Create(
	ctx context.Context,
	actor *authz.Principal,
	req CreateRelationshipRequest,
) (*UserRelationship, error) {
	rel := &UserRelationship{
		ID:               uuid.NewString(),
		UserID:           req.UserID,
		RelatedUserID:    req.RelatedUserID,
		RelationshipType: req.RelationshipType,
	}

	if err := authz.RequireRelationshipChange(actor, authz.ActionCreate, rel.Ref()); err != nil {
		return nil, err
	}

	if rel.UserID == rel.RelatedUserID {
		return nil, core.NewValidationError("related_user_id", "cannot be the same user")
	}
	if err := s.checkMentorSide(ctx, rel); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rel); err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateKey):
			return nil, core.DuplicateError("related_user_id")
		case core.ConstraintName(err) != "" && errors.Is(err, core.ErrNotFound):
			return nil, core.NewValidationError("related_user_id", "does not exist")
		}
		return nil, err
	}
	return s.repo.GetByID(ctx, rel.ID)
}

// Update checks the policy against the link both before and after the
// change, so a mentor cannot retype their link out of their own reach.
func (s *Service) Update(
	ctx context.Context,
	actor *authz.Principal,
	id string,
	req UpdateRelationshipRequest,
) (*UserRelationship, error) {
	rel, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireRelationshipChange(actor, authz.ActionEdit, rel.Ref()); err != nil {
		return nil, err
	}

	rel.RelationshipType = req.RelationshipType
	if err := authz.RequireRelationshipChange(actor, authz.ActionEdit, rel.Ref()); err != nil {
		return nil, err
	}
	if err := s.checkMentorSide(ctx, rel); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateType(ctx, id, rel.RelationshipType); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, actor *authz.Principal, id string) error {
	rel, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireRelationshipChange(actor, authz.ActionDelete, rel.Ref()); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) checkMentorSide(ctx context.Context, rel *UserRelationship) error {
	if rel.RelationshipType != authz.MentorRelationship {
		return nil
	}

	set, err := s.profiles.ForUser(ctx, rel.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NewValidationError("user_id", "does not exist")
		}
		return err
	}
	if set.Mentor == nil {
		return core.NewValidationError("user_id", "is not a mentor")
	}
	return nil
}

// ListFamilyMembers returns every family link for superusers and a
// guardian's own links for guardians.
func (s *Service) ListFamilyMembers(ctx context.Context, actor *authz.Principal) ([]FamilyMember, error) {
	if err := authz.RequirePermission(actor, authz.ActionView, authz.ResourceFamilyMember); err != nil {
		return nil, err
	}

	if authz.IsSuperuser(actor) {
		return s.repo.ListFamilyMembers(ctx, "")
	}
	return s.repo.ListFamilyMembers(ctx, actor.UserID)
}

func (s *Service) GetFamilyMember(ctx context.Context, actor *authz.Principal, id string) (*FamilyMember, error) {
	if err := authz.RequirePermission(actor, authz.ActionView, authz.ResourceFamilyMember); err != nil {
		return nil, err
	}

	f, err := s.repo.GetFamilyMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.IsSuperuser(actor) && f.GuardianUserID != actor.UserID {
		return nil, authz.ErrNotOwner
	}
	return f, nil
}

func (s *Service) CreateFamilyMember(
	ctx context.Context,
	actor *authz.Principal,
	req CreateFamilyMemberRequest,
) (*FamilyMember, error) {
	if err := authz.RequireFamilyManagement(actor); err != nil {
		return nil, err
	}

	guardian, err := s.profileOf(ctx, req.GuardianUserID, "guardian_user_id")
	if err != nil {
		return nil, err
	}
	if guardian.Guardian == nil {
		return nil, core.NewValidationError("guardian_user_id", "is not a guardian")
	}

	mentee, err := s.profileOf(ctx, req.MenteeUserID, "mentee_user_id")
	if err != nil {
		return nil, err
	}
	if mentee.Mentee == nil {
		return nil, core.NewValidationError("mentee_user_id", "is not a mentee")
	}

	f := &FamilyMember{
		ID:               uuid.NewString(),
		GuardianID:       guardian.Guardian.ID,
		MenteeID:         mentee.Mentee.ID,
		RelationshipType: req.RelationshipType,
	}
	if err := s.repo.CreateFamilyMember(ctx, f); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("mentee_user_id")
		}
		return nil, err
	}
	return s.repo.GetFamilyMember(ctx, f.ID)
}

func (s *Service) UpdateFamilyMember(
	ctx context.Context,
	actor *authz.Principal,
	id string,
	req UpdateFamilyMemberRequest,
) (*FamilyMember, error) {
	if err := authz.RequireFamilyManagement(actor); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateFamilyMemberType(ctx, id, req.RelationshipType); err != nil {
		return nil, err
	}
	return s.repo.GetFamilyMember(ctx, id)
}

func (s *Service) DeleteFamilyMember(ctx context.Context, actor *authz.Principal, id string) error {
	if err := authz.RequireFamilyManagement(actor); err != nil {
		return err
	}
	return s.repo.DeleteFamilyMember(ctx, id)
}

func (s *Service) profileOf(ctx context.Context, userID, field string) (*profile.Set, error) {
	set, err := s.profiles.ForUser(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, core.NewValidationError(field, "does not exist")
	}
	return set, err
}
