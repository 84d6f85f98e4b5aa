// AngelaMos | 2026
// service.go

package profile

import (
	"context"
	"fmt"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
)

// Listener is told after a user's role set changes.
type Listener interface {
	RolesChanged(ctx context.Context, userID string)
}

type Service struct {
	repo      Repository
	listeners []Listener
}

func NewService(repo Repository, listeners ...Listener) *Service {
	return &Service{repo: repo, listeners: listeners}
}

func (s *Service) ForUser(ctx context.Context, userID string) (*Set, error) {
	return s.repo.ForUser(ctx, userID)
}

func (s *Service) ForUsers(
	ctx context.Context,
	userIDs []string,
) (map[string]*Set, error) {
	return s.repo.ForUsers(ctx, userIDs)
}

func (s *Service) Grant(ctx context.Context, userID string, role authz.Role) (*Set, error) {
	if err := s.repo.Grant(ctx, userID, role); err != nil {
		return nil, err
	}
	return s.changed(ctx, userID)
}

func (s *Service) Revoke(ctx context.Context, userID string, role authz.Role) (*Set, error) {
	if err := s.repo.Revoke(ctx, userID, role); err != nil {
		return nil, err
	}
	return s.changed(ctx, userID)
}

func (s *Service) SetStaffLevel(ctx context.Context, userID, level string) (*Set, error) {
	if level != PermissionStandard && level != PermissionAdmin {
		return nil, core.NewValidationError(
			"permission_level",
			"must be one of standard admin",
		)
	}

	if err := s.repo.SetStaffLevel(ctx, userID, level); err != nil {
		return nil, err
	}
	return s.changed(ctx, userID)
}

// AssignMentor links a mentee to a mentor, or unlinks when mentorUserID is
// nil. The mentor must hold a mentor profile.
func (s *Service) AssignMentor(
	ctx context.Context,
	menteeUserID string,
	mentorUserID *string,
) (*Set, error) {
	if mentorUserID != nil {
		mentor, err := s.repo.ForUser(ctx, *mentorUserID)
		if err != nil {
			return nil, err
		}
		if mentor.Mentor == nil {
			return nil, core.NewValidationError("mentor_id", "is not a mentor")
		}
	}

	if err := s.repo.AssignMentor(ctx, menteeUserID, mentorUserID); err != nil {
		return nil, fmt.Errorf("user has no mentee profile: %w", err)
	}
	return s.repo.ForUser(ctx, menteeUserID)
}

func (s *Service) AssignTeam(
	ctx context.Context,
	menteeUserID string,
	teamID *string,
) error {
	return s.repo.AssignTeam(ctx, menteeUserID, teamID)
}

func (s *Service) UserIDsWithRole(ctx context.Context, role authz.Role) ([]string, error) {
	return s.repo.UserIDsWithRole(ctx, role)
}

func (s *Service) changed(ctx context.Context, userID string) (*Set, error) {
	set, err := s.repo.ForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, l := range s.listeners {
		l.RolesChanged(ctx, userID)
	}
	return set, nil
}
