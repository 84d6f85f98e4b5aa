// AngelaMos | 2026
// service.go

package team

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/media"
	"github.com/mentorcamp/backend/internal/profile"
)

// Roster moves mentees between teams. *profile.Service satisfies it.
type Roster interface {
	ForUser(ctx context.Context, userID string) (*profile.Set, error)
	AssignTeam(ctx context.Context, menteeUserID string, teamID *string) error
}

type Service struct {
	repo   Repository
	roster Roster
	images media.ImageStorage
}

func NewService(repo Repository, roster Roster, images media.ImageStorage) *Service {
	return &Service{repo: repo, roster: roster, images: images}
}

func (s *Service) List(ctx context.Context) ([]Team, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Team, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Members(ctx context.Context, id string) ([]Member, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.Members(ctx, id)
}

func (s *Service) Create(ctx context.Context, req TeamRequest) (*Team, error) {
	t := &Team{ID: uuid.NewString(), Name: req.Name, Color: req.Color}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, duplicateName(err)
	}
	return t, nil
}

func (s *Service) Update(ctx context.Context, id string, req TeamRequest) (*Team, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Name = req.Name
	t.Color = req.Color
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, duplicateName(err)
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if t.IconURL != nil {
		if err := s.images.DeleteImage(ctx, *t.IconURL); err != nil {
			slog.WarnContext(ctx, "delete team icon failed",
				"team_id", id,
				"error", err,
			)
		}
	}
	return nil
}

// AddMember puts a mentee on the team, moving them off any previous team.
func (s *Service) AddMember(ctx context.Context, teamID, userID string) (*Team, error) {
	if _, err := s.repo.GetByID(ctx, teamID); err != nil {
		return nil, err
	}

	if err := s.requireMentee(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.roster.AssignTeam(ctx, userID, &teamID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, teamID)
}

func (s *Service) RemoveMember(ctx context.Context, teamID, userID string) (*Team, error) {
	if _, err := s.repo.GetByID(ctx, teamID); err != nil {
		return nil, err
	}

	set, err := s.roster.ForUser(ctx, userID)
	if err != nil {
		return nil, notMentee(err)
	}
	if set.Mentee == nil || set.Mentee.TeamID == nil || *set.Mentee.TeamID != teamID {
		return nil, core.NewValidationError("user_id", "is not a member of this team")
	}

	if err := s.roster.AssignTeam(ctx, userID, nil); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, teamID)
}

func (s *Service) UploadIcon(ctx context.Context, id string, r io.Reader) (*Team, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	url, err := s.images.UploadImage(ctx, r, media.FolderTeamIcons, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateIcon(ctx, id, &url); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) requireMentee(ctx context.Context, userID string) error {
	set, err := s.roster.ForUser(ctx, userID)
	if err != nil {
		return notMentee(err)
	}
	if set.Mentee == nil {
		return core.NewValidationError("user_id", "is not a mentee")
	}
	return nil
}

func notMentee(err error) error {
	if errors.Is(err, core.ErrNotFound) {
		return core.NewValidationError("user_id", "does not exist")
	}
	return err
}

func duplicateName(err error) error {
	if errors.Is(err, core.ErrDuplicateKey) {
		return core.DuplicateError("name")
	}
	return err
}
