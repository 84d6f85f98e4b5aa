// AngelaMos | 2026
// service.go

package season

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mentorcamp/backend/internal/core"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) List(ctx context.Context) ([]Season, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Season, error) {
	return s.repo.GetByID(ctx, id)
}

// Current returns the season containing today. ok is false when no season
// matches, which callers must treat as a normal outcome.
func (s *Service) Current(ctx context.Context) (*Season, bool, error) {
	seasons, err := s.repo.List(ctx)
	if err != nil {
		return nil, false, err
	}

	current, ok := Current(seasons, s.now())
	if !ok {
		return nil, false, nil
	}
	return &current, true, nil
}

func (s *Service) Create(ctx context.Context, req SeasonRequest) (*Season, error) {
	season := &Season{ID: uuid.NewString()}
	if err := apply(season, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, season); err != nil {
		return nil, err
	}
	return season, nil
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req SeasonRequest,
) (*Season, error) {
	season, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(season, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, season); err != nil {
		return nil, err
	}
	return season, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func apply(season *Season, req SeasonRequest) error {
	start := MonthDay{Month: req.StartMonth, Day: req.StartDay}
	end := MonthDay{Month: req.EndMonth, Day: req.EndDay}

	ve := &core.ValidationError{Fields: map[string]string{}}
	if !start.Valid() {
		ve.Fields["start_day"] = fmt.Sprintf("%s is not a calendar day", start)
	}
	if !end.Valid() {
		ve.Fields["end_day"] = fmt.Sprintf("%s is not a calendar day", end)
	}
	if len(ve.Fields) > 0 {
		return ve
	}

	season.Name = req.Name
	season.StartMonth, season.StartDay = start.Month, start.Day
	season.EndMonth, season.EndDay = end.Month, end.Day
	return nil
}
