// AngelaMos | 2026
// service.go

package event

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/media"
	"github.com/mentorcamp/backend/internal/season"
)

// Seasons is the part of the season service points need.
type Seasons interface {
	Get(ctx context.Context, id string) (*season.Season, error)
	Current(ctx context.Context) (*season.Season, bool, error)
}

// Points is a user's total inside one occurrence of a season.
type Points struct {
	UserID string
	Season *season.Season
	Start  time.Time
	End    time.Time
	Total  int
}

type Service struct {
	repo    Repository
	seasons Seasons
	images  media.ImageStorage
	now     func() time.Time
}

func NewService(repo Repository, seasons Seasons, images media.ImageStorage) *Service {
	return &Service{
		repo:    repo,
		seasons: seasons,
		images:  images,
		now:     time.Now,
	}
}

func (s *Service) ListTypes(ctx context.Context) ([]EventType, error) {
	return s.repo.ListTypes(ctx)
}

func (s *Service) GetType(ctx context.Context, id string) (*EventType, error) {
	return s.repo.GetType(ctx, id)
}

func (s *Service) CreateType(ctx context.Context, req EventTypeRequest) (*EventType, error) {
	et := &EventType{
		ID:         uuid.NewString(),
		Name:       req.Name,
		Category:   req.Category,
		PointValue: req.PointValue,
	}

	if err := s.repo.CreateType(ctx, et); err != nil {
		return nil, duplicate(err, "name")
	}
	return et, nil
}

// UpdateType changes the value future logs earn. Existing logs keep the
// points they were written with.
func (s *Service) UpdateType(
	ctx context.Context,
	id string,
	req EventTypeRequest,
) (*EventType, error) {
	et, err := s.repo.GetType(ctx, id)
	if err != nil {
		return nil, err
	}

	et.Name = req.Name
	et.Category = req.Category
	et.PointValue = req.PointValue
	if err := s.repo.UpdateType(ctx, et); err != nil {
		return nil, duplicate(err, "name")
	}
	return et, nil
}

func (s *Service) DeleteType(ctx context.Context, id string) error {
	err := s.repo.DeleteType(ctx, id)
	if core.ConstraintName(err) != "" && errors.Is(err, core.ErrNotFound) {
		return core.NewValidationError("id", "is still used by events")
	}
	return err
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Event, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, id string) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(
	ctx context.Context,
	actor *authz.Principal,
	req EventRequest,
) (*Event, error) {
	e := &Event{ID: uuid.NewString()}
	if actor != nil {
		e.CreatorID = &actor.UserID
	}
	if err := s.apply(ctx, e, req); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, e.ID)
}

// Update lets superusers edit any event and everyone else only the events
// they created.
func (s *Service) Update(
	ctx context.Context,
	actor *authz.Principal,
	id string,
	req EventRequest,
) (*Event, error) {
	e, err := s.editable(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, e, req); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if e.ImageURL != nil {
		if err := s.images.DeleteImage(ctx, *e.ImageURL); err != nil {
			slog.WarnContext(ctx, "delete event image failed",
				"event_id", id,
				"error", err,
			)
		}
	}
	return nil
}

func (s *Service) UploadImage(
	ctx context.Context,
	actor *authz.Principal,
	id string,
	r io.Reader,
) (*Event, error) {
	if _, err := s.editable(ctx, actor, id); err != nil {
		return nil, err
	}

	url, err := s.images.UploadImage(ctx, r, media.FolderEventMedia, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateImage(ctx, id, &url); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Register records that userID plans to attend. It earns no points.
func (s *Service) Register(ctx context.Context, eventID, userID string) (*EventLog, error) {
	return s.AddLog(ctx, eventID, userID, LogRegistered)
}

// CheckIn records arrival and awards the event type's current point value.
func (s *Service) CheckIn(ctx context.Context, eventID, userID string) (*EventLog, error) {
	return s.AddLog(ctx, eventID, userID, LogArrived)
}

func (s *Service) AddLog(
	ctx context.Context,
	eventID, userID string,
	logType LogType,
) (*EventLog, error) {
	if !logType.Valid() {
		return nil, core.NewValidationError("log_type", "must be one of registered arrived")
	}

	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	et, err := s.repo.GetType(ctx, e.EventTypeID)
	if err != nil {
		return nil, fmt.Errorf("load event type: %w", err)
	}

	l := &EventLog{
		ID:            uuid.NewString(),
		EventID:       eventID,
		UserID:        userID,
		LogType:       logType,
		PointsAwarded: pointsFor(et, logType),
	}

	if err := s.repo.CreateLog(ctx, l); err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateKey):
			return nil, core.NewValidationError("log_type", fmt.Sprintf("user is already %s", logType))
		case core.ConstraintName(err) != "" && errors.Is(err, core.ErrNotFound):
			return nil, core.NewValidationError("user_id", "does not exist")
		}
		return nil, err
	}
	return l, nil
}

func (s *Service) DeleteLog(ctx context.Context, eventID, logID string) error {
	return s.repo.DeleteLog(ctx, eventID, logID)
}

func (s *Service) ListLogs(ctx context.Context, eventID string) ([]EventLog, error) {
	if _, err := s.repo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListLogs(ctx, eventID)
}

func (s *Service) LogsForUser(ctx context.Context, userID string) ([]EventLog, error) {
	return s.repo.LogsForUser(ctx, userID)
}

// PointsFor totals userID's points for events dated inside the latest
// occurrence of the season.
func (s *Service) PointsFor(ctx context.Context, userID, seasonID string) (*Points, error) {
	se, err := s.seasons.Get(ctx, seasonID)
	if err != nil {
		return nil, err
	}
	return s.points(ctx, userID, se)
}

// CurrentPoints is PointsFor the current season. It returns nil when no
// season is running.
func (s *Service) CurrentPoints(ctx context.Context, userID string) (*Points, error) {
	se, ok, err := s.seasons.Current(ctx)
	if err != nil || !ok {
		return nil, err
	}
	return s.points(ctx, userID, se)
}

func (s *Service) points(ctx context.Context, userID string, se *season.Season) (*Points, error) {
	start, end := se.Window(s.now().UTC())

	total, err := s.repo.PointsBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	return &Points{
		UserID: userID,
		Season: se,
		Start:  start,
		End:    end,
		Total:  total,
	}, nil
}

func (s *Service) editable(ctx context.Context, actor *authz.Principal, id string) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if authz.IsSuperuser(actor) {
		return e, nil
	}
	if actor == nil || e.CreatorID == nil || *e.CreatorID != actor.UserID {
		return nil, authz.ErrNotOwner
	}
	return e, nil
}

func (s *Service) apply(ctx context.Context, e *Event, req EventRequest) error {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return core.NewValidationError("date", "must be a date like 2026-03-01")
	}

	if _, err := s.repo.GetType(ctx, req.EventTypeID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.NewValidationError("event_type_id", "does not exist")
		}
		return err
	}

	e.Name = req.Name
	e.EventTypeID = req.EventTypeID
	e.Date = date
	e.Description = req.Description
	return nil
}

func duplicate(err error, field string) error {
	if errors.Is(err, core.ErrDuplicateKey) {
		return core.DuplicateError(field)
	}
	return err
}
