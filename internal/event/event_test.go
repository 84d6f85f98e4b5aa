// AngelaMos | 2026
// event_test.go

package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/config"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/media"
	"github.com/mentorcamp/backend/internal/season"
)

type memRepo struct {
	types  map[string]EventType
	events map[string]Event
	logs   []EventLog
}

func newMemRepo() *memRepo {
	return &memRepo{types: map[string]EventType{}, events: map[string]Event{}}
}

func (m *memRepo) CreateType(_ context.Context, et *EventType) error {
	for _, t := range m.types {
		if t.Name == et.Name {
			return core.ErrDuplicateKey
		}
	}
	m.types[et.ID] = *et
	return nil
}

func (m *memRepo) GetType(_ context.Context, id string) (*EventType, error) {
	et, ok := m.types[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &et, nil
}

func (m *memRepo) UpdateType(_ context.Context, et *EventType) error {
	m.types[et.ID] = *et
	return nil
}

func (m *memRepo) DeleteType(_ context.Context, id string) error {
	for _, e := range m.events {
		if e.EventTypeID == id {
			return &core.ConstraintError{Constraint: "events_event_type_id_fkey", Err: core.ErrNotFound}
		}
	}
	delete(m.types, id)
	return nil
}

func (m *memRepo) ListTypes(context.Context) ([]EventType, error) {
	var out []EventType
	for _, t := range m.types {
		out = append(out, t)
	}
	return out, nil
}

func (m *memRepo) Create(_ context.Context, e *Event) error {
	m.events[e.ID] = *e
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &e, nil
}

func (m *memRepo) Update(_ context.Context, e *Event) error {
	m.events[e.ID] = *e
	return nil
}

func (m *memRepo) UpdateImage(_ context.Context, id string, imageURL *string) error {
	e := m.events[id]
	e.ImageURL = imageURL
	m.events[id] = e
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	delete(m.events, id)
	return nil
}

func (m *memRepo) List(context.Context, ListParams) ([]Event, error) {
	var out []Event
	for _, e := range m.events {
		out = append(out, e)
	}
	return out, nil
}

func (m *memRepo) CreateLog(_ context.Context, l *EventLog) error {
	for _, existing := range m.logs {
		if existing.EventID == l.EventID && existing.UserID == l.UserID && existing.LogType == l.LogType {
			return &core.ConstraintError{Constraint: "event_logs_event_user_type_key", Err: core.ErrDuplicateKey}
		}
	}
	m.logs = append(m.logs, *l)
	return nil
}

func (m *memRepo) DeleteLog(_ context.Context, eventID, logID string) error {
	for i, l := range m.logs {
		if l.EventID == eventID && l.ID == logID {
			m.logs = append(m.logs[:i], m.logs[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (m *memRepo) ListLogs(_ context.Context, eventID string) ([]EventLog, error) {
	var out []EventLog
	for _, l := range m.logs {
		if l.EventID == eventID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memRepo) LogsForUser(_ context.Context, userID string) ([]EventLog, error) {
	var out []EventLog
	for _, l := range m.logs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memRepo) PointsBetween(_ context.Context, userID string, start, end time.Time) (int, error) {
	total := 0
	for _, l := range m.logs {
		e := m.events[l.EventID]
		if l.UserID == userID && !e.Date.Before(start) && e.Date.Before(end) {
			total += l.PointsAwarded
		}
	}
	return total, nil
}

type fixedSeasons struct {
	seasons map[string]*season.Season
	current *season.Season
}

func (f fixedSeasons) Get(_ context.Context, id string) (*season.Season, error) {
	s, ok := f.seasons[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return s, nil
}

func (f fixedSeasons) Current(context.Context) (*season.Season, bool, error) {
	return f.current, f.current != nil, nil
}

var (
	staff  = &authz.Principal{UserID: "staff-1", Roles: authz.NewRoleSet(authz.RoleStaff)}
	mentor = &authz.Principal{UserID: "mentor-1", Roles: authz.NewRoleSet(authz.RoleMentor)}
	other  = &authz.Principal{UserID: "mentor-2", Roles: authz.NewRoleSet(authz.RoleMentor)}
)

func newTestService(t *testing.T, seasons Seasons) (*Service, *memRepo) {
	t.Helper()
	images, err := media.New(config.CloudinaryConfig{})
	if err != nil {
		t.Fatal(err)
	}
	repo := newMemRepo()
	return NewService(repo, seasons, images), repo
}

func mustType(t *testing.T, svc *Service, name string, points int) *EventType {
	t.Helper()
	et, err := svc.CreateType(context.Background(), EventTypeRequest{
		Name: name, Category: "sport", PointValue: points,
	})
	if err != nil {
		t.Fatalf("CreateType: %v", err)
	}
	return et
}

func mustEvent(t *testing.T, svc *Service, actor *authz.Principal, typeID, date string) *Event {
	t.Helper()
	e, err := svc.Create(context.Background(), actor, EventRequest{
		Name: "Relay " + date, EventTypeID: typeID, Date: date,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return e
}

func TestCheckInSnapshotsPoints(t *testing.T) {
	svc, repo := newTestService(t, fixedSeasons{})
	ctx := context.Background()

	et := mustType(t, svc, "Relay", 10)
	e := mustEvent(t, svc, mentor, et.ID, "2026-01-10")

	l, err := svc.CheckIn(ctx, e.ID, "mentee-1")
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if l.PointsAwarded != 10 {
		t.Fatalf("points = %d, want 10", l.PointsAwarded)
	}

	if _, err := svc.UpdateType(ctx, et.ID, EventTypeRequest{
		Name: "Relay", Category: "sport", PointValue: 20,
	}); err != nil {
		t.Fatalf("UpdateType: %v", err)
	}

	logs, _ := repo.ListLogs(ctx, e.ID)
	if logs[0].PointsAwarded != 10 {
		t.Fatalf("points changed to %d after type update", logs[0].PointsAwarded)
	}

	later, err := svc.CheckIn(ctx, e.ID, "mentee-2")
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if later.PointsAwarded != 20 {
		t.Fatalf("new log points = %d, want 20", later.PointsAwarded)
	}
}

func TestRegisterEarnsNothingAndIsUnique(t *testing.T) {
	svc, _ := newTestService(t, fixedSeasons{})
	ctx := context.Background()

	et := mustType(t, svc, "Relay", 10)
	e := mustEvent(t, svc, mentor, et.ID, "2026-01-10")

	l, err := svc.Register(ctx, e.ID, "mentee-1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if l.PointsAwarded != 0 {
		t.Fatalf("registration earned %d points", l.PointsAwarded)
	}

	_, err = svc.Register(ctx, e.ID, "mentee-1")
	if _, ok := core.AsValidationError(err); !ok {
		t.Fatalf("second registration: got %v, want ValidationError", err)
	}

	if _, err := svc.CheckIn(ctx, e.ID, "mentee-1"); err != nil {
		t.Fatalf("check in after registering: %v", err)
	}
}

func TestEventOwnership(t *testing.T) {
	svc, _ := newTestService(t, fixedSeasons{})
	ctx := context.Background()

	et := mustType(t, svc, "Relay", 10)
	e := mustEvent(t, svc, mentor, et.ID, "2026-01-10")
	req := EventRequest{Name: "Renamed", EventTypeID: et.ID, Date: "2026-01-11"}

	if _, err := svc.Update(ctx, other, e.ID, req); !errors.Is(err, authz.ErrNotOwner) {
		t.Fatalf("other mentor: got %v, want ErrNotOwner", err)
	}

	got, err := svc.Update(ctx, mentor, e.ID, req)
	if err != nil {
		t.Fatalf("creator update: %v", err)
	}
	if got.Name != "Renamed" || got.Date.Day() != 11 {
		t.Fatalf("update not applied: %+v", got)
	}

	if _, err := svc.Update(ctx, staff, e.ID, req); err != nil {
		t.Fatalf("superuser update: %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t, fixedSeasons{})
	ctx := context.Background()

	et := mustType(t, svc, "Relay", 10)

	tests := []struct {
		name  string
		req   EventRequest
		field string
	}{
		{"bad date", EventRequest{Name: "X", EventTypeID: et.ID, Date: "01/02/2026"}, "date"},
		{"unknown type", EventRequest{Name: "X", EventTypeID: "missing", Date: "2026-01-02"}, "event_type_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, mentor, tt.req)
			ve, ok := core.AsValidationError(err)
			if !ok || ve.Fields[tt.field] == "" {
				t.Fatalf("got %v, want error on %s", err, tt.field)
			}
		})
	}
}

func TestDeleteTypeInUse(t *testing.T) {
	svc, _ := newTestService(t, fixedSeasons{})
	ctx := context.Background()

	et := mustType(t, svc, "Relay", 10)
	mustEvent(t, svc, mentor, et.ID, "2026-01-10")

	if _, ok := core.AsValidationError(svc.DeleteType(ctx, et.ID)); !ok {
		t.Fatal("deleting a used type should fail validation")
	}
}

func TestPointsForWrappingSeason(t *testing.T) {
	winter := &season.Season{ID: "winter", StartMonth: 12, StartDay: 1, EndMonth: 2, EndDay: 28}
	svc, _ := newTestService(t, fixedSeasons{
		seasons: map[string]*season.Season{"winter": winter},
		current: winter,
	})
	svc.now = func() time.Time { return time.Date(2026, time.February, 10, 9, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	et := mustType(t, svc, "Relay", 10)
	for _, date := range []string{"2025-11-30", "2025-12-15", "2026-02-01", "2026-03-05"} {
		e := mustEvent(t, svc, mentor, et.ID, date)
		if _, err := svc.CheckIn(ctx, e.ID, "mentee-1"); err != nil {
			t.Fatalf("CheckIn %s: %v", date, err)
		}
	}

	p, err := svc.PointsFor(ctx, "mentee-1", "winter")
	if err != nil {
		t.Fatalf("PointsFor: %v", err)
	}
	if p.Total != 20 {
		t.Fatalf("total = %d, want 20", p.Total)
	}

	current, err := svc.CurrentPoints(ctx, "mentee-1")
	if err != nil || current == nil || current.Total != 20 {
		t.Fatalf("CurrentPoints = %+v, %v", current, err)
	}
}

func TestCurrentPointsWithoutSeason(t *testing.T) {
	svc, _ := newTestService(t, fixedSeasons{})

	p, err := svc.CurrentPoints(context.Background(), "mentee-1")
	if err != nil || p != nil {
		t.Fatalf("got %+v, %v; want nil, nil", p, err)
	}
}
