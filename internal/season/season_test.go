// AngelaMos | 2026
// season_test.go

package season

import (
	"context"
	"testing"
	"time"

	"github.com/mentorcamp/backend/internal/core"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 12, 0, 0, 0, time.UTC)
}

func TestContains(t *testing.T) {
	winter := Season{Name: "Winter", StartMonth: 12, StartDay: 1, EndMonth: 2, EndDay: 28}
	autumn := Season{Name: "Autumn", StartMonth: 9, StartDay: 1, EndMonth: 11, EndDay: 30}

	tests := []struct {
		name   string
		season Season
		on     time.Time
		want   bool
	}{
		{"winter start", winter, day(2025, time.December, 1), true},
		{"winter december", winter, day(2025, time.December, 15), true},
		{"winter new year", winter, day(2026, time.January, 1), true},
		{"winter february", winter, day(2026, time.February, 1), true},
		{"winter end inclusive", winter, day(2026, time.February, 28), true},
		{"winter march", winter, day(2026, time.March, 1), false},
		{"winter november", winter, day(2025, time.November, 30), false},
		{"autumn inside", autumn, day(2025, time.October, 10), true},
		{"autumn before", autumn, day(2025, time.August, 31), false},
		{"autumn after", autumn, day(2025, time.December, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.season.Contains(MonthDayOf(tt.on)); got != tt.want {
				t.Fatalf("Contains(%s) = %v, want %v", MonthDayOf(tt.on), got, tt.want)
			}
		})
	}
}

func TestCurrent(t *testing.T) {
	seasons := []Season{
		{Name: "Autumn", StartMonth: 9, StartDay: 1, EndMonth: 11, EndDay: 30},
		{Name: "Winter", StartMonth: 12, StartDay: 1, EndMonth: 2, EndDay: 28},
	}

	got, ok := Current(seasons, day(2026, time.January, 20))
	if !ok || got.Name != "Winter" {
		t.Fatalf("got %q %v, want Winter", got.Name, ok)
	}

	if _, ok := Current(seasons, day(2026, time.June, 1)); ok {
		t.Fatal("June should match no season")
	}
}

func TestWindow(t *testing.T) {
	winter := Season{StartMonth: 12, StartDay: 1, EndMonth: 2, EndDay: 28}
	autumn := Season{StartMonth: 9, StartDay: 1, EndMonth: 11, EndDay: 30}

	tests := []struct {
		name      string
		season    Season
		ref       time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			"wrapping, ref in december",
			winter, day(2025, time.December, 15),
			time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"wrapping, ref in february",
			winter, day(2026, time.February, 1),
			time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"plain, ref before start uses last year",
			autumn, day(2026, time.January, 10),
			time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			"plain, ref inside",
			autumn, day(2026, time.October, 10),
			time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.season.Window(tt.ref)
			if !start.Equal(tt.wantStart) || !end.Equal(tt.wantEnd) {
				t.Fatalf("Window = [%s, %s), want [%s, %s)", start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestWindowClampsLeapDay(t *testing.T) {
	s := Season{StartMonth: 12, StartDay: 1, EndMonth: 2, EndDay: 29}

	_, end := s.Window(day(2026, time.January, 5))
	want := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !end.Equal(want) {
		t.Fatalf("end = %s, want %s", end, want)
	}
}

type memRepo struct {
	seasons map[string]Season
	order   []string
}

func (m *memRepo) Create(_ context.Context, s *Season) error {
	m.seasons[s.ID] = *s
	m.order = append(m.order, s.ID)
	return nil
}

func (m *memRepo) GetByID(_ context.Context, id string) (*Season, error) {
	s, ok := m.seasons[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &s, nil
}

func (m *memRepo) Update(_ context.Context, s *Season) error {
	m.seasons[s.ID] = *s
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	delete(m.seasons, id)
	return nil
}

func (m *memRepo) List(context.Context) ([]Season, error) {
	var out []Season
	for _, id := range m.order {
		if s, ok := m.seasons[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func TestServiceValidatesCalendarDays(t *testing.T) {
	svc := NewService(&memRepo{seasons: map[string]Season{}})

	_, err := svc.Create(context.Background(), SeasonRequest{
		Name: "Bad", StartMonth: 2, StartDay: 30, EndMonth: 4, EndDay: 31,
	})
	ve, ok := core.AsValidationError(err)
	if !ok {
		t.Fatalf("got %v, want ValidationError", err)
	}
	if _, ok := ve.Fields["start_day"]; !ok {
		t.Fatalf("start_day not reported: %v", ve.Fields)
	}
	if _, ok := ve.Fields["end_day"]; !ok {
		t.Fatalf("end_day not reported: %v", ve.Fields)
	}
}

func TestServiceCurrent(t *testing.T) {
	repo := &memRepo{seasons: map[string]Season{}}
	svc := NewService(repo)
	svc.now = func() time.Time { return day(2026, time.February, 1) }

	if _, ok, err := svc.Current(context.Background()); ok || err != nil {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	if _, err := svc.Create(context.Background(), SeasonRequest{
		Name: "Winter", StartMonth: 12, StartDay: 1, EndMonth: 2, EndDay: 28,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	s, ok, err := svc.Current(context.Background())
	if err != nil || !ok || s.Name != "Winter" {
		t.Fatalf("Current = %v %v %v", s, ok, err)
	}
}
