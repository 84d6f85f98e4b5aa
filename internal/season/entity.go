// AngelaMos | 2026
// entity.go

package season

import (
	"fmt"
	"time"
)

// Season is a named range of the calendar that recurs every year.
type Season struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	StartMonth int       `db:"start_month"`
	StartDay   int       `db:"start_day"`
	EndMonth   int       `db:"end_month"`
	EndDay     int       `db:"end_day"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// MonthDay is a calendar day without a year.
type MonthDay struct {
	Month int
	Day   int
}

func MonthDayOf(t time.Time) MonthDay {
	return MonthDay{Month: int(t.Month()), Day: t.Day()}
}

func (md MonthDay) ordinal() int {
	return md.Month*100 + md.Day
}

func (md MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", md.Month, md.Day)
}

// daysIn allows Feb 29 so leap-day boundaries can be stored.
var daysIn = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func (md MonthDay) Valid() bool {
	if md.Month < 1 || md.Month > 12 {
		return false
	}
	return md.Day >= 1 && md.Day <= daysIn[md.Month]
}

func (s *Season) Start() MonthDay {
	return MonthDay{Month: s.StartMonth, Day: s.StartDay}
}

func (s *Season) End() MonthDay {
	return MonthDay{Month: s.EndMonth, Day: s.EndDay}
}

// Wraps reports whether the range crosses the year boundary.
func (s *Season) Wraps() bool {
	return s.Start().ordinal() > s.End().ordinal()
}

// Contains matches md against the inclusive range.
func (s *Season) Contains(md MonthDay) bool {
	start, end, day := s.Start().ordinal(), s.End().ordinal(), md.ordinal()
	if s.Wraps() {
		return day >= start || day <= end
	}
	return day >= start && day <= end
}

// Current returns the first season containing today, in slice order.
func Current(seasons []Season, today time.Time) (Season, bool) {
	md := MonthDayOf(today)
	for _, s := range seasons {
		if s.Contains(md) {
			return s, true
		}
	}
	return Season{}, false
}

// Window returns the occurrence of the season that contains ref, or the
// most recent one to start before it. End is exclusive.
func (s *Season) Window(ref time.Time) (time.Time, time.Time) {
	loc := ref.Location()
	year := ref.Year()

	if MonthDayOf(ref).ordinal() < s.Start().ordinal() {
		year--
	}

	start := date(year, s.StartMonth, s.StartDay, loc)
	endYear := year
	if s.Wraps() {
		endYear++
	}
	end := date(endYear, s.EndMonth, s.EndDay, loc).AddDate(0, 0, 1)

	return start, end
}

// date clamps Feb 29 to Feb 28 in common years.
func date(year, month, day int, loc *time.Location) time.Time {
	if month == 2 && day == 29 && !isLeap(year) {
		day = 28
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
