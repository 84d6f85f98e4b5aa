// AngelaMos | 2026
// entity.go

package event

import "time"

type EventType struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Category   string    `db:"category"`
	PointValue int       `db:"point_value"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type Event struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	EventTypeID   string    `db:"event_type_id"`
	EventTypeName string    `db:"event_type_name"`
	Date          time.Time `db:"date"`
	CreatorID     *string   `db:"creator_id"`
	ImageURL      *string   `db:"image_url"`
	Description   string    `db:"description"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type LogType string

const (
	LogRegistered LogType = "registered"
	LogArrived    LogType = "arrived"
)

func (t LogType) Valid() bool {
	return t == LogRegistered || t == LogArrived
}

// EventLog is one user's registration or arrival. PointsAwarded is copied
// from the event type when the log is written and never recomputed.
type EventLog struct {
	ID            string    `db:"id"`
	EventID       string    `db:"event_id"`
	UserID        string    `db:"user_id"`
	UserName      string    `db:"user_name"`
	LogType       LogType   `db:"log_type"`
	PointsAwarded int       `db:"points_awarded"`
	CreatedAt     time.Time `db:"created_at"`
}

// pointsFor is what a new log of type t earns. Only arrival scores.
func pointsFor(et *EventType, t LogType) int {
	if t != LogArrived {
		return 0
	}
	return et.PointValue
}
