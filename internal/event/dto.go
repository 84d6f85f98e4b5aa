// AngelaMos | 2026
// dto.go

package event

import "time"

const dateLayout = "2006-01-02"

type EventTypeRequest struct {
	Name       string `json:"name"        validate:"required,min=1,max=100"`
	Category   string `json:"category"    validate:"required,max=50"`
	PointValue int    `json:"point_value" validate:"min=0,max=10000"`
}

type EventRequest struct {
	Name        string `json:"name"          validate:"required,min=1,max=200"`
	EventTypeID string `json:"event_type_id" validate:"required"`
	Date        string `json:"date"          validate:"required,datetime=2006-01-02"`
	Description string `json:"description"   validate:"max=5000"`
}

type LogRequest struct {
	UserID  string  `json:"user_id"  validate:"required"`
	LogType LogType `json:"log_type" validate:"required,oneof=registered arrived"`
}

// ListParams filters events by date, From inclusive and To exclusive.
type ListParams struct {
	From   *time.Time
	To     *time.Time
	TypeID string
}

type EventTypeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PointValue int    `json:"point_value"`
}

type EventResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	EventTypeID   string    `json:"event_type_id"`
	EventTypeName string    `json:"event_type_name,omitempty"`
	Date          string    `json:"date"`
	CreatorID     *string   `json:"creator_id"`
	ImageURL      *string   `json:"image_url"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"created_at"`
}

type EventLogResponse struct {
	ID            string    `json:"id"`
	EventID       string    `json:"event_id"`
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name,omitempty"`
	LogType       LogType   `json:"log_type"`
	PointsAwarded int       `json:"points_awarded"`
	CreatedAt     time.Time `json:"created_at"`
}

type PointsResponse struct {
	UserID   string    `json:"user_id"`
	SeasonID string    `json:"season_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Points   int       `json:"points"`
}

func ToPointsResponse(p *Points) PointsResponse {
	return PointsResponse{
		UserID:   p.UserID,
		SeasonID: p.Season.ID,
		Start:    p.Start,
		End:      p.End,
		Points:   p.Total,
	}
}

func ToEventTypeResponse(et *EventType) EventTypeResponse {
	return EventTypeResponse{
		ID:         et.ID,
		Name:       et.Name,
		Category:   et.Category,
		PointValue: et.PointValue,
	}
}

func ToEventTypeResponseList(types []EventType) []EventTypeResponse {
	out := make([]EventTypeResponse, 0, len(types))
	for i := range types {
		out = append(out, ToEventTypeResponse(&types[i]))
	}
	return out
}

func ToEventResponse(e *Event) EventResponse {
	return EventResponse{
		ID:            e.ID,
		Name:          e.Name,
		EventTypeID:   e.EventTypeID,
		EventTypeName: e.EventTypeName,
		Date:          e.Date.Format(dateLayout),
		CreatorID:     e.CreatorID,
		ImageURL:      e.ImageURL,
		Description:   e.Description,
		CreatedAt:     e.CreatedAt,
	}
}

func ToEventResponseList(events []Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for i := range events {
		out = append(out, ToEventResponse(&events[i]))
	}
	return out
}

func ToEventLogResponse(l *EventLog) EventLogResponse {
	return EventLogResponse{
		ID:            l.ID,
		EventID:       l.EventID,
		UserID:        l.UserID,
		UserName:      l.UserName,
		LogType:       l.LogType,
		PointsAwarded: l.PointsAwarded,
		CreatedAt:     l.CreatedAt,
	}
}

func ToEventLogResponseList(logs []EventLog) []EventLogResponse {
	out := make([]EventLogResponse, 0, len(logs))
	for i := range logs {
		out = append(out, ToEventLogResponse(&logs[i]))
	}
	return out
}
