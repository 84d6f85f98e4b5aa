// AngelaMos | 2026
// repository.go

package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mentorcamp/backend/internal/core"
)

type Repository interface {
	CreateType(ctx context.Context, et *EventType) error
	GetType(ctx context.Context, id string) (*EventType, error)
	UpdateType(ctx context.Context, et *EventType) error
	DeleteType(ctx context.Context, id string) error
	ListTypes(ctx context.Context) ([]EventType, error)

	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, e *Event) error
	UpdateImage(ctx context.Context, id string, imageURL *string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListParams) ([]Event, error)

	CreateLog(ctx context.Context, l *EventLog) error
	DeleteLog(ctx context.Context, eventID, logID string) error
	ListLogs(ctx context.Context, eventID string) ([]EventLog, error)
	LogsForUser(ctx context.Context, userID string) ([]EventLog, error)
	PointsBetween(ctx context.Context, userID string, start, end time.Time) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const typeColumns = `id, name, category, point_value, created_at, updated_at`

func (r *repository) CreateType(ctx context.Context, et *EventType) error {
	query := `
		INSERT INTO event_types (id, name, category, point_value)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query, et.ID, et.Name, et.Category, et.PointValue).
		Scan(&et.CreatedAt, &et.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create event type: %w", core.MapStoreError(err))
	}
	return nil
}

func (r *repository) GetType(ctx context.Context, id string) (*EventType, error) {
	query := `SELECT ` + typeColumns + ` FROM event_types WHERE id = $1`

	var et EventType
	if err := r.db.GetContext(ctx, &et, query, id); err != nil {
		return nil, fmt.Errorf("get event type: %w", core.MapStoreError(err))
	}
	return &et, nil
}

func (r *repository) UpdateType(ctx context.Context, et *EventType) error {
	query := `
		UPDATE event_types
		SET name = $2, category = $3, point_value = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query, et.ID, et.Name, et.Category, et.PointValue).
		Scan(&et.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update event type: %w", core.MapStoreError(err))
	}
	return nil
}

// DeleteType fails with a ConstraintError while events still use the type.
func (r *repository) DeleteType(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete event type", `DELETE FROM event_types WHERE id = $1`, id)
}

func (r *repository) ListTypes(ctx context.Context) ([]EventType, error) {
	query := `SELECT ` + typeColumns + ` FROM event_types ORDER BY name`

	var types []EventType
	if err := r.db.SelectContext(ctx, &types, query); err != nil {
		return nil, fmt.Errorf("list event types: %w", err)
	}
	return types, nil
}

const eventColumns = `e.id, e.name, e.event_type_id, et.name AS event_type_name, e.date,
	e.creator_id, e.image_url, e.description, e.created_at, e.updated_at`

const eventFrom = ` FROM events e JOIN event_types et ON et.id = e.event_type_id`

func (r *repository) Create(ctx context.Context, e *Event) error {
	query := `
		INSERT INTO events (id, name, event_type_id, date, creator_id, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		e.ID,
		e.Name,
		e.EventTypeID,
		e.Date,
		e.CreatorID,
		e.Description,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create event: %w", core.MapStoreError(err))
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Event, error) {
	query := `SELECT ` + eventColumns + eventFrom + ` WHERE e.id = $1`

	var e Event
	if err := r.db.GetContext(ctx, &e, query, id); err != nil {
		return nil, fmt.Errorf("get event: %w", core.MapStoreError(err))
	}
	return &e, nil
}

func (r *repository) Update(ctx context.Context, e *Event) error {
	query := `
		UPDATE events
		SET name = $2, event_type_id = $3, date = $4, description = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		e.ID,
		e.Name,
		e.EventTypeID,
		e.Date,
		e.Description,
	).Scan(&e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update event: %w", core.MapStoreError(err))
	}
	return nil
}

func (r *repository) UpdateImage(ctx context.Context, id string, imageURL *string) error {
	query := `UPDATE events SET image_url = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, "update event image", query, id, imageURL)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete event", `DELETE FROM events WHERE id = $1`, id)
}

func (r *repository) List(ctx context.Context, params ListParams) ([]Event, error) {
	var (
		where []string
		args  []any
	)
	if params.From != nil {
		args = append(args, *params.From)
		where = append(where, fmt.Sprintf("e.date >= $%d", len(args)))
	}
	if params.To != nil {
		args = append(args, *params.To)
		where = append(where, fmt.Sprintf("e.date < $%d", len(args)))
	}
	if params.TypeID != "" {
		args = append(args, params.TypeID)
		where = append(where, fmt.Sprintf("e.event_type_id = $%d", len(args)))
	}

	query := `SELECT ` + eventColumns + eventFrom
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY e.date DESC, e.name`

	var events []Event
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (r *repository) CreateLog(ctx context.Context, l *EventLog) error {
	query := `
		INSERT INTO event_logs (id, event_id, user_id, log_type, points_awarded)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowxContext(ctx, query,
		l.ID,
		l.EventID,
		l.UserID,
		l.LogType,
		l.PointsAwarded,
	).Scan(&l.CreatedAt)
	if err != nil {
		return fmt.Errorf("create event log: %w", core.MapStoreError(err))
	}
	return nil
}

func (r *repository) DeleteLog(ctx context.Context, eventID, logID string) error {
	query := `DELETE FROM event_logs WHERE event_id = $1 AND id = $2`
	return r.execOne(ctx, "delete event log", query, eventID, logID)
}

const logColumns = `l.id, l.event_id, l.user_id, u.name AS user_name, l.log_type,
	l.points_awarded, l.created_at`

func (r *repository) ListLogs(ctx context.Context, eventID string) ([]EventLog, error) {
	query := `
		SELECT ` + logColumns + `
		FROM event_logs l JOIN users u ON u.id = l.user_id
		WHERE l.event_id = $1
		ORDER BY l.created_at`

	var logs []EventLog
	if err := r.db.SelectContext(ctx, &logs, query, eventID); err != nil {
		return nil, fmt.Errorf("list event logs: %w", err)
	}
	return logs, nil
}

func (r *repository) LogsForUser(ctx context.Context, userID string) ([]EventLog, error) {
	query := `
		SELECT ` + logColumns + `
		FROM event_logs l JOIN users u ON u.id = l.user_id
		WHERE l.user_id = $1
		ORDER BY l.created_at DESC`

	var logs []EventLog
	if err := r.db.SelectContext(ctx, &logs, query, userID); err != nil {
		return nil, fmt.Errorf("list user event logs: %w", err)
	}
	return logs, nil
}

// PointsBetween sums the snapshot points of logs on events dated in
// [start, end).
func (r *repository) PointsBetween(
	ctx context.Context,
	userID string,
	start, end time.Time,
) (int, error) {
	query := `
		SELECT COALESCE(SUM(l.points_awarded), 0)
		FROM event_logs l JOIN events e ON e.id = l.event_id
		WHERE l.user_id = $1 AND e.date >= $2 AND e.date < $3`

	var points int
	if err := r.db.GetContext(ctx, &points, query, userID, start, end); err != nil {
		return 0, fmt.Errorf("sum points: %w", err)
	}
	return points, nil
}

func (r *repository) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, core.MapStoreError(err))
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}
