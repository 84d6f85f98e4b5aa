// AngelaMos | 2026
// repository.go

package team

import (
	"context"
	"fmt"

	"github.com/mentorcamp/backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, t *Team) error
	GetByID(ctx context.Context, id string) (*Team, error)
	Update(ctx context.Context, t *Team) error
	UpdateIcon(ctx context.Context, id string, iconURL *string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Team, error)
	Members(ctx context.Context, id string) ([]Member, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const teamColumns = `t.id, t.name, t.color, t.icon_url, t.created_at, t.updated_at,
	(SELECT COUNT(*) FROM mentees m WHERE m.team_id = t.id) AS member_count`

func (r *repository) Create(ctx context.Context, t *Team) error {
	query := `
		INSERT INTO teams (id, name, color)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query, t.ID, t.Name, t.Color).
		Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create team: %w", core.MapStoreError(err))
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams t WHERE t.id = $1`

	var t Team
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		return nil, fmt.Errorf("get team: %w", core.MapStoreError(err))
	}
	return &t, nil
}

func (r *repository) Update(ctx context.Context, t *Team) error {
	query := `
		UPDATE teams SET name = $2, color = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	if err := r.db.QueryRowxContext(ctx, query, t.ID, t.Name, t.Color).Scan(&t.UpdatedAt); err != nil {
		return fmt.Errorf("update team: %w", core.MapStoreError(err))
	}
	return nil
}

func (r *repository) UpdateIcon(ctx context.Context, id string, iconURL *string) error {
	query := `UPDATE teams SET icon_url = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, "update team icon", query, id, iconURL)
}

// Delete leaves former members without a team; mentees.team_id is ON DELETE
// SET NULL.
func (r *repository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete team", `DELETE FROM teams WHERE id = $1`, id)
}

func (r *repository) List(ctx context.Context) ([]Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams t ORDER BY t.name`

	var teams []Team
	if err := r.db.SelectContext(ctx, &teams, query); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return teams, nil
}

func (r *repository) Members(ctx context.Context, id string) ([]Member, error) {
	query := `
		SELECT u.id AS user_id, u.name, u.email
		FROM mentees m
		JOIN users u ON u.id = m.user_id
		WHERE m.team_id = $1
		ORDER BY u.name`

	var members []Member
	if err := r.db.SelectContext(ctx, &members, query, id); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	return members, nil
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
