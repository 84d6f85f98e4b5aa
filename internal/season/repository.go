// AngelaMos | 2026
// repository.go

package season

import (
	"context"
	"fmt"

	"github.com/mentorcamp/backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, s *Season) error
	GetByID(ctx context.Context, id string) (*Season, error)
	Update(ctx context.Context, s *Season) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Season, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const seasonColumns = `id, name, start_month, start_day, end_month, end_day,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, s *Season) error {
	query := `
		INSERT INTO olympic_seasons (id, name, start_month, start_day, end_month, end_day)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		s.ID, s.Name, s.StartMonth, s.StartDay, s.EndMonth, s.EndDay,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create season: %w", core.MapStoreError(err))
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Season, error) {
	query := `SELECT ` + seasonColumns + ` FROM olympic_seasons WHERE id = $1`

	var s Season
	if err := r.db.GetContext(ctx, &s, query, id); err != nil {
		return nil, fmt.Errorf("get season: %w", core.MapStoreError(err))
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, s *Season) error {
	query := `
		UPDATE olympic_seasons
		SET name = $2, start_month = $3, start_day = $4,
		    end_month = $5, end_day = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &s.UpdatedAt, query,
		s.ID, s.Name, s.StartMonth, s.StartDay, s.EndMonth, s.EndDay,
	)
	if err != nil {
		return fmt.Errorf("update season: %w", core.MapStoreError(err))
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM olympic_seasons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete season: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete season: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete season: %w", core.ErrNotFound)
	}
	return nil
}

func (r *repository) List(ctx context.Context) ([]Season, error) {
	query := `SELECT ` + seasonColumns + `
		FROM olympic_seasons
		ORDER BY start_month, start_day, name`

	var seasons []Season
	if err := r.db.SelectContext(ctx, &seasons, query); err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	return seasons, nil
}
