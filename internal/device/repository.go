// AngelaMos | 2026
// repository.go

package device

import (
	"context"
	"fmt"

	"github.com/mentorcamp/backend/internal/core"
)

type Repository interface {
	Upsert(ctx context.Context, d *UserDevice) error
	Delete(ctx context.Context, userID, pushToken string) error
	TokensFor(ctx context.Context, userIDs []string) ([]string, error)
	DeleteTokens(ctx context.Context, pushTokens []string) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, d *UserDevice) error {
	query := `
		INSERT INTO user_devices (id, user_id, push_token, platform)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (push_token) DO UPDATE
		SET user_id = EXCLUDED.user_id,
		    platform = EXCLUDED.platform,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at`

	err := r.db.GetContext(ctx, d, query, d.ID, d.UserID, d.PushToken, d.Platform)
	if err != nil {
		return fmt.Errorf("upsert device: %w", core.MapStoreError(err))
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, userID, pushToken string) error {
	query := `DELETE FROM user_devices WHERE user_id = $1 AND push_token = $2`

	result, err := r.db.ExecContext(ctx, query, userID, pushToken)
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete device: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete device: %w", core.ErrNotFound)
	}
	return nil
}

func (r *repository) TokensFor(ctx context.Context, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT push_token FROM user_devices
		WHERE user_id = ANY($1::text[]::uuid[])
		ORDER BY created_at`

	var tokens []string
	if err := r.db.SelectContext(ctx, &tokens, query, userIDs); err != nil {
		return nil, fmt.Errorf("device tokens: %w", err)
	}
	return tokens, nil
}

// DeleteTokens drops tokens the push service reported as unregistered.
func (r *repository) DeleteTokens(ctx context.Context, pushTokens []string) (int64, error) {
	if len(pushTokens) == 0 {
		return 0, nil
	}

	query := `DELETE FROM user_devices WHERE push_token = ANY($1::text[])`

	result, err := r.db.ExecContext(ctx, query, pushTokens)
	if err != nil {
		return 0, fmt.Errorf("delete device tokens: %w", err)
	}
	return result.RowsAffected()
}
