// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mentorcamp/backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, token *Token) error
	FindValidByHash(ctx context.Context, tokenHash string, now time.Time) (*Token, error)
	Touch(ctx context.Context, id string, at time.Time) error
	DeleteByHash(ctx context.Context, tokenHash string) error
	DeleteByID(ctx context.Context, userID, id string) error
	DeleteAllForUser(ctx context.Context, userID string) error
	ListForUser(ctx context.Context, userID string, now time.Time) ([]Token, error)
	DeleteStale(ctx context.Context, now, unusedSince time.Time) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, token *Token) error {
	query := `
		INSERT INTO tokens (id, user_id, token_hash, device_name, expires_at, last_used_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &token.CreatedAt, query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.DeviceName,
		token.ExpiresAt,
		token.LastUsedAt,
	)
	if err != nil {
		return fmt.Errorf("create token: %w", core.MapStoreError(err))
	}

	return nil
}

func (r *repository) FindValidByHash(
	ctx context.Context,
	tokenHash string,
	now time.Time,
) (*Token, error) {
	query := `
		SELECT id, user_id, token_hash, device_name, expires_at,
		       last_used_at, created_at
		FROM tokens
		WHERE token_hash = $1 AND expires_at > $2`

	var token Token
	err := r.db.GetContext(ctx, &token, query, tokenHash, now)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}

	return &token, nil
}

func (r *repository) Touch(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE tokens SET last_used_at = $2 WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return fmt.Errorf("touch token: %w", err)
	}
	return nil
}

// DeleteByHash is a no-op when the token is already gone.
func (r *repository) DeleteByHash(ctx context.Context, tokenHash string) error {
	query := `DELETE FROM tokens WHERE token_hash = $1`

	if _, err := r.db.ExecContext(ctx, query, tokenHash); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (r *repository) DeleteByID(ctx context.Context, userID, id string) error {
	query := `DELETE FROM tokens WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete token: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteAllForUser(ctx context.Context, userID string) error {
	query := `DELETE FROM tokens WHERE user_id = $1`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("delete user tokens: %w", err)
	}
	return nil
}

func (r *repository) ListForUser(
	ctx context.Context,
	userID string,
	now time.Time,
) ([]Token, error) {
	query := `
		SELECT id, user_id, token_hash, device_name, expires_at,
		       last_used_at, created_at
		FROM tokens
		WHERE user_id = $1 AND expires_at > $2
		ORDER BY last_used_at DESC`

	var tokens []Token
	if err := r.db.SelectContext(ctx, &tokens, query, userID, now); err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}

	return tokens, nil
}

// DeleteStale removes expired tokens and tokens unused since unusedSince.
// Re-running it deletes nothing new.
func (r *repository) DeleteStale(
	ctx context.Context,
	now, unusedSince time.Time,
) (int64, error) {
	query := `DELETE FROM tokens WHERE expires_at <= $1 OR last_used_at < $2`

	result, err := r.db.ExecContext(ctx, query, now, unusedSince)
	if err != nil {
		return 0, fmt.Errorf("delete stale tokens: %w", err)
	}

	return result.RowsAffected()
}
