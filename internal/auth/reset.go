// AngelaMos | 2026
// reset.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/mail"
)

const resetKeyPrefix = "password_reset:"

// ResetStore holds pending password reset tokens keyed by their hash. Take
// consumes the entry and returns core.ErrNotFound when it is absent or
// expired.
type ResetStore interface {
	Save(ctx context.Context, tokenHash, userID string, ttl time.Duration) error
	Take(ctx context.Context, tokenHash string) (string, error)
}

type RedisResetStore struct {
	redis *core.Redis
}

func NewRedisResetStore(redis *core.Redis) *RedisResetStore {
	return &RedisResetStore{redis: redis}
}

func (s *RedisResetStore) Save(
	ctx context.Context,
	tokenHash, userID string,
	ttl time.Duration,
) error {
	if err := s.redis.Client.Set(ctx, resetKeyPrefix+tokenHash, userID, ttl).Err(); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}
	return nil
}

func (s *RedisResetStore) Take(ctx context.Context, tokenHash string) (string, error) {
	return s.redis.TakeString(ctx, resetKeyPrefix+tokenHash)
}

// RequestPasswordReset never reveals whether the address is registered.
// Only lookup and storage failures are returned.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, core.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get user: %w", err)
	}

	raw, err := core.GenerateSecureToken(s.opts.Tokens.ByteLength)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	if err := s.resets.Save(ctx, core.HashToken(raw), user.ID, s.opts.Account.PasswordResetTTL); err != nil {
		return err
	}

	to := mail.Recipient{Email: user.Email, Name: user.Name}
	if err := s.mailer.SendPasswordReset(ctx, to, raw); err != nil {
		slog.WarnContext(ctx, "password reset mail failed",
			"user_id", user.ID,
			"error", err,
		)
	}

	return nil
}

// ResetPassword consumes the token, replaces the password and revokes every
// API token of the user.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	userID, err := s.resets.Take(ctx, core.HashToken(token))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.TokenInvalidError()
		}
		return fmt.Errorf("take reset token: %w", err)
	}

	hash, err := core.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.repo.DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}

	return nil
}
