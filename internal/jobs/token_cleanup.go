// AngelaMos | 2026
// token_cleanup.go

package jobs

import (
	"context"
	"fmt"
	"log/slog"
)

// TokenCleaner is satisfied by *auth.Service.
type TokenCleaner interface {
	CleanupTokens(ctx context.Context) (int64, error)
}

// TokenCleanup removes expired and stale API tokens. Running it twice in a
// row deletes nothing the second time.
type TokenCleanup struct {
	tokens TokenCleaner
}

func NewTokenCleanup(tokens TokenCleaner) *TokenCleanup {
	return &TokenCleanup{tokens: tokens}
}

func (j *TokenCleanup) Name() string {
	return "token_cleanup"
}

func (j *TokenCleanup) Run(ctx context.Context) error {
	removed, err := j.tokens.CleanupTokens(ctx)
	if err != nil {
		return fmt.Errorf("cleanup tokens: %w", err)
	}
	slog.InfoContext(ctx, "tokens cleaned up", "removed", removed)
	return nil
}
