// AngelaMos | 2026
// service.go

package device

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mentorcamp/backend/internal/authz"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register attaches pushToken to the actor, taking it over from any
// previous owner.
func (s *Service) Register(
	ctx context.Context,
	actor *authz.Principal,
	req RegisterRequest,
) (*UserDevice, error) {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	d := &UserDevice{
		ID:        uuid.NewString(),
		UserID:    actor.UserID,
		PushToken: strings.TrimSpace(req.PushToken),
		Platform:  req.Platform,
	}
	if err := s.repo.Upsert(ctx, d); err != nil {
		return nil, fmt.Errorf("register device: %w", err)
	}
	return d, nil
}

func (s *Service) Unregister(ctx context.Context, actor *authz.Principal, pushToken string) error {
	if err := authz.RequireAuthenticated(actor); err != nil {
		return err
	}
	return s.repo.Delete(ctx, actor.UserID, strings.TrimSpace(pushToken))
}

func (s *Service) TokensFor(ctx context.Context, userIDs []string) ([]string, error) {
	return s.repo.TokensFor(ctx, userIDs)
}

func (s *Service) Prune(ctx context.Context, pushTokens []string) (int64, error) {
	return s.repo.DeleteTokens(ctx, pushTokens)
}
