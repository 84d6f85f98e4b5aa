// AngelaMos | 2026
// spoof.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
)

// StartSpoof points the session's spoof slot at targetID. The real user id
// in the session is left untouched.
func (s *Service) StartSpoof(
	ctx context.Context,
	w http.ResponseWriter,
	spoofer *authz.Principal,
	targetID string,
) (*UserInfo, error) {
	if err := authz.RequireAdmin(spoofer); err != nil {
		return nil, err
	}

	if targetID == spoofer.UserID {
		return nil, core.NewValidationError("user_id", "cannot spoof yourself")
	}

	target, err := s.spoofTarget(ctx, spoofer, targetID)
	if err != nil {
		return nil, err
	}

	claims := SessionClaims{UserID: spoofer.UserID, SpoofUserID: target.ID}
	if err := s.sessions.Issue(w, claims); err != nil {
		return nil, fmt.Errorf("issue session: %w", err)
	}

	return target, nil
}

// StopSpoof clears the spoof slot and keeps the session.
func (s *Service) StopSpoof(w http.ResponseWriter, spoofer *authz.Principal) error {
	if err := authz.RequireAuthenticated(spoofer); err != nil {
		return err
	}
	if err := s.sessions.Issue(w, SessionClaims{UserID: spoofer.UserID}); err != nil {
		return fmt.Errorf("issue session: %w", err)
	}
	return nil
}

// spoofTarget re-verifies the spoofer and loads an active target.
func (s *Service) spoofTarget(
	ctx context.Context,
	spoofer *authz.Principal,
	targetID string,
) (*UserInfo, error) {
	if !authz.IsAdmin(spoofer) {
		return nil, authz.ErrInsufficientRole
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("user")
		}
		return nil, fmt.Errorf("load spoof target: %w", err)
	}

	if !target.Active {
		return nil, core.NewValidationError("user_id", "is not active")
	}

	return target, nil
}
