// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/config"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/mail"
	"github.com/mentorcamp/backend/internal/middleware"
)

var (
	ErrInvalidCredentials = core.NewAppError(
		core.ErrUnauthorized,
		"Invalid email or password.",
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
	)
	ErrNotConfirmed = core.NewAppError(
		core.ErrForbidden,
		"Please confirm your email address before signing in.",
		http.StatusForbidden,
		"NOT_CONFIRMED",
	)
	ErrConsoleAccess = core.NewAppError(
		authz.ErrInsufficientRole,
		"Your account does not have access to the admin console.",
		http.StatusForbidden,
		"INSUFFICIENT_ROLE",
	)
)

const (
	surfaceAPI     = "api"
	surfaceConsole = "console"
)

// UserProvider is the slice of the identity store the authenticator needs.
// GetByID and GetByEmail return roles loaded from the profile rows at call
// time.
type UserProvider interface {
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	CreateAccount(ctx context.Context, acct NewAccount) (*UserInfo, error)
	ConfirmByTokenHash(ctx context.Context, tokenHash string, sentAfter time.Time) (*UserInfo, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Options struct {
	Tokens  config.TokenConfig
	Account config.AccountConfig
}

type Service struct {
	repo     Repository
	users    UserProvider
	sessions *SessionManager
	resets   ResetStore
	mailer   mail.Mailer
	opts     Options
	now      func() time.Time
}

func NewService(
	repo Repository,
	users UserProvider,
	sessions *SessionManager,
	resets ResetStore,
	mailer mail.Mailer,
	opts Options,
) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		sessions: sessions,
		resets:   resets,
		mailer:   mailer,
		opts:     opts,
		now:      time.Now,
	}
}

// authenticate checks credentials without side effects beyond an opportunistic
// password rehash.
func (s *Service) authenticate(
	ctx context.Context,
	email, password string,
) (*UserInfo, error) {
	user, err := s.users.GetByEmail(ctx, core.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // equalize timing for unknown accounts
			_, _, _ = core.VerifyPasswordTimingSafe(password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(password, &user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	if !user.Active {
		return nil, ErrNotConfirmed
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			slog.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	return user, nil
}

// Login authenticates on the API surface and returns a fresh bearer token.
// The raw token is only ever present in the response.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.login",
		attribute.String("auth.surface", surfaceAPI),
	)
	defer span.End()

	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		recordLogin(ctx, surfaceAPI, err)
		return nil, err
	}

	raw, token, err := s.issueToken(ctx, user.ID, req.DeviceName)
	if err != nil {
		recordLogin(ctx, surfaceAPI, err)
		return nil, err
	}

	recordLogin(ctx, surfaceAPI, nil)

	return &LoginResponse{
		User: ToUserResponse(user),
		Token: TokenResponse{
			Token:     raw,
			TokenType: "Bearer",
			ExpiresAt: token.ExpiresAt,
		},
	}, nil
}

func (s *Service) issueToken(
	ctx context.Context,
	userID, deviceName string,
) (string, *Token, error) {
	raw, err := core.GenerateSecureToken(s.opts.Tokens.ByteLength)
	if err != nil {
		return "", nil, fmt.Errorf("generate token: %w", err)
	}

	now := s.now()
	token := &Token{
		ID:         uuid.NewString(),
		UserID:     userID,
		TokenHash:  core.HashToken(raw),
		ExpiresAt:  now.Add(s.opts.Tokens.Lifetime),
		LastUsedAt: now,
	}
	if deviceName != "" {
		token.DeviceName = &deviceName
	}

	if err := s.repo.Create(ctx, token); err != nil {
		return "", nil, fmt.Errorf("store token: %w", err)
	}

	s.pruneTokens(ctx, userID)

	return raw, token, nil
}

// pruneTokens drops the least recently used tokens above the per-user cap.
func (s *Service) pruneTokens(ctx context.Context, userID string) {
	limit := s.opts.Tokens.MaxPerUser
	if limit <= 0 {
		return
	}

	tokens, err := s.repo.ListForUser(ctx, userID, s.now())
	if err != nil {
		slog.WarnContext(ctx, "list tokens for pruning failed", "error", err)
		return
	}

	for i := limit; i < len(tokens); i++ {
		if err := s.repo.DeleteByID(ctx, userID, tokens[i].ID); err != nil &&
			!errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "prune token failed",
				"token_id", tokens[i].ID,
				"error", err,
			)
		}
	}
}

// ConsoleLogin authenticates a superuser and writes the session cookie.
func (s *Service) ConsoleLogin(
	ctx context.Context,
	w http.ResponseWriter,
	req LoginRequest,
) (*SessionResponse, error) {
	ctx, span := core.StartSpan(ctx, "auth.login",
		attribute.String("auth.surface", surfaceConsole),
	)
	defer span.End()

	user, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		recordLogin(ctx, surfaceConsole, err)
		return nil, err
	}

	if !authz.IsSuperuser(user.Principal()) {
		recordLogin(ctx, surfaceConsole, ErrConsoleAccess)
		return nil, ErrConsoleAccess
	}

	if err := s.sessions.Issue(w, SessionClaims{UserID: user.ID}); err != nil {
		recordLogin(ctx, surfaceConsole, err)
		return nil, fmt.Errorf("issue session: %w", err)
	}

	recordLogin(ctx, surfaceConsole, nil)

	return &SessionResponse{User: ToUserResponse(user)}, nil
}

// ConsoleLogout clears the session cookie, spoof slot included.
func (s *Service) ConsoleLogout(w http.ResponseWriter) {
	s.sessions.Clear(w)
}

// Logout deletes the token behind the presented credential. A token that is
// already gone is not an error.
func (s *Service) Logout(ctx context.Context, tokenHash string) error {
	if tokenHash == "" {
		return nil
	}
	if err := s.repo.DeleteByHash(ctx, tokenHash); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *Service) AuthenticateToken(
	ctx context.Context,
	raw string,
) (*middleware.Identity, error) {
	hash := core.HashToken(raw)
	now := s.now()

	token, err := s.repo.FindValidByHash(ctx, hash, now)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("authenticate token: %w", core.ErrUnauthorized)
		}
		return nil, fmt.Errorf("authenticate token: %w", err)
	}

	user, err := s.activeUser(ctx, token.UserID)
	if err != nil {
		return nil, fmt.Errorf("authenticate token: %w", err)
	}

	if err := s.repo.Touch(ctx, token.ID, now); err != nil {
		slog.WarnContext(ctx, "touch token failed",
			"token_id", token.ID,
			"error", err,
		)
	}

	p := user.Principal()
	return &middleware.Identity{
		Real:      p,
		Effective: p,
		TokenHash: hash,
	}, nil
}

// ResolveSession loads the console identity for this request. A spoof slot
// only takes effect while the real user still verifies as an admin; a stale
// slot is dropped by reissuing the cookie without it.
func (s *Service) ResolveSession(
	w http.ResponseWriter,
	r *http.Request,
) (*middleware.Identity, error) {
	ctx := r.Context()

	claims, err := s.sessions.Read(r)
	if err != nil {
		return nil, err
	}

	realUser, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	realPrincipal := realUser.Principal()
	id := &middleware.Identity{Real: realPrincipal, Effective: realPrincipal}

	if claims.SpoofUserID == "" {
		return id, nil
	}

	target, err := s.spoofTarget(ctx, realPrincipal, claims.SpoofUserID)
	if err != nil {
		slog.InfoContext(ctx, "dropping spoof slot",
			"user_id", realUser.ID,
			"spoof_user_id", claims.SpoofUserID,
			"error", err,
		)
		if issueErr := s.sessions.Issue(w, SessionClaims{UserID: realUser.ID}); issueErr != nil {
			return nil, fmt.Errorf("reissue session: %w", issueErr)
		}
		return id, nil
	}

	id.Effective = target.Principal()
	id.Spoofing = true
	return id, nil
}

// activeUser maps missing and inactive users to core.ErrUnauthorized.
func (s *Service) activeUser(ctx context.Context, userID string) (*UserInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.ErrUnauthorized
		}
		return nil, err
	}
	if !user.Active {
		return nil, core.ErrUnauthorized
	}
	return user, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*UserInfo, error) {
	return s.users.GetByID(ctx, userID)
}

// selfServiceRoles are the only roles an account can pick for itself.
var selfServiceRoles = authz.NewRoleSet(authz.RoleMentee, authz.RoleGuardian)

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	role := authz.RoleMentee
	if req.Role != "" {
		parsed, ok := authz.ParseRole(req.Role)
		if !ok || !selfServiceRoles.Has(parsed) {
			return nil, core.NewValidationError("role", "must be mentee or guardian")
		}
		role = parsed
	}

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	raw, err := core.GenerateSecureToken(s.opts.Tokens.ByteLength)
	if err != nil {
		return nil, fmt.Errorf("generate confirmation token: %w", err)
	}
	confirmationHash := core.HashToken(raw)

	user, err := s.users.CreateAccount(ctx, NewAccount{
		Email:                 core.NormalizeEmail(req.Email),
		PasswordHash:          passwordHash,
		Name:                  req.Name,
		Active:                false,
		ConfirmationTokenHash: &confirmationHash,
		Roles:                 []authz.Role{role},
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("email")
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	to := mail.Recipient{Email: user.Email, Name: user.Name}
	if err := s.mailer.SendConfirmation(ctx, to, raw); err != nil {
		slog.WarnContext(ctx, "confirmation mail failed",
			"user_id", user.ID,
			"error", err,
		)
	}

	return user, nil
}

func (s *Service) Confirm(ctx context.Context, token string) (*UserInfo, error) {
	sentAfter := s.now().Add(-s.opts.Account.ConfirmationTTL)

	user, err := s.users.ConfirmByTokenHash(ctx, core.HashToken(token), sentAfter)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.TokenInvalidError()
		}
		return nil, fmt.Errorf("confirm account: %w", err)
	}

	return user, nil
}

func (s *Service) ListTokens(
	ctx context.Context,
	userID, currentHash string,
) ([]TokenInfo, error) {
	tokens, err := s.repo.ListForUser(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}

	infos := make([]TokenInfo, 0, len(tokens))
	for _, t := range tokens {
		infos = append(infos, TokenInfo{
			ID:         t.ID,
			DeviceName: t.DeviceName,
			CreatedAt:  t.CreatedAt,
			LastUsedAt: t.LastUsedAt,
			ExpiresAt:  t.ExpiresAt,
			Current:    t.TokenHash == currentHash,
		})
	}
	return infos, nil
}

func (s *Service) RevokeToken(ctx context.Context, userID, tokenID string) error {
	return s.repo.DeleteByID(ctx, userID, tokenID)
}

// CleanupTokens deletes expired tokens and tokens unused for longer than the
// stale window. Safe to run repeatedly.
func (s *Service) CleanupTokens(ctx context.Context) (int64, error) {
	now := s.now()
	return s.repo.DeleteStale(ctx, now, now.Add(-s.opts.Tokens.StaleAfter))
}

func recordLogin(ctx context.Context, surface string, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidCredentials):
		result = "invalid_credentials"
	case errors.Is(err, ErrNotConfirmed):
		result = "not_confirmed"
	case errors.Is(err, ErrConsoleAccess):
		result = "insufficient_role"
	default:
		result = "error"
		core.SetSpanError(ctx, err)
	}
	core.LoginsTotal.WithLabelValues(surface, result).Inc()
}
