// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mentorcamp/backend/internal/auth"
	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/media"
	"github.com/mentorcamp/backend/internal/profile"
	"github.com/mentorcamp/backend/internal/search"
)

var _ auth.UserProvider = (*Service)(nil)

var _ profile.Listener = (*Service)(nil)

type Service struct {
	repo      Repository
	profiles  profile.Repository
	uow       UnitOfWork
	directory search.Directory
	images    media.ImageStorage
	now       func() time.Time
}

func NewService(
	repo Repository,
	profiles profile.Repository,
	uow UnitOfWork,
	directory search.Directory,
	images media.ImageStorage,
) *Service {
	return &Service{
		repo:      repo,
		profiles:  profiles,
		uow:       uow,
		directory: directory,
		images:    images,
		now:       time.Now,
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(d), nil
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, core.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	set, err := s.profiles.ForUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return toUserInfo(&Detail{User: user, Profiles: set}), nil
}

// CreateAccount stores a self-registered user and its profile rows in one
// transaction.
func (s *Service) CreateAccount(
	ctx context.Context,
	acct auth.NewAccount,
) (*auth.UserInfo, error) {
	user := &User{
		ID:                    uuid.NewString(),
		Email:                 core.NormalizeEmail(acct.Email),
		PasswordHash:          acct.PasswordHash,
		Name:                  acct.Name,
		Active:                acct.Active,
		ConfirmationTokenHash: acct.ConfirmationTokenHash,
	}
	if acct.ConfirmationTokenHash != nil {
		sentAt := s.now()
		user.ConfirmationSentAt = &sentAt
	}

	d, err := s.createWithRoles(ctx, user, acct.Roles)
	if err != nil {
		return nil, err
	}

	return toUserInfo(d), nil
}

func (s *Service) ConfirmByTokenHash(
	ctx context.Context,
	tokenHash string,
	sentAfter time.Time,
) (*auth.UserInfo, error) {
	user, err := s.repo.Confirm(ctx, tokenHash, sentAfter)
	if err != nil {
		return nil, err
	}

	s.reindex(ctx, user.ID)
	return s.GetByID(ctx, user.ID)
}

func (s *Service) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// Create is the console path: the account is active unless the request
// says otherwise. Granting admin or staff takes an admin actor.
func (s *Service) Create(
	ctx context.Context,
	actor *authz.Principal,
	req CreateUserRequest,
) (*Detail, error) {
	roles := make([]authz.Role, 0, len(req.Roles))
	for _, name := range req.Roles {
		role, ok := authz.ParseRole(name)
		if !ok {
			return nil, core.NewValidationError("roles", "contains an unknown role")
		}
		roles = append(roles, role)
	}
	if err := requirePrivilegedGrant(actor, authz.NewRoleSet(roles...)); err != nil {
		return nil, err
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	return s.createWithRoles(ctx, &User{
		ID:           uuid.NewString(),
		Email:        core.NormalizeEmail(req.Email),
		PasswordHash: hash,
		Name:         req.Name,
		Active:       active,
	}, roles)
}

func (s *Service) createWithRoles(
	ctx context.Context,
	user *User,
	roles []authz.Role,
) (*Detail, error) {
	err := s.uow.Do(ctx, func(users Repository, profiles profile.Repository) error {
		if err := users.Create(ctx, user); err != nil {
			return err
		}
		for _, role := range roles {
			if err := profiles.Grant(ctx, user.ID, role); err != nil {
				return fmt.Errorf("grant %s: %w", role, err)
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf("create user: %w", errors.Join(core.DuplicateError("email"), err))
		}
		return nil, err
	}

	d, err := s.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	s.index(ctx, d)
	return d, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Detail, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set, err := s.profiles.ForUser(ctx, id)
	if err != nil {
		return nil, err
	}

	return &Detail{User: user, Profiles: set}, nil
}

func (s *Service) List(ctx context.Context, params ListUsersParams) ([]Detail, int, error) {
	users, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}

	sets, err := s.profiles.ForUsers(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	details := make([]Detail, len(users))
	for i := range users {
		details[i] = Detail{User: &users[i], Profiles: sets[users[i].ID]}
	}
	return details, total, nil
}

// requirePrivilegedGrant lets only admins hand out staff access.
func requirePrivilegedGrant(actor *authz.Principal, roles authz.RoleSet) error {
	if roles.Has(authz.RoleAdmin) || roles.Has(authz.RoleStaff) {
		return authz.RequireAdmin(actor)
	}
	return nil
}

// guardTarget loads the account actor wants to change. Admin accounts can
// only be changed by another admin.
func (s *Service) guardTarget(ctx context.Context, actor *authz.Principal, id string) (*Detail, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Roles().Has(authz.RoleAdmin) {
		if err := authz.RequireAdmin(actor); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (s *Service) Update(
	ctx context.Context,
	actor *authz.Principal,
	id string,
	req UpdateUserRequest,
) (*Detail, error) {
	d, err := s.guardTarget(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	user := d.User

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = core.NormalizeEmail(*req.Email)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("email")
		}
		return nil, err
	}

	s.reindex(ctx, id)
	return s.Get(ctx, id)
}

func (s *Service) SetActive(
	ctx context.Context,
	actor *authz.Principal,
	id string,
	active bool,
) (*Detail, error) {
	if _, err := s.guardTarget(ctx, actor, id); err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}

	s.reindex(ctx, id)
	return s.Get(ctx, id)
}

// Delete hard-deletes a user. Only superusers may do it, never on
// themselves, and only admins may delete an admin.
func (s *Service) Delete(ctx context.Context, actor *authz.Principal, id string) error {
	if err := authz.RequireSuperuser(actor); err != nil {
		return err
	}
	if actor.UserID == id {
		return core.NewValidationError("id", "cannot delete your own account")
	}

	d, err := s.guardTarget(ctx, actor, id)
	if err != nil {
		return err
	}
	user := d.User

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.directory.RemoveUser(ctx, id); err != nil {
		slog.WarnContext(ctx, "remove user from directory failed",
			"user_id", id,
			"error", err,
		)
	}

	if user.AvatarURL != nil {
		if err := s.images.DeleteImage(ctx, *user.AvatarURL); err != nil {
			slog.WarnContext(ctx, "delete avatar failed",
				"user_id", id,
				"error", err,
			)
		}
	}

	return nil
}

func (s *Service) UploadAvatar(
	ctx context.Context,
	actor *authz.Principal,
	id string,
	r io.Reader,
) (*Detail, error) {
	if _, err := s.guardTarget(ctx, actor, id); err != nil {
		return nil, err
	}

	url, err := s.images.UploadImage(ctx, r, media.FolderAvatars, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateAvatar(ctx, id, &url); err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *Service) Search(ctx context.Context, query string, limit int) ([]search.UserDocument, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.directory.SearchUsers(ctx, query, limit)
}

func (s *Service) Count(ctx context.Context) (int, int, error) {
	return s.repo.Count(ctx)
}

// RolesChanged keeps the directory's role list current.
func (s *Service) RolesChanged(ctx context.Context, userID string) {
	s.reindex(ctx, userID)
}

func (s *Service) reindex(ctx context.Context, id string) {
	d, err := s.Get(ctx, id)
	if err != nil {
		slog.WarnContext(ctx, "reload user for directory failed",
			"user_id", id,
			"error", err,
		)
		return
	}
	s.index(ctx, d)
}

func (s *Service) index(ctx context.Context, d *Detail) {
	doc := search.UserDocument{
		ID:     d.User.ID,
		Email:  d.User.Email,
		Name:   d.User.Name,
		Roles:  d.Roles().Strings(),
		Active: d.User.Active,
	}
	if err := s.directory.IndexUser(ctx, doc); err != nil {
		slog.WarnContext(ctx, "index user failed",
			"user_id", d.User.ID,
			"error", err,
		)
	}
}

func toUserInfo(d *Detail) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           d.User.ID,
		Email:        d.User.Email,
		Name:         d.User.Name,
		PasswordHash: d.User.PasswordHash,
		Active:       d.User.Active,
		AvatarURL:    d.User.AvatarURL,
		Roles:        d.Roles(),
	}
}
