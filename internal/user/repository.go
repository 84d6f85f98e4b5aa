// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mentorcamp/backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateAvatar(ctx context.Context, id string, avatarURL *string) error
	SetActive(ctx context.Context, id string, active bool) error
	Confirm(ctx context.Context, tokenHash string, sentAfter time.Time) (*User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	Count(ctx context.Context) (total, active int, err error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, email, password_hash, name, active, confirmation_token_hash,
	confirmation_sent_at, avatar_url, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, password_hash, name, active,
		                   confirmation_token_hash, confirmation_sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Active,
		user.ConfirmationTokenHash,
		user.ConfirmationSentAt,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create user: %w", core.MapStoreError(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, fmt.Errorf("get user: %w", core.MapStoreError(err))
	}

	return &user, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, fmt.Errorf("get user by email: %w", core.MapStoreError(err))
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query, user.ID, user.Name, user.Email)
	if err != nil {
		return fmt.Errorf("update user: %w", core.MapStoreError(err))
	}

	return nil
}

func (r *repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, "update password", query, id, passwordHash)
}

func (r *repository) UpdateAvatar(ctx context.Context, id string, avatarURL *string) error {
	query := `UPDATE users SET avatar_url = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, "update avatar", query, id, avatarURL)
}

func (r *repository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE users SET active = $2, updated_at = NOW() WHERE id = $1`
	return r.execOne(ctx, "set active", query, id, active)
}

// Confirm activates the account holding tokenHash and clears the token, as
// long as the link was sent after sentAfter.
func (r *repository) Confirm(
	ctx context.Context,
	tokenHash string,
	sentAfter time.Time,
) (*User, error) {
	query := `
		UPDATE users
		SET active = TRUE, confirmation_token_hash = NULL, updated_at = NOW()
		WHERE confirmation_token_hash = $1 AND confirmation_sent_at > $2
		RETURNING ` + userColumns

	var user User
	if err := r.db.GetContext(ctx, &user, query, tokenHash, sentAfter); err != nil {
		return nil, fmt.Errorf("confirm user: %w", core.MapStoreError(err))
	}

	return &user, nil
}

// Delete removes the user; profile rows, tokens, devices and logs cascade.
func (r *repository) Delete(ctx context.Context, id string) error {
	return r.execOne(ctx, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

var roleTables = map[string]string{
	"staff":     "staff",
	"mentor":    "mentors",
	"mentee":    "mentees",
	"guardian":  "guardians",
	"volunteer": "volunteers",
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(u.email ILIKE $%d OR u.name ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Role == "admin" {
		conditions = append(conditions,
			"EXISTS (SELECT 1 FROM staff s WHERE s.user_id = u.id AND s.permission_level = 'admin')")
	} else if table, ok := roleTables[string(params.Role)]; ok {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s p WHERE p.user_id = u.id)", table))
	}

	if params.Active != nil {
		conditions = append(conditions, fmt.Sprintf("u.active = $%d", argIdx))
		args = append(args, *params.Active)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := "SELECT COUNT(*) FROM users u WHERE " + whereClause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT u.id, u.email, u.password_hash, u.name, u.active,
		       u.confirmation_token_hash, u.confirmation_sent_at, u.avatar_url,
		       u.created_at, u.updated_at
		FROM users u
		WHERE %s
		ORDER BY u.created_at DESC
		LIMIT $%d OFFSET $%d`,
		whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) Count(ctx context.Context) (int, int, error) {
	var counts struct {
		Total  int `db:"total"`
		Active int `db:"active"`
	}
	query := `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE active) AS active FROM users`
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return 0, 0, fmt.Errorf("count users: %w", err)
	}
	return counts.Total, counts.Active, nil
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

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
