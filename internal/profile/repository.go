// AngelaMos | 2026
// repository.go

package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
)

type Repository interface {
	ForUser(ctx context.Context, userID string) (*Set, error)
	ForUsers(ctx context.Context, userIDs []string) (map[string]*Set, error)
	Grant(ctx context.Context, userID string, role authz.Role) error
	Revoke(ctx context.Context, userID string, role authz.Role) error
	SetStaffLevel(ctx context.Context, userID, level string) error
	AssignMentor(ctx context.Context, menteeUserID string, mentorUserID *string) error
	AssignTeam(ctx context.Context, menteeUserID string, teamID *string) error
	UserIDsWithRole(ctx context.Context, role authz.Role) ([]string, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const setQuery = `
	SELECT u.id AS user_id,
	       s.id AS staff_id, s.permission_level AS staff_level,
	       m.id AS mentor_id,
	       me.id AS mentee_id, me.mentor_id AS mentee_mentor_id,
	       mm.user_id AS mentee_mentor_user_id, me.team_id AS mentee_team_id,
	       g.id AS guardian_id,
	       v.id AS volunteer_id
	FROM users u
	LEFT JOIN staff s ON s.user_id = u.id
	LEFT JOIN mentors m ON m.user_id = u.id
	LEFT JOIN mentees me ON me.user_id = u.id
	LEFT JOIN mentors mm ON mm.id = me.mentor_id
	LEFT JOIN guardians g ON g.user_id = u.id
	LEFT JOIN volunteers v ON v.user_id = u.id`

func (r *repository) ForUser(ctx context.Context, userID string) (*Set, error) {
	var rw row
	if err := r.db.GetContext(ctx, &rw, setQuery+` WHERE u.id = $1`, userID); err != nil {
		return nil, fmt.Errorf("load profiles: %w", core.MapStoreError(err))
	}
	return rw.set(), nil
}

func (r *repository) ForUsers(
	ctx context.Context,
	userIDs []string,
) (map[string]*Set, error) {
	out := make(map[string]*Set, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []row
	if err := r.db.SelectContext(ctx, &rows, setQuery+` WHERE u.id = ANY($1::text[]::uuid[])`, userIDs); err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}

	for _, rw := range rows {
		out[rw.UserID] = rw.set()
	}
	return out, nil
}

var grantQueries = map[authz.Role]string{
	authz.RoleStaff: `
		INSERT INTO staff (id, user_id, permission_level) VALUES ($1, $2, 'standard')
		ON CONFLICT (user_id) DO NOTHING`,
	authz.RoleAdmin: `
		INSERT INTO staff (id, user_id, permission_level) VALUES ($1, $2, 'admin')
		ON CONFLICT (user_id) DO UPDATE SET permission_level = 'admin'`,
	authz.RoleMentor: `
		INSERT INTO mentors (id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`,
	authz.RoleMentee: `
		INSERT INTO mentees (id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`,
	authz.RoleGuardian: `
		INSERT INTO guardians (id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`,
	authz.RoleVolunteer: `
		INSERT INTO volunteers (id, user_id) VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING`,
}

var revokeQueries = map[authz.Role]string{
	authz.RoleStaff:     `DELETE FROM staff WHERE user_id = $1`,
	authz.RoleAdmin:     `UPDATE staff SET permission_level = 'standard' WHERE user_id = $1`,
	authz.RoleMentor:    `DELETE FROM mentors WHERE user_id = $1`,
	authz.RoleMentee:    `DELETE FROM mentees WHERE user_id = $1`,
	authz.RoleGuardian:  `DELETE FROM guardians WHERE user_id = $1`,
	authz.RoleVolunteer: `DELETE FROM volunteers WHERE user_id = $1`,
}

// Grant is idempotent. Granting admin creates or promotes the staff row.
func (r *repository) Grant(ctx context.Context, userID string, role authz.Role) error {
	query, ok := grantQueries[role]
	if !ok {
		return fmt.Errorf("grant %q: %w", role, core.ErrInvalidInput)
	}

	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID); err != nil {
		return fmt.Errorf("grant %s: %w", role, core.MapStoreError(err))
	}
	return nil
}

// Revoke is idempotent. Revoking admin demotes to standard staff.
func (r *repository) Revoke(ctx context.Context, userID string, role authz.Role) error {
	query, ok := revokeQueries[role]
	if !ok {
		return fmt.Errorf("revoke %q: %w", role, core.ErrInvalidInput)
	}

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("revoke %s: %w", role, err)
	}
	return nil
}

func (r *repository) SetStaffLevel(ctx context.Context, userID, level string) error {
	query := `UPDATE staff SET permission_level = $2 WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID, level)
	if err != nil {
		return fmt.Errorf("set staff level: %w", err)
	}
	return requireRow(result.RowsAffected, "set staff level")
}

func (r *repository) AssignMentor(
	ctx context.Context,
	menteeUserID string,
	mentorUserID *string,
) error {
	query := `
		UPDATE mentees
		SET mentor_id = (SELECT id FROM mentors WHERE user_id = $2)
		WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, menteeUserID, mentorUserID)
	if err != nil {
		return fmt.Errorf("assign mentor: %w", err)
	}
	return requireRow(result.RowsAffected, "assign mentor")
}

func (r *repository) AssignTeam(
	ctx context.Context,
	menteeUserID string,
	teamID *string,
) error {
	query := `UPDATE mentees SET team_id = $2 WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, menteeUserID, teamID)
	if err != nil {
		return fmt.Errorf("assign team: %w", core.MapStoreError(err))
	}
	return requireRow(result.RowsAffected, "assign team")
}

var roleTables = map[authz.Role]string{
	authz.RoleStaff:     `SELECT user_id FROM staff`,
	authz.RoleAdmin:     `SELECT user_id FROM staff WHERE permission_level = 'admin'`,
	authz.RoleMentor:    `SELECT user_id FROM mentors`,
	authz.RoleMentee:    `SELECT user_id FROM mentees`,
	authz.RoleGuardian:  `SELECT user_id FROM guardians`,
	authz.RoleVolunteer: `SELECT user_id FROM volunteers`,
}

func (r *repository) UserIDsWithRole(
	ctx context.Context,
	role authz.Role,
) ([]string, error) {
	query, ok := roleTables[role]
	if !ok {
		return nil, fmt.Errorf("users with role %q: %w", role, core.ErrInvalidInput)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("users with role %s: %w", role, err)
	}
	return ids, nil
}

func requireRow(affected func() (int64, error), op string) error {
	rows, err := affected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}
