// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/mentorcamp/backend/internal/auth"
	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/config"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/media"
	"github.com/mentorcamp/backend/internal/profile"
	"github.com/mentorcamp/backend/internal/search"
)

// memStore backs both fake repositories so the unit of work can snapshot
// and restore them together.
type memStore struct {
	users     map[string]User
	sets      map[string]profile.Set
	failGrant authz.Role
}

func newMemStore() *memStore {
	return &memStore{users: map[string]User{}, sets: map[string]profile.Set{}}
}

type memUsers struct{ s *memStore }

func (m memUsers) Create(_ context.Context, u *User) error {
	for _, existing := range m.s.users {
		if existing.Email == u.Email {
			return &core.ConstraintError{Constraint: "users_email_key", Err: core.ErrDuplicateKey}
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.s.users[u.ID] = *u
	m.s.sets[u.ID] = profile.Set{UserID: u.ID}
	return nil
}

func (m memUsers) GetByID(_ context.Context, id string) (*User, error) {
	u, ok := m.s.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &u, nil
}

func (m memUsers) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m memUsers) Update(_ context.Context, u *User) error {
	for id, existing := range m.s.users {
		if id != u.ID && existing.Email == u.Email {
			return core.ErrDuplicateKey
		}
	}
	m.s.users[u.ID] = *u
	return nil
}

func (m memUsers) mutate(id string, fn func(*User)) error {
	u, ok := m.s.users[id]
	if !ok {
		return core.ErrNotFound
	}
	fn(&u)
	m.s.users[id] = u
	return nil
}

func (m memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	return m.mutate(id, func(u *User) { u.PasswordHash = hash })
}

func (m memUsers) UpdateAvatar(_ context.Context, id string, url *string) error {
	return m.mutate(id, func(u *User) { u.AvatarURL = url })
}

func (m memUsers) SetActive(_ context.Context, id string, active bool) error {
	return m.mutate(id, func(u *User) { u.Active = active })
}

func (m memUsers) Confirm(_ context.Context, hash string, sentAfter time.Time) (*User, error) {
	for id, u := range m.s.users {
		if u.ConfirmationTokenHash != nil && *u.ConfirmationTokenHash == hash &&
			u.ConfirmationSentAt.After(sentAfter) {
			u.Active = true
			u.ConfirmationTokenHash = nil
			m.s.users[id] = u
			return &u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m memUsers) Delete(_ context.Context, id string) error {
	if _, ok := m.s.users[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.s.users, id)
	delete(m.s.sets, id)
	return nil
}

func (m memUsers) List(_ context.Context, params ListUsersParams) ([]User, int, error) {
	var out []User
	for _, u := range m.s.users {
		if params.Search == "" || strings.Contains(u.Email, params.Search) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, len(out), nil
}

func (m memUsers) Count(context.Context) (int, int, error) {
	active := 0
	for _, u := range m.s.users {
		if u.Active {
			active++
		}
	}
	return len(m.s.users), active, nil
}

type memProfiles struct{ s *memStore }

func (m memProfiles) ForUser(_ context.Context, id string) (*profile.Set, error) {
	set, ok := m.s.sets[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &set, nil
}

func (m memProfiles) ForUsers(_ context.Context, ids []string) (map[string]*profile.Set, error) {
	out := map[string]*profile.Set{}
	for _, id := range ids {
		if set, ok := m.s.sets[id]; ok {
			out[id] = &set
		}
	}
	return out, nil
}

func (m memProfiles) Grant(_ context.Context, id string, role authz.Role) error {
	if role == m.s.failGrant {
		return errors.New("grant failed")
	}
	set, ok := m.s.sets[id]
	if !ok {
		return core.ErrNotFound
	}
	switch role {
	case authz.RoleAdmin:
		set.Staff = &profile.Staff{UserID: id, PermissionLevel: profile.PermissionAdmin}
	case authz.RoleStaff:
		if set.Staff == nil {
			set.Staff = &profile.Staff{UserID: id, PermissionLevel: profile.PermissionStandard}
		}
	case authz.RoleMentor:
		set.Mentor = &profile.Mentor{UserID: id}
	case authz.RoleMentee:
		set.Mentee = &profile.Mentee{UserID: id}
	case authz.RoleGuardian:
		set.Guardian = &profile.Guardian{UserID: id}
	case authz.RoleVolunteer:
		set.Volunteer = &profile.Volunteer{UserID: id}
	}
	m.s.sets[id] = set
	return nil
}

func (m memProfiles) Revoke(_ context.Context, id string, role authz.Role) error {
	set := m.s.sets[id]
	switch role {
	case authz.RoleStaff:
		set.Staff = nil
	case authz.RoleMentor:
		set.Mentor = nil
	case authz.RoleMentee:
		set.Mentee = nil
	}
	m.s.sets[id] = set
	return nil
}

func (m memProfiles) SetStaffLevel(context.Context, string, string) error { return nil }

func (m memProfiles) AssignMentor(context.Context, string, *string) error { return nil }

func (m memProfiles) AssignTeam(context.Context, string, *string) error { return nil }

func (m memProfiles) UserIDsWithRole(context.Context, authz.Role) ([]string, error) {
	return nil, nil
}

// memUnitOfWork restores the store when fn fails.
type memUnitOfWork struct{ s *memStore }

func (u memUnitOfWork) Do(
	ctx context.Context,
	fn func(users Repository, profiles profile.Repository) error,
) error {
	users := make(map[string]User, len(u.s.users))
	for k, v := range u.s.users {
		users[k] = v
	}
	sets := make(map[string]profile.Set, len(u.s.sets))
	for k, v := range u.s.sets {
		sets[k] = v
	}

	if err := fn(memUsers{u.s}, memProfiles{u.s}); err != nil {
		u.s.users = users
		u.s.sets = sets
		return err
	}
	return nil
}

type memDirectory struct {
	docs map[string]search.UserDocument
}

func (d *memDirectory) IndexUser(_ context.Context, doc search.UserDocument) error {
	d.docs[doc.ID] = doc
	return nil
}

func (d *memDirectory) RemoveUser(_ context.Context, id string) error {
	delete(d.docs, id)
	return nil
}

func (d *memDirectory) SearchUsers(context.Context, string, int) ([]search.UserDocument, error) {
	return nil, nil
}

// root is the console admin most tests act as.
var root = &authz.Principal{
	UserID: "root",
	Roles:  authz.NewRoleSet(authz.RoleStaff, authz.RoleAdmin),
}

func newTestService(t *testing.T) (*Service, *memStore, *memDirectory) {
	t.Helper()
	store := newMemStore()
	dir := &memDirectory{docs: map[string]search.UserDocument{}}
	images, err := media.New(config.CloudinaryConfig{})
	if err != nil {
		t.Fatalf("media.New: %v", err)
	}
	svc := NewService(memUsers{store}, memProfiles{store}, memUnitOfWork{store}, dir, images)
	return svc, store, dir
}

func TestCreateAccountWithProfiles(t *testing.T) {
	svc, _, dir := newTestService(t)
	ctx := context.Background()
	hash := "confirm-hash"

	info, err := svc.CreateAccount(ctx, auth.NewAccount{
		Email:                 " Guardian@Example.com",
		PasswordHash:          "x",
		Name:                  "Guardian",
		ConfirmationTokenHash: &hash,
		Roles:                 []authz.Role{authz.RoleGuardian, authz.RoleVolunteer},
	})
	if err != nil {
		t.Fatalf("CreateAccount: %v", err)
	}

	if info.Email != "guardian@example.com" || info.Active {
		t.Fatalf("unexpected account: %+v", info)
	}
	if !info.Roles.Has(authz.RoleGuardian) || !info.Roles.Has(authz.RoleVolunteer) {
		t.Fatalf("roles = %v", info.Roles.Strings())
	}

	doc, ok := dir.docs[info.ID]
	if !ok || len(doc.Roles) != 2 {
		t.Fatalf("directory not updated: %+v", doc)
	}

	confirmed, err := svc.ConfirmByTokenHash(ctx, hash, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("ConfirmByTokenHash: %v", err)
	}
	if !confirmed.Active {
		t.Fatal("account not active after confirm")
	}
	if !dir.docs[info.ID].Active {
		t.Fatal("directory still lists the account as inactive")
	}
}

func TestCreateRollsBackOnProfileFailure(t *testing.T) {
	svc, store, dir := newTestService(t)
	store.failGrant = authz.RoleVolunteer

	_, err := svc.Create(context.Background(), root, CreateUserRequest{
		Email:    "partial@example.com",
		Password: "long-enough",
		Name:     "Partial",
		Roles:    []string{"mentor", "volunteer"},
	})
	if err == nil {
		t.Fatal("expected failure")
	}

	if len(store.users) != 0 || len(store.sets) != 0 {
		t.Fatalf("partial account left behind: %d users", len(store.users))
	}
	if len(dir.docs) != 0 {
		t.Fatal("failed account was indexed")
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	req := CreateUserRequest{Email: "dup@example.com", Password: "long-enough", Name: "Dup"}
	if _, err := svc.Create(ctx, root, req); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	req.Email = "DUP@example.com"
	_, err := svc.Create(ctx, root, req)
	ve, ok := core.AsValidationError(err)
	if !ok || ve.Fields["email"] == "" {
		t.Fatalf("got %v, want email ValidationError", err)
	}
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatal("duplicate key sentinel lost")
	}
}

func TestCreateDefaultsToActive(t *testing.T) {
	svc, _, _ := newTestService(t)

	d, err := svc.Create(context.Background(), root, CreateUserRequest{
		Email:    "staff@example.com",
		Password: "long-enough",
		Name:     "Staff",
		Roles:    []string{"admin"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !d.User.Active {
		t.Fatal("console-created user should be active")
	}
	roles := d.Roles()
	if !roles.Has(authz.RoleAdmin) || !roles.Has(authz.RoleStaff) {
		t.Fatalf("admin grant should imply staff: %v", roles.Strings())
	}
}

func TestDeleteRules(t *testing.T) {
	svc, store, dir := newTestService(t)
	ctx := context.Background()

	staff, err := svc.Create(ctx, root, CreateUserRequest{Email: "s@example.com", Password: "long-enough", Name: "S", Roles: []string{"staff"}})
	if err != nil {
		t.Fatalf("Create staff: %v", err)
	}
	mentor, err := svc.Create(ctx, root, CreateUserRequest{Email: "m@example.com", Password: "long-enough", Name: "M", Roles: []string{"mentor"}})
	if err != nil {
		t.Fatalf("Create mentor: %v", err)
	}

	staffP := &authz.Principal{UserID: staff.User.ID, Roles: staff.Roles()}
	mentorP := &authz.Principal{UserID: mentor.User.ID, Roles: mentor.Roles()}

	if err := svc.Delete(ctx, mentorP, staff.User.ID); !errors.Is(err, authz.ErrInsufficientRole) {
		t.Fatalf("mentor delete: got %v", err)
	}
	if err := svc.Delete(ctx, staffP, staff.User.ID); err == nil {
		t.Fatal("self delete allowed")
	}
	if err := svc.Delete(ctx, staffP, mentor.User.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok := store.users[mentor.User.ID]; ok {
		t.Fatal("user still stored")
	}
	if _, ok := dir.docs[mentor.User.ID]; ok {
		t.Fatal("user still indexed")
	}
}

func TestRolesChangedReindexes(t *testing.T) {
	svc, store, dir := newTestService(t)
	ctx := context.Background()

	d, err := svc.Create(ctx, root, CreateUserRequest{Email: "r@example.com", Password: "long-enough", Name: "R", Roles: []string{"mentee"}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	profiles := profile.NewService(memProfiles{store}, svc)
	if _, err := profiles.Grant(ctx, d.User.ID, authz.RoleMentor); err != nil {
		t.Fatalf("Grant: %v", err)
	}

	got := dir.docs[d.User.ID].Roles
	if len(got) != 2 || got[0] != "mentee" || got[1] != "mentor" {
		t.Fatalf("indexed roles = %v", got)
	}
}

func TestUploadAvatarWithoutStorage(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	d, err := svc.Create(ctx, root, CreateUserRequest{Email: "a@example.com", Password: "long-enough", Name: "A"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.UploadAvatar(ctx, root, d.User.ID, strings.NewReader("img"))
	if !errors.Is(err, core.ErrExternalFailed) {
		t.Fatalf("got %v, want ErrExternalFailed", err)
	}
}
