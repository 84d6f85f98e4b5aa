// AngelaMos | 2026
// roles.go

package authz

import "sort"

// Role is a capability derived from the profile rows a user holds.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleStaff     Role = "staff"
	RoleMentor    Role = "mentor"
	RoleMentee    Role = "mentee"
	RoleGuardian  Role = "guardian"
	RoleVolunteer Role = "volunteer"
)

var AllRoles = []Role{
	RoleAdmin,
	RoleStaff,
	RoleMentor,
	RoleMentee,
	RoleGuardian,
	RoleVolunteer,
}

func ParseRole(s string) (Role, bool) {
	for _, r := range AllRoles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// RoleSet holds any combination of roles. The zero value is empty.
type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

func (s RoleSet) Add(r Role) {
	s[r] = struct{}{}
}

func (s RoleSet) Len() int {
	return len(s)
}

// Slice returns the roles in a stable order.
func (s RoleSet) Slice() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s RoleSet) Strings() []string {
	roles := s.Slice()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// Principal is an authenticated, active user as seen by the policy.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Roles  RoleSet
}

// rolePredicates is the only place a role name is turned into a check.
var rolePredicates = map[Role]func(*Principal) bool{
	RoleAdmin: func(p *Principal) bool {
		return p.Roles.Has(RoleAdmin) && p.Roles.Has(RoleStaff)
	},
	RoleStaff:     func(p *Principal) bool { return p.Roles.Has(RoleStaff) },
	RoleMentor:    func(p *Principal) bool { return p.Roles.Has(RoleMentor) },
	RoleMentee:    func(p *Principal) bool { return p.Roles.Has(RoleMentee) },
	RoleGuardian:  func(p *Principal) bool { return p.Roles.Has(RoleGuardian) },
	RoleVolunteer: func(p *Principal) bool { return p.Roles.Has(RoleVolunteer) },
}

// HasRole reports whether p satisfies r. Unknown roles never match.
func HasRole(p *Principal, r Role) bool {
	if p == nil {
		return false
	}
	check, ok := rolePredicates[r]
	if !ok {
		return false
	}
	return check(p)
}

func hasAny(p *Principal, roles []Role) bool {
	for _, r := range roles {
		if HasRole(p, r) {
			return true
		}
	}
	return false
}
