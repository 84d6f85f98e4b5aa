// AngelaMos | 2026
// policy_test.go

package authz

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/mentorcamp/backend/internal/core"
)

func principal(roles ...Role) *Principal {
	return &Principal{
		UserID: uuid.NewString(),
		Email:  "someone@example.com",
		Roles:  NewRoleSet(roles...),
	}
}

func TestIsSuperuser(t *testing.T) {
	tests := map[string]struct {
		p    *Principal
		want bool
	}{
		"nil":             {nil, false},
		"no roles":        {principal(), false},
		"staff":           {principal(RoleStaff), true},
		"admin staff":     {principal(RoleStaff, RoleAdmin), true},
		"mentor":          {principal(RoleMentor), false},
		"mentor guardian": {principal(RoleMentor, RoleGuardian), false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := IsSuperuser(tc.p); got != tc.want {
				t.Fatalf("IsSuperuser = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsAdminRequiresStaffProfile(t *testing.T) {
	if IsAdmin(principal(RoleAdmin)) {
		t.Fatal("admin marker without staff profile must not be admin")
	}
	if !IsAdmin(principal(RoleStaff, RoleAdmin)) {
		t.Fatal("staff at admin level should be admin")
	}
	if IsAdmin(principal(RoleStaff)) {
		t.Fatal("standard staff should not be admin")
	}
}

func TestHasRoleUnknownRole(t *testing.T) {
	p := principal(RoleMentor)
	if HasRole(p, Role("mentor?")) {
		t.Fatal("unknown role name matched")
	}
}

func TestCanAccessNavigation(t *testing.T) {
	tests := []struct {
		name    string
		p       *Principal
		section Section
		want    bool
	}{
		{"anonymous events", nil, SectionEvents, false},
		{"staff users", principal(RoleStaff), SectionUsers, true},
		{"mentor events", principal(RoleMentor), SectionEvents, true},
		{"mentor teams", principal(RoleMentor), SectionTeams, true},
		{"mentor users", principal(RoleMentor), SectionUsers, false},
		{"mentee teams", principal(RoleMentee), SectionTeams, false},
		{"guardian family", principal(RoleGuardian), SectionFamily, false},
		{"volunteer events", principal(RoleVolunteer), SectionEvents, true},
		{"unknown section", principal(RoleMentor), Section("billing"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanAccessNavigation(tc.p, tc.section); got != tc.want {
				t.Fatalf("CanAccessNavigation(%s) = %v, want %v", tc.section, got, tc.want)
			}
		})
	}
}

func TestCanPerformCreateIsStricterThanView(t *testing.T) {
	mentee := principal(RoleMentee)
	if !CanPerform(mentee, ActionView, ResourceEvent) {
		t.Fatal("mentee should view events")
	}
	if CanPerform(mentee, ActionCreate, ResourceEvent) {
		t.Fatal("mentee should not create events")
	}

	mentor := principal(RoleMentor)
	if !CanPerform(mentor, ActionCreate, ResourceEvent) {
		t.Fatal("mentor should create events")
	}
	if CanPerform(mentor, ActionDelete, ResourceEvent) {
		t.Fatal("mentor should not delete events")
	}
	if !CanPerform(principal(RoleStaff), ActionDelete, ResourceEvent) {
		t.Fatal("staff should delete events")
	}
}

func TestCanModifyRelationship(t *testing.T) {
	mentor := principal(RoleMentor)
	other := principal(RoleMentor)
	mentee := uuid.NewString()

	own := RelationshipRef{
		UserID:           mentor.UserID,
		RelatedUserID:    mentee,
		RelationshipType: MentorRelationship,
	}
	foreign := RelationshipRef{
		UserID:           other.UserID,
		RelatedUserID:    mentee,
		RelationshipType: MentorRelationship,
	}
	ownSibling := RelationshipRef{
		UserID:           mentor.UserID,
		RelatedUserID:    mentee,
		RelationshipType: "sibling",
	}

	if !CanModifyRelationship(mentor, own) {
		t.Fatal("mentor should modify own mentor link")
	}
	if CanModifyRelationship(mentor, foreign) {
		t.Fatal("mentor modified another mentor's link")
	}
	if CanModifyRelationship(mentor, ownSibling) {
		t.Fatal("mentor modified a non-mentor link")
	}
	if !CanModifyRelationship(principal(RoleStaff), foreign) {
		t.Fatal("superuser should modify any link")
	}

	guardian := principal(RoleGuardian)
	notMentor := RelationshipRef{
		UserID:           guardian.UserID,
		RelatedUserID:    mentee,
		RelationshipType: MentorRelationship,
	}
	if CanModifyRelationship(guardian, notMentor) {
		t.Fatal("non-mentor holding the user side must be denied")
	}
}

func TestRequireReportsReason(t *testing.T) {
	mentor := principal(RoleMentor)
	foreign := RelationshipRef{
		UserID:           uuid.NewString(),
		RelatedUserID:    uuid.NewString(),
		RelationshipType: MentorRelationship,
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"anonymous superuser", RequireSuperuser(nil), ErrUnauthenticated},
		{"mentor superuser", RequireSuperuser(mentor), ErrInsufficientRole},
		{"staff spoof", RequireAdmin(principal(RoleStaff)), ErrInsufficientRole},
		{"foreign relationship", RequireRelationshipChange(mentor, ActionDelete, foreign), ErrNotOwner},
		{
			"mentee relationship",
			RequireRelationshipChange(principal(RoleMentee), ActionDelete, foreign),
			ErrInsufficientRole,
		},
		{"mentor family", RequireFamilyManagement(mentor), ErrInsufficientRole},
		{"outsider thread", RequireThreadAccess(mentor, []string{uuid.NewString()}), ErrNotOwner},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, tc.want) {
				t.Fatalf("got %v, want %v", tc.err, tc.want)
			}
		})
	}

	if err := RequireFamilyManagement(principal(RoleStaff)); err != nil {
		t.Fatalf("staff family management: %v", err)
	}
	if err := RequireThreadAccess(mentor, []string{mentor.UserID}); err != nil {
		t.Fatalf("participant thread access: %v", err)
	}
}

func TestRoleSetSliceIsSorted(t *testing.T) {
	got := NewRoleSet(RoleVolunteer, RoleAdmin, RoleMentor).Strings()
	want := []string{"admin", "mentor", "volunteer"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Strings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIsDenial(t *testing.T) {
	tests := map[string]struct {
		err  error
		want bool
	}{
		"unauthenticated":   {ErrUnauthenticated, true},
		"wrapped not owner": {fmt.Errorf("update relationship: %w", ErrNotOwner), true},
		"insufficient role": {ErrInsufficientRole, true},
		"plain forbidden":   {errors.New("forbidden"), false},
		"nil":               {nil, false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := IsDenial(tc.err); got != tc.want {
				t.Errorf("IsDenial = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestReason(t *testing.T) {
	consoleRefusal := core.NewAppError(ErrInsufficientRole, "no console", http.StatusForbidden, "INSUFFICIENT_ROLE")

	tests := map[string]struct {
		err  error
		want string
	}{
		"unauthenticated":       {ErrUnauthenticated, "unauthenticated"},
		"wrapping app error":    {consoleRefusal, "insufficient_role"},
		"fmt wrapped not owner": {fmt.Errorf("delete: %w", ErrNotOwner), "not_owner"},
		"other app error":       {core.ForbiddenError(""), "other"},
		"plain error":           {errors.New("boom"), "unknown"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Reason(tc.err); got != tc.want {
				t.Errorf("Reason = %q, want %q", got, tc.want)
			}
		})
	}
}
