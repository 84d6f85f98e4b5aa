// AngelaMos | 2026
// errors.go

package authz

import (
	"errors"
	"net/http"

	"github.com/mentorcamp/backend/internal/core"
)

var (
	ErrUnauthenticated = core.NewAppError(
		core.ErrUnauthorized,
		"Authentication required.",
		http.StatusUnauthorized,
		"UNAUTHENTICATED",
	)
	ErrInsufficientRole = core.NewAppError(
		core.ErrForbidden,
		"Your role does not allow this action.",
		http.StatusForbidden,
		"INSUFFICIENT_ROLE",
	)
	ErrNotOwner = core.NewAppError(
		core.ErrForbidden,
		"You can only change records you own.",
		http.StatusForbidden,
		"NOT_OWNER",
	)
)

// Reason is a short label for metrics and logs. Errors wrapping one of the
// policy refusals get that refusal's label.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "unauthenticated"
	case errors.Is(err, ErrInsufficientRole):
		return "insufficient_role"
	case errors.Is(err, ErrNotOwner):
		return "not_owner"
	}
	if _, ok := core.IsAppError(err); ok {
		return "other"
	}
	return "unknown"
}

// IsDenial reports whether err is one of the policy's refusals.
func IsDenial(err error) bool {
	return errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrInsufficientRole) ||
		errors.Is(err, ErrNotOwner)
}

func RequireAuthenticated(p *Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}
	return nil
}

func RequireSuperuser(p *Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if !IsSuperuser(p) {
		return ErrInsufficientRole
	}
	return nil
}

func RequireAdmin(p *Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if !IsAdmin(p) {
		return ErrInsufficientRole
	}
	return nil
}

func RequireNavigation(p *Principal, section Section) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if !CanAccessNavigation(p, section) {
		return ErrInsufficientRole
	}
	return nil
}

func RequirePermission(p *Principal, action Action, resource Resource) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if !CanPerform(p, action, resource) {
		return ErrInsufficientRole
	}
	return nil
}

// RequireRelationshipChange reports ErrInsufficientRole when p cannot touch
// relationships at all, and ErrNotOwner when the link belongs to someone else.
func RequireRelationshipChange(
	p *Principal,
	action Action,
	rel RelationshipRef,
) error {
	if err := RequirePermission(p, action, ResourceRelationship); err != nil {
		return err
	}
	if !CanModifyRelationship(p, rel) {
		return ErrNotOwner
	}
	return nil
}

func RequireFamilyManagement(p *Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if !CanManageFamily(p) {
		return ErrInsufficientRole
	}
	return nil
}

func RequireThreadAccess(p *Principal, participants []string) error {
	if p == nil {
		return ErrUnauthenticated
	}
	if !CanReadThread(p, participants) {
		return ErrNotOwner
	}
	return nil
}
