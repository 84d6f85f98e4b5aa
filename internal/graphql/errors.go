// AngelaMos | 2026
// errors.go

package graphql

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	gql "github.com/graphql-go/graphql"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/middleware"
)

// FieldError is one entry of a mutation payload's errors list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

var (
	errUnauthenticated = errors.New(authz.ErrUnauthenticated.Message)
	errInternal        = errors.New("internal server error")
)

func viewer(p gql.ResolveParams) (*authz.Principal, error) {
	if principal := middleware.GetPrincipal(p.Context); principal != nil {
		return principal, nil
	}
	return nil, errUnauthenticated
}

// queryError renders a failure as a top-level GraphQL error.
func queryError(ctx context.Context, err error) error {
	if errors.Is(err, authz.ErrUnauthenticated) {
		return errUnauthenticated
	}
	if ve, ok := core.AsValidationError(err); ok {
		return errors.New(ve.Error())
	}
	if errors.Is(err, core.ErrNotFound) {
		return errors.New("not found")
	}
	if appErr, ok := core.IsAppError(err); ok && appErr.StatusCode < http.StatusInternalServerError {
		if authz.IsDenial(err) {
			core.AuthorizationDenialsTotal.WithLabelValues(authz.Reason(err)).Inc()
		}
		return errors.New(appErr.Message)
	}

	slog.ErrorContext(ctx, "graphql resolver failed", "error", err)
	return errInternal
}

// userErrors turns a failure the client can act on into payload errors.
// Anything else comes back as a GraphQL error.
func userErrors(ctx context.Context, err error) ([]FieldError, error) {
	if errors.Is(err, authz.ErrUnauthenticated) {
		return nil, errUnauthenticated
	}
	if ve, ok := core.AsValidationError(err); ok {
		return fieldErrors(ve), nil
	}
	if errors.Is(err, core.ErrNotFound) {
		return []FieldError{{Field: "id", Message: "not found"}}, nil
	}
	if appErr, ok := core.IsAppError(err); ok && appErr.StatusCode < http.StatusInternalServerError {
		if authz.IsDenial(err) {
			core.AuthorizationDenialsTotal.WithLabelValues(authz.Reason(err)).Inc()
		}
		return []FieldError{{Field: "base", Message: appErr.Message}}, nil
	}

	slog.ErrorContext(ctx, "graphql mutation failed", "error", err)
	return nil, errInternal
}

func fieldErrors(ve *core.ValidationError) []FieldError {
	out := make([]FieldError, 0, len(ve.Fields))
	for field, msg := range ve.Fields {
		out = append(out, FieldError{Field: field, Message: msg})
	}
	slices.SortFunc(out, func(a, b FieldError) int {
		switch {
		case a.Field < b.Field:
			return -1
		case a.Field > b.Field:
			return 1
		}
		return 0
	})
	return out
}

// payload builds a mutation result carrying value under key.
func payload(ctx context.Context, key string, value any, err error) (any, error) {
	if err != nil {
		errs, gqlErr := userErrors(ctx, err)
		if gqlErr != nil {
			return nil, gqlErr
		}
		return map[string]any{key: nil, "errors": errs}, nil
	}
	return map[string]any{key: value, "errors": []FieldError{}}, nil
}

func success(ctx context.Context, err error) (any, error) {
	if err != nil {
		errs, gqlErr := userErrors(ctx, err)
		if gqlErr != nil {
			return nil, gqlErr
		}
		return map[string]any{"success": false, "errors": errs}, nil
	}
	return map[string]any{"success": true, "errors": []FieldError{}}, nil
}
