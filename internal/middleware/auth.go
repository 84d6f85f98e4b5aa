// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
)

const IdentityKey contextKey = "identity"

// Identity is the resolved caller of one request. Real is who authenticated;
// Effective is who the request acts as, which differs only while an admin
// is spoofing.
type Identity struct {
	Real      *authz.Principal
	Effective *authz.Principal
	Spoofing  bool
	// TokenHash is set on the API path so logout can revoke the presented
	// credential.
	TokenHash string
}

// TokenAuthenticator resolves a raw bearer token. It returns an error
// wrapping core.ErrUnauthorized when the token is unknown or expired.
type TokenAuthenticator interface {
	AuthenticateToken(ctx context.Context, raw string) (*Identity, error)
}

// SessionResolver resolves the console session carried by the request.
type SessionResolver interface {
	ResolveSession(w http.ResponseWriter, r *http.Request) (*Identity, error)
}

// BearerAuth requires a valid API token.
func BearerAuth(tokens TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ExtractToken(r)
			if raw == "" {
				Deny(w, r, authz.ErrUnauthenticated)
				return
			}

			id, err := tokens.AuthenticateToken(r.Context(), raw)
			if err != nil {
				handleAuthError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// OptionalBearer attaches an identity when a valid token is presented and
// otherwise lets the request through anonymous. GraphQL decides per field.
func OptionalBearer(tokens TokenAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ExtractToken(r)
			if raw != "" {
				id, err := tokens.AuthenticateToken(r.Context(), raw)
				if err == nil {
					r = r.WithContext(WithIdentity(r.Context(), id))
				} else if !errors.Is(err, core.ErrUnauthorized) {
					slog.WarnContext(r.Context(), "token lookup failed",
						"error", err,
					)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SessionAuth requires a console session cookie.
func SessionAuth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := sessions.ResolveSession(w, r)
			if err != nil {
				handleAuthError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireNavigation gates a console section on the effective user.
func RequireNavigation(section authz.Section) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authz.RequireNavigation(GetPrincipal(r.Context()), section); err != nil {
				Deny(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission gates a route on a resource action for the effective user.
func RequirePermission(
	action authz.Action,
	resource authz.Resource,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := authz.RequirePermission(GetPrincipal(r.Context()), action, resource)
			if err != nil {
				Deny(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func RequireSuperuser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := authz.RequireSuperuser(GetPrincipal(r.Context())); err != nil {
			Deny(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRealAdmin checks the authenticated user, ignoring any spoof.
func RequireRealAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := authz.RequireAdmin(GetRealPrincipal(r.Context())); err != nil {
			Deny(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

// Deny renders an authorization failure and counts it.
func Deny(w http.ResponseWriter, r *http.Request, err error) {
	reason := authz.Reason(err)
	core.AuthorizationDenialsTotal.WithLabelValues(reason).Inc()

	slog.DebugContext(r.Context(), "request denied",
		"reason", reason,
		"path", r.URL.Path,
		"user_id", GetUserID(r.Context()),
	)

	if appErr, ok := core.IsAppError(err); ok {
		core.JSONError(w, appErr)
		return
	}
	core.JSONError(w, core.ForbiddenError(""))
}

// WriteError renders policy refusals through Deny and everything else
// through core.WriteError.
func WriteError(w http.ResponseWriter, r *http.Request, err error, resource string) {
	if authz.IsDenial(err) {
		Deny(w, r, err)
		return
	}
	core.WriteError(w, err, resource)
}

func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized),
		errors.Is(err, core.ErrTokenInvalid),
		errors.Is(err, core.ErrTokenExpired):
		Deny(w, r, authz.ErrUnauthenticated)
	default:
		core.InternalServerError(w, err)
	}
}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}

func GetIdentity(ctx context.Context) *Identity {
	if id, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return id
	}
	return nil
}

// GetPrincipal returns the effective user, or nil when anonymous.
func GetPrincipal(ctx context.Context) *authz.Principal {
	if id := GetIdentity(ctx); id != nil {
		return id.Effective
	}
	return nil
}

func GetRealPrincipal(ctx context.Context) *authz.Principal {
	if id := GetIdentity(ctx); id != nil {
		return id.Real
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil {
		return p.UserID
	}
	return ""
}

func IsAuthenticated(ctx context.Context) bool {
	return GetPrincipal(ctx) != nil
}
