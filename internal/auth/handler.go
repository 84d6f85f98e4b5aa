// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts the API auth surface.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Post("/confirm", h.Confirm)
		r.Post("/password/forgot", h.RequestPasswordReset)
		r.Post("/password/reset", h.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Get("/me", h.Me)
			r.Post("/logout", h.Logout)
			r.Get("/tokens", h.ListTokens)
			r.Delete("/tokens/{tokenID}", h.RevokeToken)
		})
	})
}

// RegisterConsoleRoutes mounts session and spoof endpoints for the admin
// console.
func (h *Handler) RegisterConsoleRoutes(
	r chi.Router,
	session func(http.Handler) http.Handler,
) {
	r.Post("/session", h.ConsoleLogin)
	r.Delete("/session", h.ConsoleLogout)

	r.Group(func(r chi.Router) {
		r.Use(session)
		r.Get("/session", h.Session)
		r.With(middleware.RequireRealAdmin).Post("/spoof/{userID}", h.StartSpoof)
		r.Delete("/spoof", h.StopSpoof)
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		core.ValidationFailed(w, err)
		return false
	}
	return true
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		core.WriteError(w, err, "user")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		core.WriteError(w, err, "user")
		return
	}

	core.Created(w, ToUserResponse(user))
}

func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.service.Confirm(r.Context(), req.Token)
	if err != nil {
		core.WriteError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		core.WriteError(w, err, "user")
		return
	}

	core.NoContent(w)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Me(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.WriteError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(user))
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())
	if id == nil {
		core.Unauthorized(w, "")
		return
	}

	if err := h.service.Logout(r.Context(), id.TokenHash); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListTokens(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())
	if id == nil {
		core.Unauthorized(w, "")
		return
	}

	tokens, err := h.service.ListTokens(r.Context(), id.Real.UserID, id.TokenHash)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, tokens)
}

func (h *Handler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	tokenID := chi.URLParam(r, "tokenID")

	err := h.service.RevokeToken(r.Context(), middleware.GetUserID(r.Context()), tokenID)
	if err != nil {
		core.WriteError(w, err, "token")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ConsoleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.ConsoleLogin(r.Context(), w, req)
	if err != nil {
		core.WriteError(w, err, "user")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) ConsoleLogout(w http.ResponseWriter, r *http.Request) {
	h.service.ConsoleLogout(w)
	core.NoContent(w)
}

func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	id := middleware.GetIdentity(r.Context())
	if id == nil {
		core.Unauthorized(w, "")
		return
	}

	resp := SessionResponse{
		User:     principalResponse(id.Real),
		Spoofing: id.Spoofing,
	}
	if id.Spoofing {
		effective := principalResponse(id.Effective)
		resp.Effective = &effective
	}

	core.OK(w, resp)
}

func (h *Handler) StartSpoof(w http.ResponseWriter, r *http.Request) {
	target, err := h.service.StartSpoof(
		r.Context(),
		w,
		middleware.GetRealPrincipal(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		core.WriteError(w, err, "user")
		return
	}

	core.OK(w, ToUserResponse(target))
}

func (h *Handler) StopSpoof(w http.ResponseWriter, r *http.Request) {
	if err := h.service.StopSpoof(w, middleware.GetRealPrincipal(r.Context())); err != nil {
		core.WriteError(w, err, "user")
		return
	}

	core.NoContent(w)
}
