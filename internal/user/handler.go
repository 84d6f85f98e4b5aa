// AngelaMos | 2026
// handler.go

package user

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/media"
	"github.com/mentorcamp/backend/internal/middleware"
	"github.com/mentorcamp/backend/internal/profile"
)

type Handler struct {
	service   *Service
	profiles  *profile.Service
	validator *validator.Validate
}

func NewHandler(service *Service, profiles *profile.Service) *Handler {
	return &Handler{
		service:   service,
		profiles:  profiles,
		validator: core.NewValidator(),
	}
}

// RegisterAdminRoutes mounts user management for the console. The caller
// has already applied session auth.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	view := middleware.RequirePermission(authz.ActionView, authz.ResourceUser)
	create := middleware.RequirePermission(authz.ActionCreate, authz.ResourceUser)
	edit := middleware.RequirePermission(authz.ActionEdit, authz.ResourceUser)

	r.Route("/users", func(r chi.Router) {
		r.Use(middleware.RequireNavigation(authz.SectionUsers))

		r.With(view).Get("/", h.List)
		r.With(view).Get("/search", h.Search)
		r.With(create).Post("/", h.Create)

		r.Route("/{userID}", func(r chi.Router) {
			r.With(view).Get("/", h.Get)
			r.With(edit).Patch("/", h.Update)
			r.With(middleware.RequireSuperuser).Delete("/", h.Delete)
			r.With(edit).Post("/activate", h.Activate)
			r.With(edit).Post("/deactivate", h.Deactivate)
			r.With(edit).Post("/avatar", h.UploadAvatar)
			r.With(edit).Put("/mentor", h.AssignMentor)
			r.With(middleware.RequireSuperuser).Put("/roles/{role}", h.GrantRole)
			r.With(middleware.RequireSuperuser).Delete("/roles/{role}", h.RevokeRole)
			r.With(middleware.RequireRealAdmin).Put("/staff-level", h.SetStaffLevel)
		})
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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListUsersParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
		Search:   q.Get("search"),
	}
	if role := q.Get("role"); role != "" {
		parsed, ok := authz.ParseRole(role)
		if !ok {
			core.ValidationFailed(w, core.NewValidationError("role", "is invalid"))
			return
		}
		params.Role = parsed
	}
	if active := q.Get("active"); active != "" {
		v, err := strconv.ParseBool(active)
		if err != nil {
			core.ValidationFailed(w, core.NewValidationError("active", "must be true or false"))
			return
		}
		params.Active = &v
	}
	params.Normalize()

	details, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToUserResponseList(details), params.Page, params.PageSize, total)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	hits, err := h.service.Search(r.Context(), r.URL.Query().Get("q"), parseIntQuery(r, "limit", 20))
	if err != nil {
		middleware.WriteError(w, r, err, "user")
		return
	}
	core.OK(w, hits)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	d, err := h.service.Create(r.Context(), middleware.GetRealPrincipal(r.Context()), req)
	if err != nil {
		middleware.WriteError(w, r, err, "user")
		return
	}

	core.Created(w, ToUserResponse(d))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		middleware.WriteError(w, r, err, "user")
		return
	}
	core.OK(w, ToUserResponse(d))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	d, err := h.service.Update(
		r.Context(),
		middleware.GetRealPrincipal(r.Context()),
		chi.URLParam(r, "userID"),
		req,
	)
	if err != nil {
		middleware.WriteError(w, r, err, "user")
		return
	}
	core.OK(w, ToUserResponse(d))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		middleware.GetRealPrincipal(r.Context()),
		chi.URLParam(r, "userID"),
	)
	if err != nil {
		middleware.WriteError(w, r, err, "user")
		return
	}
	core.NoContent(w)
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	d, err := h.service.SetActive(
		r.Context(),
		middleware.GetRealPrincipal(r.Context()),
		chi.URLParam(r, "userID"),
		active,
	)
	if err != nil {
		middleware.WriteError(w, r, err, "user")
		return
	}
	core.OK(w, ToUserResponse(d))
}

func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	file, err := media.FormImage(w, r)
	if err != nil {
		middleware.WriteError(w, r, err, "user")
		return
	}
	defer file.Close()

	d, err := h.service.UploadAvatar(
		r.Context(),
		middleware.GetRealPrincipal(r.Context()),
		chi.URLParam(r, "userID"),
		file,
	)
	if err != nil {
		middleware.WriteError(w, r, err, "user")
		return
	}
	core.OK(w, ToUserResponse(d))
}

func (h *Handler) AssignMentor(w http.ResponseWriter, r *http.Request) {
	var req AssignMentorRequest
	if !h.decode(w, r, &req) {
		return
	}

	userID := chi.URLParam(r, "userID")
	if _, err := h.profiles.AssignMentor(r.Context(), userID, req.MentorUserID); err != nil {
		core.WriteError(w, err, "mentee profile")
		return
	}
	h.respondUser(w, r, userID)
}

func (h *Handler) GrantRole(w http.ResponseWriter, r *http.Request) {
	role, ok := h.roleParam(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "userID")
	if _, err := h.profiles.Grant(r.Context(), userID, role); err != nil {
		middleware.WriteError(w, r, err, "user")
		return
	}
	h.respondUser(w, r, userID)
}

func (h *Handler) RevokeRole(w http.ResponseWriter, r *http.Request) {
	role, ok := h.roleParam(w, r)
	if !ok {
		return
	}

	userID := chi.URLParam(r, "userID")
	if _, err := h.profiles.Revoke(r.Context(), userID, role); err != nil {
		middleware.WriteError(w, r, err, "user")
		return
	}
	h.respondUser(w, r, userID)
}

func (h *Handler) SetStaffLevel(w http.ResponseWriter, r *http.Request) {
	var req StaffLevelRequest
	if !h.decode(w, r, &req) {
		return
	}

	userID := chi.URLParam(r, "userID")
	if _, err := h.profiles.SetStaffLevel(r.Context(), userID, req.PermissionLevel); err != nil {
		core.WriteError(w, err, "staff profile")
		return
	}
	h.respondUser(w, r, userID)
}

// roleParam rejects admin and staff changes from anyone who is not a real
// admin.
func (h *Handler) roleParam(w http.ResponseWriter, r *http.Request) (authz.Role, bool) {
	role, ok := authz.ParseRole(chi.URLParam(r, "role"))
	if !ok {
		core.NotFound(w, "role")
		return "", false
	}

	if role == authz.RoleAdmin || role == authz.RoleStaff {
		if err := authz.RequireAdmin(middleware.GetRealPrincipal(r.Context())); err != nil {
			middleware.Deny(w, r, err)
			return "", false
		}
	}
	return role, true
}

func (h *Handler) respondUser(w http.ResponseWriter, r *http.Request, userID string) {
	d, err := h.service.Get(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, r, err, "user")
		return
	}
	core.OK(w, ToUserResponse(d))
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}
