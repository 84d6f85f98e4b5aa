// AngelaMos | 2026
// handler.go

package team

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/media"
	"github.com/mentorcamp/backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validator: core.NewValidator()}
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	view := middleware.RequirePermission(authz.ActionView, authz.ResourceTeam)
	edit := middleware.RequirePermission(authz.ActionEdit, authz.ResourceTeam)

	r.Route("/teams", func(r chi.Router) {
		r.Use(middleware.RequireNavigation(authz.SectionTeams))

		r.With(view).Get("/", h.List)
		r.With(middleware.RequirePermission(authz.ActionCreate, authz.ResourceTeam)).Post("/", h.Create)

		r.Route("/{teamID}", func(r chi.Router) {
			r.With(view).Get("/", h.Get)
			r.With(edit).Put("/", h.Update)
			r.With(middleware.RequirePermission(authz.ActionDelete, authz.ResourceTeam)).Delete("/", h.Delete)
			r.With(edit).Post("/add_member", h.AddMember)
			r.With(edit).Post("/remove_member", h.RemoveMember)
			r.With(edit).Post("/icon", h.UploadIcon)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	teams, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, ToTeamResponseList(teams))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "teamID")

	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.WriteError(w, err, "team")
		return
	}

	members, err := h.service.Members(r.Context(), id)
	if err != nil {
		core.WriteError(w, err, "team")
		return
	}

	core.OK(w, TeamDetailResponse{TeamResponse: ToTeamResponse(t), Members: members})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req TeamRequest
	if !h.decode(w, r, &req) {
		return
	}

	t, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.WriteError(w, err, "team")
		return
	}
	core.Created(w, ToTeamResponse(t))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req TeamRequest
	if !h.decode(w, r, &req) {
		return
	}

	t, err := h.service.Update(r.Context(), chi.URLParam(r, "teamID"), req)
	if err != nil {
		core.WriteError(w, err, "team")
		return
	}
	core.OK(w, ToTeamResponse(t))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "teamID")); err != nil {
		core.WriteError(w, err, "team")
		return
	}
	core.NoContent(w)
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	var req MemberRequest
	if !h.decode(w, r, &req) {
		return
	}

	t, err := h.service.AddMember(r.Context(), chi.URLParam(r, "teamID"), req.UserID)
	if err != nil {
		core.WriteError(w, err, "team")
		return
	}
	core.OK(w, ToTeamResponse(t))
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	var req MemberRequest
	if !h.decode(w, r, &req) {
		return
	}

	t, err := h.service.RemoveMember(r.Context(), chi.URLParam(r, "teamID"), req.UserID)
	if err != nil {
		core.WriteError(w, err, "team")
		return
	}
	core.OK(w, ToTeamResponse(t))
}

func (h *Handler) UploadIcon(w http.ResponseWriter, r *http.Request) {
	file, err := media.FormImage(w, r)
	if err != nil {
		core.WriteError(w, err, "team")
		return
	}
	defer file.Close()

	t, err := h.service.UploadIcon(r.Context(), chi.URLParam(r, "teamID"), file)
	if err != nil {
		core.WriteError(w, err, "team")
		return
	}
	core.OK(w, ToTeamResponse(t))
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
