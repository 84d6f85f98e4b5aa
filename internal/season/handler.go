// AngelaMos | 2026
// handler.go

package season

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
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
	r.Route("/seasons", func(r chi.Router) {
		r.Use(middleware.RequireNavigation(authz.SectionSeasons))

		r.With(middleware.RequirePermission(authz.ActionView, authz.ResourceSeason)).Get("/", h.List)
		r.With(middleware.RequirePermission(authz.ActionView, authz.ResourceSeason)).Get("/current", h.Current)
		r.With(middleware.RequirePermission(authz.ActionCreate, authz.ResourceSeason)).Post("/", h.Create)
		r.With(middleware.RequirePermission(authz.ActionView, authz.ResourceSeason)).Get("/{seasonID}", h.Get)
		r.With(middleware.RequirePermission(authz.ActionEdit, authz.ResourceSeason)).Put("/{seasonID}", h.Update)
		r.With(middleware.RequirePermission(authz.ActionDelete, authz.ResourceSeason)).Delete("/{seasonID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	seasons, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, ToSeasonResponseList(seasons))
}

// Current answers with a null season when none contains today.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	s, ok, err := h.service.Current(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	var resp CurrentSeasonResponse
	if ok {
		sr := ToSeasonResponse(s)
		resp.Season = &sr
	}
	core.OK(w, resp)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Get(r.Context(), chi.URLParam(r, "seasonID"))
	if err != nil {
		core.WriteError(w, err, "season")
		return
	}
	core.OK(w, ToSeasonResponse(s))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req SeasonRequest
	if !h.decode(w, r, &req) {
		return
	}

	s, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.WriteError(w, err, "season")
		return
	}
	core.Created(w, ToSeasonResponse(s))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req SeasonRequest
	if !h.decode(w, r, &req) {
		return
	}

	s, err := h.service.Update(r.Context(), chi.URLParam(r, "seasonID"), req)
	if err != nil {
		core.WriteError(w, err, "season")
		return
	}
	core.OK(w, ToSeasonResponse(s))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "seasonID")); err != nil {
		core.WriteError(w, err, "season")
		return
	}
	core.NoContent(w)
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
