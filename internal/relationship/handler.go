// AngelaMos | 2026
// handler.go

package relationship

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/middleware"
)

// Handler leaves per-record checks to the service; routes only gate the
// console section.
type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validator: core.NewValidator()}
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/relationships", func(r chi.Router) {
		r.Use(middleware.RequireNavigation(authz.SectionRelationships))

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{relationshipID}", h.Get)
		r.Put("/{relationshipID}", h.Update)
		r.Delete("/{relationshipID}", h.Delete)
	})

	r.Route("/family-members", func(r chi.Router) {
		r.Use(middleware.RequireNavigation(authz.SectionFamily))

		r.Get("/", h.ListFamilyMembers)
		r.Post("/", h.CreateFamilyMember)
		r.Get("/{familyMemberID}", h.GetFamilyMember)
		r.Put("/{familyMemberID}", h.UpdateFamilyMember)
		r.Delete("/{familyMemberID}", h.DeleteFamilyMember)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rels, err := h.service.List(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		middleware.WriteError(w, r, err, "relationship")
		return
	}
	core.OK(w, ToRelationshipResponseList(rels))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	rel, err := h.service.Get(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "relationshipID"),
	)
	if err != nil {
		middleware.WriteError(w, r, err, "relationship")
		return
	}
	core.OK(w, ToRelationshipResponse(rel))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRelationshipRequest
	if !h.decode(w, r, &req) {
		return
	}

	rel, err := h.service.Create(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		middleware.WriteError(w, r, err, "relationship")
		return
	}
	core.Created(w, ToRelationshipResponse(rel))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateRelationshipRequest
	if !h.decode(w, r, &req) {
		return
	}

	rel, err := h.service.Update(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "relationshipID"),
		req,
	)
	if err != nil {
		middleware.WriteError(w, r, err, "relationship")
		return
	}
	core.OK(w, ToRelationshipResponse(rel))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.service.Delete(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "relationshipID"),
	)
	if err != nil {
		middleware.WriteError(w, r, err, "relationship")
		return
	}
	core.NoContent(w)
}

func (h *Handler) ListFamilyMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListFamilyMembers(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		middleware.WriteError(w, r, err, "family member")
		return
	}
	core.OK(w, ToFamilyMemberResponseList(members))
}

func (h *Handler) GetFamilyMember(w http.ResponseWriter, r *http.Request) {
	f, err := h.service.GetFamilyMember(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "familyMemberID"),
	)
	if err != nil {
		middleware.WriteError(w, r, err, "family member")
		return
	}
	core.OK(w, ToFamilyMemberResponse(f))
}

func (h *Handler) CreateFamilyMember(w http.ResponseWriter, r *http.Request) {
	var req CreateFamilyMemberRequest
	if !h.decode(w, r, &req) {
		return
	}

	f, err := h.service.CreateFamilyMember(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		middleware.WriteError(w, r, err, "family member")
		return
	}
	core.Created(w, ToFamilyMemberResponse(f))
}

func (h *Handler) UpdateFamilyMember(w http.ResponseWriter, r *http.Request) {
	var req UpdateFamilyMemberRequest
	if !h.decode(w, r, &req) {
		return
	}

	f, err := h.service.UpdateFamilyMember(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "familyMemberID"),
		req,
	)
	if err != nil {
		middleware.WriteError(w, r, err, "family member")
		return
	}
	core.OK(w, ToFamilyMemberResponse(f))
}

func (h *Handler) DeleteFamilyMember(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteFamilyMember(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "familyMemberID"),
	)
	if err != nil {
		middleware.WriteError(w, r, err, "family member")
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
