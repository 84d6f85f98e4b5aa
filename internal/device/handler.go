// AngelaMos | 2026
// handler.go

package device

import (
	"encoding/json"
	"net/http"
	"net/url"

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
	return &Handler{service: service, validator: core.NewValidator()}
}

func (h *Handler) RegisterAPIRoutes(r chi.Router) {
	r.Route("/devices", func(r chi.Router) {
		r.Post("/", h.Register)
		r.Delete("/{pushToken}", h.Unregister)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	d, err := h.service.Register(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		middleware.WriteError(w, r, err, "device")
		return
	}
	core.Created(w, ToDeviceResponse(d))
}

func (h *Handler) Unregister(w http.ResponseWriter, r *http.Request) {
	token, err := url.PathUnescape(chi.URLParam(r, "pushToken"))
	if err != nil || token == "" {
		core.BadRequest(w, "invalid push token")
		return
	}

	if err := h.service.Unregister(r.Context(), middleware.GetPrincipal(r.Context()), token); err != nil {
		middleware.WriteError(w, r, err, "device")
		return
	}
	core.NoContent(w)
}
