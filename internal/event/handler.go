// AngelaMos | 2026
// handler.go

package event

import (
	"encoding/json"
	"net/http"
	"time"

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
	r.Route("/event-types", func(r chi.Router) {
		r.Use(middleware.RequireNavigation(authz.SectionEventTypes))

		view := middleware.RequirePermission(authz.ActionView, authz.ResourceEventType)
		r.With(view).Get("/", h.ListTypes)
		r.With(middleware.RequirePermission(authz.ActionCreate, authz.ResourceEventType)).Post("/", h.CreateType)
		r.With(view).Get("/{typeID}", h.GetType)
		r.With(middleware.RequirePermission(authz.ActionEdit, authz.ResourceEventType)).Put("/{typeID}", h.UpdateType)
		r.With(middleware.RequirePermission(authz.ActionDelete, authz.ResourceEventType)).Delete("/{typeID}", h.DeleteType)
	})

	r.Route("/events", func(r chi.Router) {
		r.Use(middleware.RequireNavigation(authz.SectionEvents))

		view := middleware.RequirePermission(authz.ActionView, authz.ResourceEvent)
		edit := middleware.RequirePermission(authz.ActionEdit, authz.ResourceEvent)
		viewLogs := middleware.RequirePermission(authz.ActionView, authz.ResourceEventLog)

		r.With(view).Get("/", h.List)
		r.With(middleware.RequirePermission(authz.ActionCreate, authz.ResourceEvent)).Post("/", h.Create)
		r.With(viewLogs).Get("/points/{userID}", h.Points)

		r.Route("/{eventID}", func(r chi.Router) {
			r.With(view).Get("/", h.Get)
			r.With(edit).Put("/", h.Update)
			r.With(middleware.RequirePermission(authz.ActionDelete, authz.ResourceEvent)).Delete("/", h.Delete)
			r.With(edit).Post("/image", h.UploadImage)
			r.With(viewLogs).Get("/logs", h.ListLogs)
			r.With(middleware.RequirePermission(authz.ActionCreate, authz.ResourceEventLog)).Post("/logs", h.AddLog)
			r.With(middleware.RequirePermission(authz.ActionDelete, authz.ResourceEventLog)).Delete("/logs/{logID}", h.DeleteLog)
		})
	})
}

func (h *Handler) ListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListTypes(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, ToEventTypeResponseList(types))
}

func (h *Handler) GetType(w http.ResponseWriter, r *http.Request) {
	et, err := h.service.GetType(r.Context(), chi.URLParam(r, "typeID"))
	if err != nil {
		core.WriteError(w, err, "event type")
		return
	}
	core.OK(w, ToEventTypeResponse(et))
}

func (h *Handler) CreateType(w http.ResponseWriter, r *http.Request) {
	var req EventTypeRequest
	if !h.decode(w, r, &req) {
		return
	}

	et, err := h.service.CreateType(r.Context(), req)
	if err != nil {
		core.WriteError(w, err, "event type")
		return
	}
	core.Created(w, ToEventTypeResponse(et))
}

func (h *Handler) UpdateType(w http.ResponseWriter, r *http.Request) {
	var req EventTypeRequest
	if !h.decode(w, r, &req) {
		return
	}

	et, err := h.service.UpdateType(r.Context(), chi.URLParam(r, "typeID"), req)
	if err != nil {
		core.WriteError(w, err, "event type")
		return
	}
	core.OK(w, ToEventTypeResponse(et))
}

func (h *Handler) DeleteType(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteType(r.Context(), chi.URLParam(r, "typeID")); err != nil {
		core.WriteError(w, err, "event type")
		return
	}
	core.NoContent(w)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := ListParams{TypeID: q.Get("type_id")}

	for key, dst := range map[string]**time.Time{"from": &params.From, "to": &params.To} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			core.ValidationFailed(w, core.NewValidationError(key, "must be a date like 2026-03-01"))
			return
		}
		*dst = &t
	}

	events, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	core.OK(w, ToEventResponseList(events))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	e, err := h.service.Get(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		core.WriteError(w, err, "event")
		return
	}
	core.OK(w, ToEventResponse(e))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !h.decode(w, r, &req) {
		return
	}

	e, err := h.service.Create(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		core.WriteError(w, err, "event")
		return
	}
	core.Created(w, ToEventResponse(e))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !h.decode(w, r, &req) {
		return
	}

	e, err := h.service.Update(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "eventID"),
		req,
	)
	if err != nil {
		middleware.WriteError(w, r, err, "event")
		return
	}
	core.OK(w, ToEventResponse(e))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "eventID")); err != nil {
		core.WriteError(w, err, "event")
		return
	}
	core.NoContent(w)
}

func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	file, err := media.FormImage(w, r)
	if err != nil {
		core.WriteError(w, err, "event")
		return
	}
	defer file.Close()

	e, err := h.service.UploadImage(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "eventID"),
		file,
	)
	if err != nil {
		middleware.WriteError(w, r, err, "event")
		return
	}
	core.OK(w, ToEventResponse(e))
}

func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.service.ListLogs(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		core.WriteError(w, err, "event")
		return
	}
	core.OK(w, ToEventLogResponseList(logs))
}

func (h *Handler) AddLog(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if !h.decode(w, r, &req) {
		return
	}

	l, err := h.service.AddLog(r.Context(), chi.URLParam(r, "eventID"), req.UserID, req.LogType)
	if err != nil {
		core.WriteError(w, err, "event")
		return
	}
	core.Created(w, ToEventLogResponse(l))
}

func (h *Handler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	err := h.service.DeleteLog(r.Context(), chi.URLParam(r, "eventID"), chi.URLParam(r, "logID"))
	if err != nil {
		core.WriteError(w, err, "event log")
		return
	}
	core.NoContent(w)
}

// Points reports the user's total for ?season_id=, or for the current
// season when omitted. Data is null when no season is running.
func (h *Handler) Points(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var (
		p   *Points
		err error
	)
	if seasonID := r.URL.Query().Get("season_id"); seasonID != "" {
		p, err = h.service.PointsFor(r.Context(), userID, seasonID)
	} else {
		p, err = h.service.CurrentPoints(r.Context(), userID)
	}
	if err != nil {
		core.WriteError(w, err, "season")
		return
	}

	if p == nil {
		core.OK(w, nil)
		return
	}
	core.OK(w, ToPointsResponse(p))
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
