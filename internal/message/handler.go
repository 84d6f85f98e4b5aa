// AngelaMos | 2026
// handler.go

package message

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mentorcamp/backend/internal/authz"
	"github.com/mentorcamp/backend/internal/core"
	"github.com/mentorcamp/backend/internal/middleware"
)

type Handler struct {
	service   *Service
	feed      *Feed
	validator *validator.Validate
}

func NewHandler(service *Service, feed *Feed) *Handler {
	return &Handler{service: service, feed: feed, validator: core.NewValidator()}
}

// RegisterAdminRoutes mounts the console inbox behind its navigation gate.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/messages", func(r chi.Router) {
		r.Use(middleware.RequireNavigation(authz.SectionMessages))
		h.mount(r)
	})
}

// RegisterAPIRoutes mounts the same operations for bearer clients plus the
// live feed.
func (h *Handler) RegisterAPIRoutes(r chi.Router) {
	r.Route("/messages", h.mount)
	r.Get("/inbox/ws", h.feed.ServeHTTP)
}

func (h *Handler) mount(r chi.Router) {
	r.Get("/", h.Inbox)
	r.Post("/", h.Send)
	r.Get("/unread", h.Unread)
	r.Get("/{messageID}/thread", h.Thread)
	r.Post("/{messageID}/reply", h.Reply)
	r.Post("/{messageID}/read", h.MarkRead)
	r.Post("/{messageID}/archive", h.Archive)
	r.Delete("/{messageID}/archive", h.Unarchive)
}

func (h *Handler) Inbox(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := InboxParams{Archived: q.Get("archived") == "true"}
	params.Limit, _ = strconv.Atoi(q.Get("limit"))
	params.Offset, _ = strconv.Atoi(q.Get("offset"))

	items, err := h.service.Inbox(r.Context(), middleware.GetPrincipal(r.Context()), params)
	if err != nil {
		middleware.WriteError(w, r, err, "message")
		return
	}
	core.OK(w, ToInboxResponseList(items))
}

func (h *Handler) Unread(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.UnreadCount(r.Context(), middleware.GetPrincipal(r.Context()))
	if err != nil {
		middleware.WriteError(w, r, err, "message")
		return
	}
	core.OK(w, map[string]int{"unread": count})
}

func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if !h.decode(w, r, &req) {
		return
	}

	m, err := h.service.Send(r.Context(), middleware.GetPrincipal(r.Context()), req)
	if err != nil {
		middleware.WriteError(w, r, err, "message")
		return
	}
	core.Created(w, ToMessageResponse(m))
}

func (h *Handler) Reply(w http.ResponseWriter, r *http.Request) {
	var req ReplyRequest
	if !h.decode(w, r, &req) {
		return
	}

	m, err := h.service.Reply(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "messageID"),
		req,
	)
	if err != nil {
		middleware.WriteError(w, r, err, "message")
		return
	}
	core.Created(w, ToMessageResponse(m))
}

func (h *Handler) Thread(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.Thread(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "messageID"),
	)
	if err != nil {
		middleware.WriteError(w, r, err, "message")
		return
	}
	core.OK(w, ToMessageResponseList(messages))
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	err := h.service.MarkRead(r.Context(), middleware.GetPrincipal(r.Context()), chi.URLParam(r, "messageID"))
	if err != nil {
		middleware.WriteError(w, r, err, "message")
		return
	}
	core.NoContent(w)
}

func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, true)
}

func (h *Handler) Unarchive(w http.ResponseWriter, r *http.Request) {
	h.setArchived(w, r, false)
}

func (h *Handler) setArchived(w http.ResponseWriter, r *http.Request, archived bool) {
	err := h.service.Archive(
		r.Context(),
		middleware.GetPrincipal(r.Context()),
		chi.URLParam(r, "messageID"),
		archived,
	)
	if err != nil {
		middleware.WriteError(w, r, err, "message")
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
