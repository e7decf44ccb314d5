package audithttp

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/huertohogar/huertohogar/internal/audit"
	"github.com/huertohogar/huertohogar/internal/auth"
	"github.com/huertohogar/huertohogar/internal/platform/httpx"
)

// Handler exposes the audit timeline to administrators.
type Handler struct {
	logger  *slog.Logger
	service *audit.Service
	guard   auth.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *audit.Service, guard auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers audit routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(auth.RoleAdmin))
		r.Get("/", h.timeline)
	})
}

func (h *Handler) timeline(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	result, err := h.service.Timeline(r.Context(), filters)
	if err != nil {
		h.logger.Error("audit timeline", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, result)
}

func parseFilters(r *http.Request) (audit.TimelineFilters, error) {
	q := r.URL.Query()
	filters := audit.TimelineFilters{
		Entity: q.Get("entity"),
		Action: q.Get("action"),
	}
	var err error
	if filters.Page, err = intParam(q.Get("page")); err != nil {
		return filters, err
	}
	if filters.PageSize, err = intParam(q.Get("page_size")); err != nil {
		return filters, err
	}
	if actor := q.Get("actor_id"); actor != "" {
		id, err := strconv.ParseInt(actor, 10, 64)
		if err != nil {
			return filters, err
		}
		filters.ActorID = id
	}
	if from := q.Get("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return filters, err
		}
		filters.From = t
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return filters, err
		}
		filters.To = t
	}
	return filters, nil
}

func intParam(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
