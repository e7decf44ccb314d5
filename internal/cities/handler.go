package cities

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/huertohogar/huertohogar/internal/auth"
	"github.com/huertohogar/huertohogar/internal/platform/httpx"
)

// Handler manages city endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   auth.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers city routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(auth.RoleUser, auth.RoleAdmin))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Get("/region/{regionID}", h.listByRegion)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(auth.RoleAdmin))
		r.Delete("/{id}", h.delete)
	})
}

type cityRequest struct {
	Name     string `json:"name"`
	RegionID int64  `json:"region_id"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list cities", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []City{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) listByRegion(w http.ResponseWriter, r *http.Request) {
	regionID, err := strconv.ParseInt(chi.URLParam(r, "regionID"), 10, 64)
	if err != nil || regionID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "region id must be a positive integer")
		return
	}
	list, err := h.service.ListByRegion(r.Context(), regionID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []City{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	city, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, city)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req cityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	city, err := h.service.Create(r.Context(), req.Name, req.RegionID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, city)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req cityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	city, err := h.service.Update(r.Context(), id, req.Name, req.RegionID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, city)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "id must be a positive integer")
		return 0, false
	}
	return id, true
}
