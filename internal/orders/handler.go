package orders

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/huertohogar/huertohogar/internal/auth"
	"github.com/huertohogar/huertohogar/internal/platform/httpx"
)

const dateLayout = "2006-01-02"

// Handler manages order endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   auth.Middleware
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard auth.Middleware) *Handler {
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers order routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(auth.RoleUser, auth.RoleAdmin))
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Get("/user/{userID}", h.listByUser)
		r.Post("/", h.create)
		r.Put("/{id}", h.update)
		r.Patch("/{id}", h.patch)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(auth.RoleAdmin))
		r.Delete("/{id}", h.delete)
	})
}

type orderRequest struct {
	UserID          int64   `json:"user_id"`
	OrderDate       string  `json:"order_date"`
	Status          string  `json:"status"`
	Total           float64 `json:"total"`
	ShippingAddress string  `json:"shipping_address"`
}

type orderPatchRequest struct {
	UserID          *int64   `json:"user_id"`
	OrderDate       *string  `json:"order_date"`
	Status          *string  `json:"status"`
	Total           *float64 `json:"total"`
	ShippingAddress *string  `json:"shipping_address"`
}

type orderPayload struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"user_id"`
	OrderDate       string  `json:"order_date"`
	Status          string  `json:"status"`
	Total           float64 `json:"total"`
	ShippingAddress string  `json:"shipping_address"`
}

func toPayload(order Order) orderPayload {
	return orderPayload{
		ID:              order.ID,
		UserID:          order.UserID,
		OrderDate:       order.OrderDate.Format(dateLayout),
		Status:          order.Status,
		Total:           order.Total,
		ShippingAddress: order.ShippingAddress,
	}
}

func toPayloads(list []Order) []orderPayload {
	out := make([]orderPayload, 0, len(list))
	for _, order := range list {
		out = append(out, toPayload(order))
	}
	return out
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list orders", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPayloads(list))
}

func (h *Handler) listByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "user id must be a positive integer")
		return
	}
	list, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPayloads(list))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPayload(*order))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	input, ok := toInput(w, req)
	if !ok {
		return
	}
	order, err := h.service.Create(r.Context(), input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toPayload(*order))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req orderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	input, ok := toInput(w, req)
	if !ok {
		return
	}
	order, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPayload(*order))
}

func (h *Handler) patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req orderPatchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	patch := PatchInput{
		UserID:          req.UserID,
		Status:          req.Status,
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress,
	}
	if req.OrderDate != nil {
		date, err := time.Parse(dateLayout, *req.OrderDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "order_date must be formatted as YYYY-MM-DD")
			return
		}
		patch.OrderDate = &date
	}
	order, err := h.service.Patch(r.Context(), id, patch)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPayload(*order))
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

func toInput(w http.ResponseWriter, req orderRequest) (Input, bool) {
	input := Input{
		UserID:          req.UserID,
		Status:          req.Status,
		Total:           req.Total,
		ShippingAddress: req.ShippingAddress,
	}
	if req.OrderDate != "" {
		date, err := time.Parse(dateLayout, req.OrderDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "order_date must be formatted as YYYY-MM-DD")
			return Input{}, false
		}
		input.OrderDate = date
	}
	return input, true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "id must be a positive integer")
		return 0, false
	}
	return id, true
}
