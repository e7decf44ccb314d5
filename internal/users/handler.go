package users

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/huertohogar/huertohogar/internal/auth"
	"github.com/huertohogar/huertohogar/internal/platform/httpx"
	"github.com/huertohogar/huertohogar/internal/shared"
)

const birthDateLayout = "2006-01-02"

// PasswordPort is the slice of the auth service backing the password
// endpoints mounted under /users.
type PasswordPort interface {
	ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error
	ResetPassword(ctx context.Context, userID int64, newPassword string) error
}

// Handler manages user endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	passwords PasswordPort
	guard     auth.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, passwords PasswordPort, guard auth.Middleware) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		passwords: passwords,
		guard:     guard,
		validator: validator.New(),
	}
}

// MountRoutes registers user routes. Registration is public; everything else
// is gated per endpoint.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.register)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(auth.RoleUser, auth.RoleAdmin))
		r.Get("/", h.list)
		r.Put("/{id}", h.update)
		r.Patch("/{id}", h.patch)
		r.Put("/{id}/password", h.changePassword)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.guard.RequireRole(auth.RoleAdmin))
		r.Get("/{id}", h.get)
		r.Delete("/{id}", h.delete)
		r.Patch("/{id}/password/reset", h.resetPassword)
		r.Post("/{id}/promote", h.promote)
		r.Post("/{id}/demote", h.demote)
	})
}

// MountPublicRoutes registers the unauthenticated lookup endpoint.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/{id}/name", h.publicName)
}

type userPayload struct {
	ID              int64  `json:"id"`
	FirstName       string `json:"first_name"`
	MiddleName      string `json:"middle_name,omitempty"`
	PaternalSurname string `json:"paternal_surname"`
	MaternalSurname string `json:"maternal_surname"`
	RUT             string `json:"rut"`
	DV              string `json:"dv"`
	BirthDate       string `json:"birth_date"`
	RegionID        int64  `json:"region_id"`
	Address         string `json:"address"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
}

func toPayload(u *User) userPayload {
	return userPayload{
		ID:              u.ID,
		FirstName:       u.FirstName,
		MiddleName:      u.MiddleName,
		PaternalSurname: u.PaternalSurname,
		MaternalSurname: u.MaternalSurname,
		RUT:             u.RUT,
		DV:              u.DV,
		BirthDate:       u.BirthDate.Format(birthDateLayout),
		RegionID:        u.RegionID,
		Address:         u.Address,
		Email:           u.Email,
		Phone:           u.Phone,
		Role:            string(u.Role),
	}
}

type registerRequest struct {
	FirstName       string `json:"first_name" validate:"required"`
	MiddleName      string `json:"middle_name"`
	PaternalSurname string `json:"paternal_surname" validate:"required"`
	MaternalSurname string `json:"maternal_surname" validate:"required"`
	RUT             string `json:"rut" validate:"required"`
	DV              string `json:"dv" validate:"required"`
	BirthDate       string `json:"birth_date" validate:"required"`
	RegionID        int64  `json:"region_id" validate:"required"`
	Address         string `json:"address" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}
	birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "birth_date must be YYYY-MM-DD")
		return
	}
	user, err := h.service.Register(r.Context(), RegisterInput{
		FirstName:       req.FirstName,
		MiddleName:      req.MiddleName,
		PaternalSurname: req.PaternalSurname,
		MaternalSurname: req.MaternalSurname,
		RUT:             req.RUT,
		DV:              req.DV,
		BirthDate:       birthDate,
		RegionID:        req.RegionID,
		Address:         req.Address,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toPayload(user))
}

type listResponse struct {
	Users      []userPayload     `json:"users"`
	Pagination shared.Pagination `json:"pagination"`
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	list, pagination, err := h.service.List(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	payload := make([]userPayload, 0, len(list))
	for i := range list {
		payload = append(payload, toPayload(&list[i]))
	}
	httpx.JSON(w, http.StatusOK, listResponse{Users: payload, Pagination: pagination})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPayload(user))
}

func (h *Handler) publicName(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	name, err := h.service.PublicName(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"name": name})
}

type profileRequest struct {
	FirstName       string `json:"first_name" validate:"required"`
	MiddleName      string `json:"middle_name"`
	PaternalSurname string `json:"paternal_surname" validate:"required"`
	MaternalSurname string `json:"maternal_surname" validate:"required"`
	RUT             string `json:"rut" validate:"required"`
	DV              string `json:"dv" validate:"required"`
	BirthDate       string `json:"birth_date" validate:"required"`
	RegionID        int64  `json:"region_id" validate:"required"`
	Address         string `json:"address" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req profileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}
	birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "birth_date must be YYYY-MM-DD")
		return
	}
	user, err := h.service.Update(r.Context(), id, ProfileInput{
		FirstName:       req.FirstName,
		MiddleName:      req.MiddleName,
		PaternalSurname: req.PaternalSurname,
		MaternalSurname: req.MaternalSurname,
		RUT:             req.RUT,
		DV:              req.DV,
		BirthDate:       birthDate,
		RegionID:        req.RegionID,
		Address:         req.Address,
		Email:           req.Email,
		Phone:           req.Phone,
	})
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPayload(user))
}

type patchRequest struct {
	FirstName       *string `json:"first_name"`
	MiddleName      *string `json:"middle_name"`
	PaternalSurname *string `json:"paternal_surname"`
	MaternalSurname *string `json:"maternal_surname"`
	RUT             *string `json:"rut"`
	DV              *string `json:"dv"`
	BirthDate       *string `json:"birth_date"`
	RegionID        *int64  `json:"region_id"`
	Address         *string `json:"address"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
}

func (h *Handler) patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req patchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	input := PatchInput{
		FirstName:       req.FirstName,
		MiddleName:      req.MiddleName,
		PaternalSurname: req.PaternalSurname,
		MaternalSurname: req.MaternalSurname,
		RUT:             req.RUT,
		DV:              req.DV,
		RegionID:        req.RegionID,
		Address:         req.Address,
		Email:           req.Email,
		Phone:           req.Phone,
	}
	if req.BirthDate != nil {
		birthDate, err := time.Parse(birthDateLayout, *req.BirthDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "birth_date must be YYYY-MM-DD")
			return
		}
		input.BirthDate = &birthDate
	}
	user, err := h.service.Patch(r.Context(), id, input)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPayload(user))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id, actorID(r)); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}
	if err := h.passwords.ChangePassword(r.Context(), id, req.OldPassword, req.NewPassword); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "password changed"})
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required"`
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req resetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", validationDetail(err))
		return
	}
	if err := h.passwords.ResetPassword(r.Context(), id, req.NewPassword); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "password reset"})
}

func (h *Handler) promote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.service.Promote(r.Context(), id, actorID(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPayload(user))
}

func (h *Handler) demote(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := h.service.Demote(r.Context(), id, actorID(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPayload(user))
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "id must be a positive integer")
		return 0, false
	}
	return id, true
}

func actorID(r *http.Request) int64 {
	identity, ok := shared.IdentityFromContext(r.Context())
	if !ok {
		return 0
	}
	return identity.UserID
}

func validationDetail(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "invalid request"
	}
	return "invalid field: " + errs[0].Field()
}
