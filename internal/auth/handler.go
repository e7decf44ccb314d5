package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/huertohogar/huertohogar/internal/platform/httpx"
)

// LoginMetrics counts login attempts by outcome.
type LoginMetrics interface {
	RecordLogin(outcome string)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	tokens    *TokenService
	metrics   LoginMetrics
	validator *validator.Validate
}

// NewHandler constructs a Handler instance. metrics may be nil.
func NewHandler(logger *slog.Logger, service *Service, tokens *TokenService, metrics LoginMetrics) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		tokens:    tokens,
		metrics:   metrics,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router. Both endpoints
// are public; login carries its own tighter rate limit.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
		r.Post("/login", h.handleLogin)
	})
	r.Post("/password/validate", h.handleValidatePassword)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresIn int64     `json:"expires_in"`
	User      loginUser `json:"user"`
}

type loginUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "email and password are required")
		return
	}
	identity, token, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.recordLogin("failure")
		// Uniform response: no caller can tell an unknown email from a wrong
		// password.
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid credentials")
		return
	}
	h.recordLogin("success")
	httpx.JSON(w, http.StatusOK, loginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.tokens.TTL().Seconds()),
		User: loginUser{
			ID:    identity.UserID,
			Email: identity.Email,
			Role:  string(identity.Role),
		},
	})
}

func (h *Handler) recordLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordLogin(outcome)
	}
}

type validatePasswordRequest struct {
	Password string `json:"password"`
}

type validatePasswordResponse struct {
	Valid    bool     `json:"valid"`
	Strength Strength `json:"strength"`
}

func (h *Handler) handleValidatePassword(w http.ResponseWriter, r *http.Request) {
	var req validatePasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	httpx.JSON(w, http.StatusOK, validatePasswordResponse{
		Valid:    ValidPassword(req.Password),
		Strength: PasswordStrength(req.Password),
	})
}
