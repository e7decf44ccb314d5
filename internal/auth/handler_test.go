package auth

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, repo *mockRepository) (*Handler, *TokenService) {
	t.Helper()
	svc := newTestService(repo)
	return NewHandler(slog.Default(), svc, svc.tokens, nil), svc.tokens
}

func postJSON(t *testing.T, router chi.Router, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginHandler(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, 1, "ana@example.com", "Val1dPass!", RoleUser)
	handler, tokens := newTestHandler(t, repo)

	router := chi.NewRouter()
	router.Route("/auth", handler.MountRoutes)

	rec := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "Val1dPass!",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token     string `json:"token"`
		TokenType string `json:"token_type"`
		ExpiresIn int64  `json:"expires_in"`
		User      struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(tokens.TTL().Seconds()), resp.ExpiresIn)
	assert.Equal(t, int64(1), resp.User.ID)
	assert.Equal(t, "USER", resp.User.Role)

	identity, err := tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), identity.UserID)
}

func TestLoginHandlerUniformFailureBody(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, 1, "ana@example.com", "Val1dPass!", RoleUser)
	handler, _ := newTestHandler(t, repo)

	router := chi.NewRouter()
	router.Route("/auth", handler.MountRoutes)

	unknown := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "Val1dPass!",
	})
	wrong := postJSON(t, router, "/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "WrongPass1!",
	})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
}

func TestLoginHandlerRejectsBadPayload(t *testing.T) {
	repo := newMockRepository()
	handler, _ := newTestHandler(t, repo)

	router := chi.NewRouter()
	router.Route("/auth", handler.MountRoutes)

	rec := postJSON(t, router, "/auth/login", map[string]string{"email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidatePasswordHandler(t *testing.T) {
	repo := newMockRepository()
	handler, _ := newTestHandler(t, repo)

	router := chi.NewRouter()
	router.Route("/auth", handler.MountRoutes)

	rec := postJSON(t, router, "/auth/password/validate", map[string]string{"password": "Password1!"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Valid    bool   `json:"valid"`
		Strength string `json:"strength"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, "STRONG", resp.Strength)

	rec = postJSON(t, router, "/auth/password/validate", map[string]string{"password": "password"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Equal(t, "WEAK", resp.Strength)
}
