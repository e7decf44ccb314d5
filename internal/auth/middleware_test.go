package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huertohogar/huertohogar/internal/shared"
)

func issueToken(t *testing.T, tokens *TokenService, role Role) string {
	t.Helper()
	token, err := tokens.Issue(1, "ana@example.com", role)
	require.NoError(t, err)
	return token
}

func TestRequireRoleGate(t *testing.T) {
	tokens := NewTokenService(TokenConfig{Secret: "test-secret", TTL: time.Hour})
	mw := Middleware{Tokens: tokens}
	userToken := issueToken(t, tokens, RoleUser)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := shared.IdentityFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, int64(1), identity.UserID)
		w.WriteHeader(http.StatusOK)
	})

	cases := []struct {
		name    string
		allowed []Role
		header  string
		status  int
	}{
		{"user token against admin-only", []Role{RoleAdmin}, "Bearer " + userToken, http.StatusForbidden},
		{"user token against user-or-admin", []Role{RoleUser, RoleAdmin}, "Bearer " + userToken, http.StatusOK},
		{"missing token", []Role{RoleUser}, "", http.StatusUnauthorized},
		{"malformed header", []Role{RoleUser}, userToken, http.StatusUnauthorized},
		{"invalid token", []Role{RoleUser}, "Bearer garbage", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			mw.RequireRole(tc.allowed...)(next).ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
		})
	}
}

func TestCheck(t *testing.T) {
	tokens := NewTokenService(TokenConfig{Secret: "test-secret", TTL: time.Hour})
	mw := Middleware{Tokens: tokens}
	userToken := issueToken(t, tokens, RoleUser)

	_, err := mw.Check(userToken, RoleAdmin)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	identity, err := mw.Check(userToken, RoleUser, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, identity.Role)

	_, err = mw.Check("garbage", RoleUser)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestRequireRoleEmptySetAllowsAnyVerifiedIdentity(t *testing.T) {
	tokens := NewTokenService(TokenConfig{Secret: "test-secret", TTL: time.Hour})
	mw := Middleware{Tokens: tokens}
	token := issueToken(t, tokens, RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	mw.RequireRole()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
