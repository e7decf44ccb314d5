package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/huertohogar/huertohogar/internal/platform/httpx"
	"github.com/huertohogar/huertohogar/internal/shared"
)

const bearerPrefix = "Bearer "

// Middleware wires token verification and role checks for HTTP handlers.
type Middleware struct {
	Tokens *TokenService
	Logger *slog.Logger
}

// RequireRole verifies the bearer token and ensures the caller's role is a
// member of the allowed set. Missing or invalid tokens yield 401; a verified
// identity outside the set yields 403. On success the identity is exposed to
// downstream handlers via the request context.
func (m Middleware) RequireRole(allowed ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := m.verify(w, r)
			if !ok {
				return
			}
			if !roleAllowed(identity.Role, allowed) {
				httpx.Problem(w, http.StatusForbidden, "Forbidden", "insufficient role")
				return
			}
			ctx := shared.ContextWithIdentity(r.Context(), shared.Identity{
				UserID: identity.UserID,
				Email:  identity.Email,
				Role:   string(identity.Role),
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Check verifies a raw token against an allowed-role set without HTTP
// plumbing. Exposed for callers outside the middleware chain.
func (m Middleware) Check(token string, allowed ...Role) (Identity, error) {
	identity, err := m.Tokens.Verify(token)
	if err != nil {
		return Identity{}, err
	}
	if !roleAllowed(identity.Role, allowed) {
		return Identity{}, shared.ErrForbidden
	}
	return identity, nil
}

func (m Middleware) verify(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, bearerPrefix) {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
		return Identity{}, false
	}
	identity, err := m.Tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
	if err != nil {
		if m.Logger != nil {
			m.Logger.Debug("token rejected", slog.String("path", r.URL.Path))
		}
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
		return Identity{}, false
	}
	return identity, true
}

func roleAllowed(role Role, allowed []Role) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
