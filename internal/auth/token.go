package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/huertohogar/huertohogar/internal/shared"
)

// DefaultTokenTTL applies when no TTL is configured.
const DefaultTokenTTL = 24 * time.Hour

// TokenConfig carries the signing material injected into the TokenService at
// construction. It is never mutated afterwards.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// Claims embeds the registered claims plus the identity claims this backend
// issues. The subject holds the user id.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HMAC-signed session tokens. It is
// stateless: validity is determined purely by signature and expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService constructs a TokenService from immutable configuration.
func NewTokenService(cfg TokenConfig) *TokenService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(cfg.Secret), ttl: ttl}
}

// Issue mints a signed token for the given identity, valid for the configured
// TTL from now.
func (s *TokenService) Issue(userID int64, email string, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string. Any failure, whether a bad
// signature, a malformed token or an expired one, yields shared.ErrUnauthorized;
// claims must not be trusted unless Verify succeeds.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Identity{}, shared.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return Identity{}, shared.ErrUnauthorized
	}
	role, err := ParseRole(claims.Role)
	if err != nil {
		return Identity{}, shared.ErrUnauthorized
	}
	return Identity{UserID: userID, Email: claims.Email, Role: role}, nil
}

// TTL exposes the configured token lifetime, e.g. for expires_in responses.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}
