package auth

import "fmt"

// Role is the authorization tier governing endpoint access. The set is closed:
// a role read from storage or a token that is not one of the constants below is
// rejected, never passed through.
type Role string

const (
	// RoleUser is the default tier for registered users.
	RoleUser Role = "USER"
	// RoleAdmin grants access to management endpoints.
	RoleAdmin Role = "ADMIN"
)

// Valid reports whether the role is a member of the closed set.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// ParseRole converts a stored string into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("auth: unknown role %q", s)
	}
	return r, nil
}

// Credential is the stored hashed representation of a user's secret.
// PasswordHash is never the plaintext and never leaves the service layer.
type Credential struct {
	UserID       int64
	PasswordHash string
}

// Identity is a verified (userID, email, role) triple. Callers only ever see
// an Identity after a successful password or token verification.
type Identity struct {
	UserID int64
	Email  string
	Role   Role
}

// UserRecord is the slice of the user row the credential subsystem needs.
type UserRecord struct {
	ID    int64
	Email string
	Role  Role
}
