package users

import (
	"time"

	"github.com/huertohogar/huertohogar/internal/auth"
)

// User represents a registered account. Role changes only through the
// promote/demote operations and the credential never travels on this struct.
type User struct {
	ID               int64
	FirstName        string
	MiddleName       string
	PaternalSurname  string
	MaternalSurname  string
	RUT              string
	DV               string
	BirthDate        time.Time
	RegionID         int64
	Address          string
	Email            string
	Phone            string
	Role             auth.Role
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
