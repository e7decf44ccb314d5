package auth

import "golang.org/x/crypto/bcrypt"

// Hasher produces and verifies salted bcrypt hashes. The cost is fixed at
// construction and read-only afterwards.
type Hasher struct {
	cost int
}

// NewHasher constructs a Hasher with the given bcrypt cost. Costs outside the
// bcrypt range fall back to the library default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns a self-contained bcrypt hash string. A fresh random salt is
// generated per call, so hashing the same plaintext twice yields different
// outputs.
func (h *Hasher) Hash(plain string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Verify reports whether plain matches the stored hash. Malformed hashes
// verify as false rather than erroring.
func (h *Hasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
