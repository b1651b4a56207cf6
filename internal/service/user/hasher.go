package user

import (
	"golang.org/x/crypto/bcrypt"
)

// Bcrypt cost used for new password hashes
const DefaultCost = 10

// Interface to create or check user password hashes
type PasswordHasher interface {
	// Generate hash from password, salt is random on every call
	Hash(password string) (string, error)

	// Check user provided password against known hash
	// Must be protected against timing attacks
	Check(password string, hash string) bool
}

// Bcrypt password hasher
// Will be used as default one if user not provide it's own
type BcryptHasher struct {
	Cost int
}

var DefaultHasher PasswordHasher = BcryptHasher{Cost: DefaultCost}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(hash), err
}

// Malformed hash is just a mismatch
func (h BcryptHasher) Check(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
