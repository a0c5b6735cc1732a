package security

import "golang.org/x/crypto/bcrypt"

// stored hashes use a work factor of 10; changing it invalidates nothing
// but slows every login, so bump deliberately.
const bcryptCost = 10

// HashPassword hashes a plain text password with bcrypt.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)

	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plaintext password.
// A mismatch is an error return, never a panic.
func CheckPassword(hash, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
}
