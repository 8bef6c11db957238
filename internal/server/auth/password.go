package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt hash from the plaintext password.
func HashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// CheckPassword reports whether the candidate password matches the stored
// hash.
func CheckPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
