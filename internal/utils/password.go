package utils

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPasswordHash compares a password with a hash. Malformed hashes simply
// fail the comparison.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GeneratePlaceholderPassword returns a password hash for accounts created
// through the Google bridge. The plaintext is never exposed anywhere, so the
// account cannot be entered through the password login path.
func GeneratePlaceholderPassword(cost int) (string, error) {
	return HashPassword("oauth_user_default_password_"+uuid.New().String(), cost)
}
