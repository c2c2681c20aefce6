package common

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyPassword  = errors.New("password must not be empty")
	ErrNoPasswordHash = errors.New("no admin password hash configured")
)

// AdminPasswordCost is the bcrypt cost used for ADMIN_PASSWORD_HASH.
const AdminPasswordCost = 12

// HashPassword produces the value for ADMIN_PASSWORD_HASH. Passwords over 72
// bytes are rejected, not truncated.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), AdminPasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}
	return string(hashed), nil
}

func CheckPassword(password, hashedPassword string) error {
	if hashedPassword == "" {
		return ErrNoPasswordHash
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// HashCost reports the cost of a configured hash, or an error when the value
// is not a bcrypt hash at all.
func HashCost(hashedPassword string) (int, error) {
	if hashedPassword == "" {
		return 0, ErrNoPasswordHash
	}
	return bcrypt.Cost([]byte(hashedPassword))
}
