package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// PasswordConfig holds configuration for password hashing and verification.
type PasswordConfig struct {
	BcryptCost int
}

// NewPasswordConfig creates a password configuration from environment
// variables. It reads BCRYPT_COST (default: 12); the cost must stay in the
// 10-14 range so logins remain both slow enough and usable.
func NewPasswordConfig() (*PasswordConfig, error) {
	cost := 12
	if s := os.Getenv("BCRYPT_COST"); s != "" {
		parsed, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
		}
		cost = parsed
	}
	if cost < 10 || cost > 14 {
		return nil, fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", cost)
	}

	return &PasswordConfig{BcryptCost: cost}, nil
}

// HashPassword hashes a password using bcrypt.
func (c *PasswordConfig) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword checks a password against its stored hash.
func (c *PasswordConfig) VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
