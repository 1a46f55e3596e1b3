package config

import (
	"fmt"

	"github.com/anatolykoptev/go-kit/env"
	"golang.org/x/crypto/bcrypt"
)

// PasswordConfig holds configuration for password hashing and verification.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string // optional global secret appended before hashing
}

// NewPasswordConfig reads BCRYPT_COST (default: 12) and PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	config := &PasswordConfig{
		BcryptCost: env.Int("BCRYPT_COST", 12),
		Pepper:     env.Str("PASSWORD_PEPPER", ""),
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

// HashPassword hashes a password using bcrypt (with optional pepper).
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw+c.Pepper), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hash), nil
}

// VerifyPassword verifies a password against a stored hash (with optional pepper).
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(pw+c.Pepper))
	return err == nil
}

// OwnerHash returns the bcrypt hash the owner logs in against: the
// configured OWNER_PASSWORD_HASH, or a fresh hash of OWNER_PASSWORD.
func (c *PasswordConfig) OwnerHash(cfg *Config) (string, error) {
	if cfg.OwnerPasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(cfg.OwnerPasswordHash)); err != nil {
			return "", fmt.Errorf("invalid OWNER_PASSWORD_HASH: %w", err)
		}
		return cfg.OwnerPasswordHash, nil
	}
	if cfg.OwnerPassword == "" {
		return "", fmt.Errorf("owner password is not configured")
	}
	return c.HashPassword(cfg.OwnerPassword)
}
