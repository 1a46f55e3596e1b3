package config

import "fmt"

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// JWT returns the token configuration. It fails when auth is disabled.
func (c *Config) JWT() (*JWTConfig, error) {
	cfg := &JWTConfig{
		Secret:          c.JWTSecret,
		ExpirationHours: c.JWTExpiryHours,
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRY_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
