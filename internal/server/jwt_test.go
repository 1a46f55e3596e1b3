package server

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-agent/internal/config"
)

func setupTestJWTService(_ *testing.T, expirationHours int) *JWTService {
	cfg := &config.JWTConfig{
		Secret:          "test-secret-key-for-jwt-signing-minimum-32-bytes",
		ExpirationHours: expirationHours,
	}
	return NewJWTService(cfg)
}

func signClaims(t *testing.T, service *JWTService, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(service.config.Secret))
	require.NoError(t, err)
	return tokenString
}

func TestJWTService_GenerateToken(t *testing.T) {
	service := setupTestJWTService(t, 24)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	token, expiresAt, err := service.GenerateToken()
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, now.Add(24*time.Hour), expiresAt)

	// Test token format is valid JWT (three parts separated by dots)
	parts := strings.Split(token, ".")
	assert.Equal(t, 3, len(parts), "JWT should have 3 parts separated by dots")
}

func TestJWTService_GenerateToken_NewSessionEachLogin(t *testing.T) {
	service := setupTestJWTService(t, 24)

	token1, _, err := service.GenerateToken()
	require.NoError(t, err)
	token2, _, err := service.GenerateToken()
	require.NoError(t, err)
	assert.NotEqual(t, token1, token2)

	claims1, err := service.ValidateToken(token1)
	require.NoError(t, err)
	claims2, err := service.ValidateToken(token2)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, claims1.SessionID)
	assert.NotEqual(t, claims1.SessionID, claims2.SessionID)
	assert.Equal(t, claims1.SessionID, claims1.GetSessionID())
}

func TestJWTService_ValidateToken_Success(t *testing.T) {
	service := setupTestJWTService(t, 24)

	token, _, err := service.GenerateToken()
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, ownerSubject, claims.Subject)
	assert.NotNil(t, claims.ExpiresAt)
	assert.NotNil(t, claims.IssuedAt)
}

func TestJWTService_ValidateToken_InvalidSignature(t *testing.T) {
	service1 := setupTestJWTService(t, 24)
	service2 := setupTestJWTService(t, 24)
	service2.config.Secret = "different-secret-key-for-jwt-signing-minimum-32-bytes"

	token, _, err := service1.GenerateToken()
	require.NoError(t, err)

	claims, err := service2.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "signature")
}

func TestJWTService_ValidateToken_WrongSubject(t *testing.T) {
	service := setupTestJWTService(t, 24)
	now := time.Now()

	token := signClaims(t, service, &Claims{
		SessionID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "someone-else",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	claims, err := service.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ValidateToken_MalformedToken(t *testing.T) {
	service := setupTestJWTService(t, 24)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"one part", "invalid"},
		{"two parts", "invalid.token"},
		{"four parts", "invalid.token.format.extra"},
		{"invalid base64", "invalid.base64.signature"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestJWTService_TokenExpiration(t *testing.T) {
	service := setupTestJWTService(t, 1)
	issued := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return issued }

	token, _, err := service.GenerateToken()
	require.NoError(t, err)

	service.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = service.ValidateToken(token)
	require.NoError(t, err)

	service.now = func() time.Time { return issued.Add(61 * time.Minute) }
	claims, err := service.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "expired")
}

func TestJWTService_ErrorHandling(t *testing.T) {
	service := setupTestJWTService(t, 24)

	claims, err := service.ValidateToken("")
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "empty")
}

func TestJWTService_AsTokenValidator(t *testing.T) {
	service := setupTestJWTService(t, 24)
	token, _, err := service.GenerateToken()
	require.NoError(t, err)

	getter, err := service.AsTokenValidator().ValidateToken(token)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, getter.GetSessionID())

	_, err = service.AsTokenValidator().ValidateToken("nope")
	assert.Error(t, err)
}
