package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-agent/internal/config"
	"github.com/jonathan/job-agent/internal/types"
)

// AuthHandler handles owner login.
type AuthHandler struct {
	passwords  *config.PasswordConfig
	ownerHash  string
	jwtService *JWTService
}

// NewAuthHandler creates a new AuthHandler. ownerHash is the bcrypt hash
// of the owner password.
func NewAuthHandler(passwords *config.PasswordConfig, ownerHash string, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		passwords:  passwords,
		ownerHash:  ownerHash,
		jwtService: jwtService,
	}
}

// Login exchanges the owner password for a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": extractValidationErrors(err)})
		return
	}

	if !h.passwords.VerifyPassword(req.Password, h.ownerHash) {
		log.Printf("[auth] failed login from %s", r.RemoteAddr)
		err := &ErrInvalidCredentials{}
		writeJSON(w, HTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	token, expiresAt, err := h.jwtService.GenerateToken()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to generate token"})
		return
	}

	writeJSON(w, http.StatusOK, types.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// extractValidationErrors renders the first validator failure.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
