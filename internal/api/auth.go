package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oakmere/tanksense/internal/auth"
)

// registerRequest is the request body for POST /auth/register.
type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the request body for POST /auth/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse is the response body for POST /auth/login.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// handleRegister creates a new user account.
//
// Duplicate usernames and emails are reported as 409 so clients can tell
// a retryable validation problem from a taken identity. The password is
// hashed before it reaches the repository; the plaintext is never stored.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	if !auth.IsValidUsername(req.Username) {
		writeValidationError(w, "invalid username")
		return
	}
	if !auth.IsValidEmail(req.Email) {
		writeValidationError(w, "invalid email address")
		return
	}
	if req.Password == "" {
		writeValidationError(w, "password is required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hashing password", "error", err)
		writeInternalError(w, "failed to create user")
		return
	}

	user := &auth.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsActive:     true,
	}

	if err := s.users.Create(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameExists):
			writeConflict(w, "username already registered")
		case errors.Is(err, auth.ErrEmailExists):
			writeConflict(w, "email already registered")
		default:
			s.logger.Error("creating user", "error", err, "username", req.Username)
			writeInternalError(w, "failed to create user")
		}
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// handleLogin authenticates a user and returns a bearer token.
//
// Unknown usernames, wrong passwords, and deactivated accounts all produce
// the same 401 response to avoid leaking which accounts exist.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	token, err := s.guard.Login(r.Context(), req.Username, req.Password, s.secCfg.JWT.AccessTokenTTL)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeUnauthorized(w, "incorrect username or password")
			return
		}
		s.logger.Error("login failed", "error", err)
		writeInternalError(w, "failed to log in")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

// handleMe returns the account the request's bearer token belongs to.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "could not validate credentials")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
