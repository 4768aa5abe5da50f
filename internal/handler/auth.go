package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pokelogger/pokelogger/internal/handler/dto"
	"github.com/pokelogger/pokelogger/internal/service"
)

// AccountService is the slice of the account service the handler needs.
type AccountService interface {
	Register(ctx context.Context, email, password, name string) (*service.Session, error)
	Login(ctx context.Context, email, password string) (*service.Session, error)
}

// AuthHandler handles registration and login.
type AuthHandler struct {
	svc    AccountService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc AccountService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.svc.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "All fields are required")
		case errors.Is(err, service.ErrEmailExists):
			writeError(w, http.StatusBadRequest, "Email already exists")
		default:
			h.logger.Error("registration failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	h.logger.Info("user_registered", "user_id", session.User.ID)

	writeJSON(w, http.StatusCreated, dto.SessionResponse{
		Token: session.Token,
		User:  session.User,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingFields):
			writeError(w, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, service.ErrInvalidCredentials):
			// Same message for unknown email and wrong password
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			h.logger.Error("login failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	h.logger.Info("user_logged_in", "user_id", session.User.ID)

	writeJSON(w, http.StatusOK, dto.SessionResponse{
		Token: session.Token,
		User:  session.User,
	})
}
