// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pokelogger/pokelogger/internal/auth"
	"github.com/pokelogger/pokelogger/internal/metrics"
	"github.com/pokelogger/pokelogger/internal/model"
	"github.com/pokelogger/pokelogger/internal/repository"
)

// Account service errors.
var (
	ErrMissingFields = errors.New("required fields are missing")
	ErrEmailExists   = errors.New("email already exists")
	// ErrInvalidCredentials is deliberately generic: callers can never
	// tell an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidSession covers malformed tokens and tokens whose user
	// no longer exists.
	ErrInvalidSession = errors.New("invalid session")
)

// UserStore is the slice of the repository the account service needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// Session bundles a signed token with the public user it belongs to.
type Session struct {
	Token string
	User  model.PublicUser
}

// AccountService handles registration, login, and session verification.
type AccountService struct {
	store     UserStore
	jwtSecret []byte
	metrics   metrics.Recorder
}

// NewAccountService creates a new AccountService.
func NewAccountService(store UserStore, jwtSecret []byte, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		store:     store,
		jwtSecret: jwtSecret,
		metrics:   recorder,
	}
}

// Register creates a new user and issues a session for it.
// The plaintext password is hashed before it ever reaches the store.
func (s *AccountService) Register(ctx context.Context, email, password, name string) (*Session, error) {
	if email == "" || password == "" || name == "" {
		return nil, ErrMissingFields
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.metrics.IncUserRegistered()

	return s.newSession(user)
}

// Login verifies credentials and issues a session.
// No lockout counter, no rate limiting: failure has no side effects.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}

	return s.newSession(user)
}

// VerifyToken resolves a bearer token to a live user. The user row is
// re-fetched on every call so that deleting a user revokes its sessions.
func (s *AccountService) VerifyToken(ctx context.Context, token string) (*model.User, error) {
	userID, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, ErrInvalidSession
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to resolve session user: %w", err)
	}

	return user, nil
}

func (s *AccountService) newSession(user *model.User) (*Session, error) {
	token, err := auth.GenerateToken(user.ID, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Session{Token: token, User: user.Public()}, nil
}
