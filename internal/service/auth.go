package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/repository"
	"github.com/flicky/storefront/internal/session"
)

var ErrMissingField = errors.New("required field missing")

type AuthService struct {
	userRepo repository.UserRepository
	sessions *session.Store
}

func NewAuthService(userRepo repository.UserRepository, sessions *session.Store) *AuthService {
	return &AuthService{userRepo: userRepo, sessions: sessions}
}

// Login authenticates and persists the token and profile for later runs.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, client.Invalid("login", ErrMissingField, "Email and password are required.")
	}

	token, user, err := s.userRepo.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, token, *user); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return &session.Session{Token: token, User: *user}, nil
}

// Register creates an account. It never logs the new user in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) error {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return client.Invalid("register", ErrMissingField, "Name, email and password are required.")
	}
	_, err := s.userRepo.Register(ctx, name, email, password)
	return err
}

func (s *AuthService) Restore(ctx context.Context) (*session.Session, error) {
	return s.sessions.Restore(ctx)
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}
