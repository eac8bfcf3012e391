// Package session persists the bearer token and cached user profile between runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/flicky/storefront/internal/model"
)

const (
	KeyToken     = "token"
	KeyUser      = "user"
	KeyUserEmail = "userEmail"
)

// FallbackName is shown when a token exists but no profile was cached with it.
const FallbackName = "User"

var ErrNoSession = errors.New("no session")

type Session struct {
	Token string
	User  model.User
}

// profile is the JSON shape kept under KeyUser.
type profile struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

type Store struct {
	backend Backend
	log     *slog.Logger
}

func NewStore(backend Backend, log *slog.Logger) *Store {
	return &Store{backend: backend, log: log.With("component", "session")}
}

func (s *Store) Save(ctx context.Context, token string, user model.User) error {
	data, err := json.Marshal(profile{ID: user.ID, Name: user.Name, Email: user.Email, Role: string(user.Role)})
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}
	if err := s.backend.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := s.backend.Set(ctx, KeyUser, string(data)); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	if err := s.backend.Set(ctx, KeyUserEmail, user.Email); err != nil {
		return fmt.Errorf("save email: %w", err)
	}
	return nil
}

// Restore returns the stored session or ErrNoSession. A profile that cannot be decoded
// wipes every session key so no half-valid session survives.
func (s *Store) Restore(ctx context.Context) (*Session, error) {
	token, ok, err := s.backend.Get(ctx, KeyToken)
	if err != nil {
		return nil, fmt.Errorf("load token: %w", err)
	}
	if !ok || token == "" {
		return nil, ErrNoSession
	}

	raw, ok, err := s.backend.Get(ctx, KeyUser)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if !ok {
		email, _ := s.Email(ctx)
		return &Session{Token: token, User: model.User{Name: FallbackName, Email: email, Role: model.RoleUser}}, nil
	}

	var p profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.log.Error("stored profile is corrupt, clearing session", "error", err)
		if err := s.Clear(ctx); err != nil {
			return nil, err
		}
		return nil, ErrNoSession
	}

	user := model.User{ID: p.ID, Name: p.Name, Email: p.Email, Role: model.Role(p.Role)}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	return &Session{Token: token, User: user}, nil
}

// Clear removes every session key; keys that are already absent are not an error.
func (s *Store) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range []string{KeyToken, KeyUser, KeyUserEmail} {
		if err := s.backend.Remove(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Token implements middleware.TokenSource.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, _, err := s.backend.Get(ctx, KeyToken)
	return token, err
}

func (s *Store) Email(ctx context.Context) (string, error) {
	email, _, err := s.backend.Get(ctx, KeyUserEmail)
	return email, err
}

// TokenExpiry reads the exp claim of a JWT bearer token without verifying its signature.
// Opaque tokens report false.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
