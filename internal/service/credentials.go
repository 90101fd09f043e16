package service

import (
	"context" // Request scoped context
	"errors"  // Sentinel comparison
	"fmt"     // Error wrapping
	"strings" // Input trimming

	"employee_system/internal/domain" // Domain models and errors

	"golang.org/x/crypto/bcrypt" // Password hashing
)

const (
	BcryptCost        = 10 // Work factor for stored password hashes
	MaxPasswordLength = 72 // bcrypt input limit in bytes
)

// UserStore persists users
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// CredentialStore owns user records and password verification
type CredentialStore struct {
	users UserStore
}

// NewCredentialStore creates a credential store
func NewCredentialStore(users UserStore) *CredentialStore {
	return &CredentialStore{users: users}
}

// Register creates a user with a hashed password
func (s *CredentialStore) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, domain.ErrMissingCredentials
	}
	if len(password) > MaxPasswordLength { // Bytes, not runes
		return nil, domain.ErrPasswordTooLong
	}
	exists, err := s.users.ExistsByUsername(ctx, username) // Pre-check; the unique index still guards races
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, domain.ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &domain.User{Username: username, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyCredentials returns the user when password matches. Unknown users and
// wrong passwords both yield domain.ErrInvalidCredentials.
func (s *CredentialStore) VerifyCredentials(ctx context.Context, username, password string) (*domain.User, error) {
	if len(password) > MaxPasswordLength {
		return nil, domain.ErrInvalidCredentials // Compare would only see the first 72 bytes
	}
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// FindByID gets a user by id
func (s *CredentialStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}
