package service

import (
	"context" // Request scoped context
	"fmt"     // Error wrapping
	"strings" // Input trimming

	"employee_system/internal/domain" // Domain models and errors
	"employee_system/internal/utils"  // Token service and denylist

	"github.com/sirupsen/logrus" // Logging library
)

// AuthGateway implements login, registration, identity lookup and logout
type AuthGateway struct {
	credentials *CredentialStore
	tokens      *utils.TokenService
	cache       *utils.Cache // Optional token denylist
}

// NewAuthGateway creates an auth gateway; cache may be nil
func NewAuthGateway(credentials *CredentialStore, tokens *utils.TokenService, cache *utils.Cache) *AuthGateway {
	return &AuthGateway{credentials: credentials, tokens: tokens, cache: cache}
}

// Login verifies credentials and issues a session token
func (g *AuthGateway) Login(ctx context.Context, username, password string) (string, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", domain.ErrMissingCredentials
	}
	user, err := g.credentials.VerifyCredentials(ctx, username, password)
	if err != nil {
		return "", err
	}
	token, err := g.tokens.Issue(user.ID) // Generate JWT token
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID}).Info("user logged in")
	return token, nil
}

// Register creates a new user
func (g *AuthGateway) Register(ctx context.Context, username, password string) error {
	user, err := g.credentials.Register(ctx, username, password)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return nil
}

// CurrentUser resolves the subject of a verified token
func (g *AuthGateway) CurrentUser(ctx context.Context, subjectID string) (*domain.User, error) {
	return g.credentials.FindByID(ctx, subjectID)
}

// Logout denylists the token until it expires. Without a cache it is a no-op.
func (g *AuthGateway) Logout(ctx context.Context, claims *utils.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil // Nothing to revoke
	}
	if err := g.cache.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	logrus.WithFields(logrus.Fields{"user_id": claims.UserID, "jti": claims.ID}).Info("user logged out")
	return nil
}
