package middleware

import (
	"context"  // Context for user lookup
	"errors"   // Error comparison
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"employee_system/internal/domain" // Domain models and errors
	"employee_system/internal/utils"  // Token service and denylist

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// Context keys set by JWTAuthMiddleware
const (
	UserIDKey = "userID"
	UserKey   = "user"
	ClaimsKey = "claims"
)

// Access Guard rejection messages
const (
	MsgTokenMissing = "Not authorized, token missing or malformed"
	MsgTokenExpired = "Token has expired"
	MsgTokenInvalid = "Malformed token"
	MsgTokenRevoked = "Token has been revoked"
)

// UserLookup resolves the subject of a token
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// JWTAuthMiddleware validates bearer tokens and attaches the user to the context.
// cache may be nil, in which case no token is ever considered revoked.
func JWTAuthMiddleware(tokens *utils.TokenService, users UserLookup, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": MsgTokenMissing})
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")) // Extract the token string
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": MsgTokenMissing})
			return
		}
		claims, err := tokens.Verify(tokenStr) // Verify signature and expiry
		if err != nil {
			msg := MsgTokenInvalid
			if errors.Is(err, utils.ErrTokenExpired) {
				msg = MsgTokenExpired
			}
			logrus.WithFields(logrus.Fields{"path": c.FullPath(), "reason": err.Error()}).Debug("token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		}
		ctx := c.Request.Context()
		revoked, err := cache.IsRevoked(ctx, claims.ID) // Denylist lookup
		if err != nil {
			logrus.WithError(err).Error("token denylist lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": MsgTokenRevoked})
			return
		}
		user, err := users.FindByID(ctx, claims.UserID) // Subject must still exist
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": domain.ErrUserNotFound.Message})
				return
			}
			logrus.WithError(err).WithField("user_id", claims.UserID).Error("user lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
			return
		}
		c.Set(UserIDKey, user.ID) // Store userID in context
		c.Set(UserKey, user)
		c.Set(ClaimsKey, claims)
		c.Next() // Proceed to the next handler
	}
}

// CurrentUser returns the user attached by JWTAuthMiddleware
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}

// CurrentClaims returns the verified token claims
func CurrentClaims(c *gin.Context) (*utils.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}
