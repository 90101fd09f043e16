package api

import (
	"net/http" // HTTP status codes

	"employee_system/internal/middleware" // Identity set by the Access Guard
	"employee_system/internal/service"    // Auth gateway

	"github.com/gin-gonic/gin" // Gin web framework
)

// CredentialsRequest is the body of login and register
type CredentialsRequest struct {
	Username string `json:"username" form:"username"` // Checked by the service
	Password string `json:"password" form:"password"` // Checked by the service
}

// AuthResponse carries a session token
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(auth *service.AuthGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CredentialsRequest // Bind request body
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		token, err := auth.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token}) // Return the token in the response
	}
}

// RegisterHandler creates a new user
func RegisterHandler(auth *service.AuthGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CredentialsRequest // Bind request body
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
			return
		}
		if err := auth.Register(c.Request.Context(), req.Username, req.Password); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
	}
}

// CurrentUserHandler returns the authenticated user without the password hash
func CurrentUserHandler(auth *service.AuthGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(middleware.UserIDKey) // Set by JWTAuthMiddleware
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": middleware.MsgTokenMissing})
			return
		}
		user, err := auth.CurrentUser(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, UserResponse{ID: user.ID, Username: user.Username})
	}
}

// LogoutHandler revokes the presented token
func LogoutHandler(auth *service.AuthGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.CurrentClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": middleware.MsgTokenMissing})
			return
		}
		if err := auth.Logout(c.Request.Context(), claims); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
	}
}
