package api

import (
	"context"       // Health check context
	"errors"        // Error comparison
	"mime"          // Content types for uploads
	"net/http"      // HTTP status codes
	"net/netip"     // Trusted proxy prefixes
	"os"            // Static client files
	"path"          // URL path cleaning
	"path/filepath" // Filesystem paths
	"strings"       // String manipulation
	"time"          // Timeouts

	"employee_system/internal/config"     // Configuration
	"employee_system/internal/middleware" // Access Guard, logging, rate limiting
	"employee_system/internal/service"    // Services
	"employee_system/internal/storage"    // Image storage
	"employee_system/internal/utils"      // Token service and cache

	"github.com/gin-contrib/cors" // CORS middleware
	"github.com/gin-gonic/gin"    // Gin web framework
	"github.com/sirupsen/logrus"  // Logging library
)

// Deps are the collaborators of the HTTP surface
type Deps struct {
	Config      *config.Config
	Tokens      *utils.TokenService
	Cache       *utils.Cache // Optional
	Credentials *service.CredentialStore
	Auth        *service.AuthGateway
	Employees   *service.EmployeeService
	Images      storage.ImageStore
	RateLimiter *middleware.RateLimiter // Optional
	Ping        func(ctx context.Context) error
}

// NewRouter builds the gin engine with every route
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	trusted := middleware.ParseTrustedProxies(d.Config.TrustedProxies)
	if err := r.SetTrustedProxies(prefixStrings(trusted)); err != nil {
		logrus.WithError(err).Warn("failed to set trusted proxies")
	}
	r.Use(middleware.RequestLogger(), gin.Recovery(), cors.New(corsConfig(d.Config.CORSOrigins)))
	r.Use(middleware.ForwardedScheme(trusted)) // Scheme for absolute image URLs

	guard := middleware.JWTAuthMiddleware(d.Tokens, d.Credentials, d.Cache)

	// Auth routes
	authGroup := r.Group("/api/auth")
	authGroup.POST("/login", d.RateLimiter.Middleware(), LoginHandler(d.Auth))       // Login endpoint
	authGroup.POST("/register", d.RateLimiter.Middleware(), RegisterHandler(d.Auth)) // Registration endpoint
	authGroup.GET("/user", guard, CurrentUserHandler(d.Auth))                        // Current user endpoint
	authGroup.POST("/logout", guard, LogoutHandler(d.Auth))                          // Logout endpoint

	// Employee routes (protected by JWT)
	employeeGroup := r.Group("/api/employees", guard)
	employeeGroup.GET("/fetchEmployees", FetchEmployeesHandler(d.Employees))
	employeeGroup.POST("/createEmployee", CreateEmployeeHandler(d.Employees))
	employeeGroup.GET("/:id", GetEmployeeHandler(d.Employees))
	employeeGroup.PUT("/updateEmployee/:id", UpdateEmployeeHandler(d.Employees))
	employeeGroup.DELETE("/deleteEmployee/:id", DeleteEmployeeHandler(d.Employees))

	r.GET("/uploads/:name", UploadHandler(d.Images)) // Public image files
	r.GET("/healthz", HealthHandler(d.Ping))

	if d.Config.IsProd {
		r.NoRoute(ClientHandler(d.Config.ClientBuildDir)) // Built client with index.html fallback
	} else {
		r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Welcome to the API!") })
		r.NoRoute(func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{"message": "Not found"}) })
	}
	return r
}

func prefixStrings(prefixes []netip.Prefix) []string {
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		out = append(out, p.String())
	}
	return out
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// UploadHandler streams a stored image
func UploadHandler(images storage.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		rc, err := images.Open(c.Request.Context(), name)
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Image not found"})
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		defer rc.Close()
		contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
			"Cache-Control": "public, max-age=86400",
		})
	}
}

// HealthHandler reports whether the database answers
func HealthHandler(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				logrus.WithError(err).Warn("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// ClientHandler serves the built client from dir and answers unknown
// non-API GET routes with its index.html
func ClientHandler(dir string) gin.HandlerFunc {
	index := filepath.Join(dir, "index.html")
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if strings.HasPrefix(p, "/api/") || p == "/api" ||
			(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
			return
		}
		file := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+p)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(index)
	}
}
