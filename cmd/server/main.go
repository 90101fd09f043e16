package main

import (
	"context"   // context package is needed for Redis and shutdown
	"errors"    // Server close detection
	"net/http"  // HTTP server
	"os"        // Signals
	"os/signal" // Signal notification
	"syscall"   // SIGTERM
	"time"      // Timeouts

	"employee_system/internal/api"        // Custom package for API handlers
	"employee_system/internal/config"     // Custom package for configuration
	"employee_system/internal/db"         // Database connection and migration
	"employee_system/internal/middleware" // Custom package for middleware
	"employee_system/internal/repository" // Persistence
	"employee_system/internal/service"    // Business rules
	"employee_system/internal/storage"    // Image storage backends
	"employee_system/internal/utils"      // Tokens, cache and logging

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err) // Refuse to start without a secret
	}

	// Setup logger
	utils.ConfigureLogger(cfg.IsProd, cfg.LogLevel)

	// Connect to the database and make sure the schema exists
	conn, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("failed to migrate DB: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		logrus.Fatalf("failed to get DB handle: %v", err)
	}

	// Setup Redis client when configured
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logrus.Warn("REDIS_ADDR not set: search cache, logout revocation and rate limiting are disabled")
	}

	images, err := openImageStore(cfg)
	if err != nil {
		logrus.Fatalf("failed to set up image storage: %v", err)
	}

	tokens, err := utils.NewTokenService(cfg.JWTSecret)
	if err != nil {
		logrus.Fatalf("failed to set up tokens: %v", err)
	}
	cache := utils.NewCache(redisClient)

	credentials := service.NewCredentialStore(repository.NewUserRepository(conn))
	deps := api.Deps{
		Config:      cfg,
		Tokens:      tokens,
		Cache:       cache,
		Credentials: credentials,
		Auth:        service.NewAuthGateway(credentials, tokens, cache),
		Employees:   service.NewEmployeeService(repository.NewEmployeeRepository(conn), images, cache),
		Images:      images,
		RateLimiter: middleware.NewRateLimiter(redisClient, cfg.LoginRateLimit, time.Minute),
		Ping:        sqlDB.PingContext,
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := api.NewRouter(deps)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("Server running on %s", cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("server forced to shutdown: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		logrus.Errorf("failed to close DB: %v", err)
	}
	logrus.Info("Server exited")
}

// openImageStore builds the configured image backend
func openImageStore(cfg *config.Config) (storage.ImageStore, error) {
	switch cfg.StorageBackend {
	case "s3":
		return storage.NewS3Store(context.Background(), storage.S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	case "local", "":
		return storage.NewLocalStore(cfg.UploadDir)
	}
	return nil, errors.New("unsupported STORAGE_BACKEND " + cfg.StorageBackend)
}
