package config

import (
	"errors"  // For the missing secret error
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing

	"github.com/joho/godotenv" // For loading .env files
)

// ErrMissingSecret is returned when JWT_SECRET is not configured
var ErrMissingSecret = errors.New("JWT_SECRET must be set")

// Config holds the application configuration
type Config struct {
	AppPort        string   // Application port
	IsProd         bool     // Is production environment
	DBDriver       string   // Database driver: mysql, postgres or sqlite
	DatabaseURL    string   // Full database DSN, overrides the DB_* parts
	DBUser         string   // Database user
	DBPassword     string   // Database password
	DBHost         string   // Database host
	DBPort         string   // Database port
	DBName         string   // Database name
	JWTSecret      string   // JWT secret key
	RedisAddr      string   // Redis server address, empty disables redis
	RedisPass      string   // Redis password
	RedisDB        int      // Redis database number
	StorageBackend string   // Image storage: local or s3
	UploadDir      string   // Local upload directory
	S3Bucket       string   // S3 bucket for images
	S3Region       string   // S3 region
	S3Endpoint     string   // S3 base endpoint (MinIO)
	S3AccessKey    string   // S3 access key
	S3SecretKey    string   // S3 secret key
	ClientBuildDir string   // Built client bundle served in production
	CORSOrigins    []string // Allowed CORS origins
	LogLevel       string   // Logrus level
	LoginRateLimit int      // Auth attempts per client per minute, 0 disables
	TrustedProxies []string // Proxy IPs or CIDRs allowed to set X-Forwarded-*
}

// LoadConfig loads configuration from environment variables.
// It refuses to produce a config without a signing secret.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	loginRateLimit, err := strconv.Atoi(getEnv("LOGIN_RATE_LIMIT", "20"))
	if err != nil {
		loginRateLimit = 20
	}
	cfg := &Config{
		AppPort:        getEnv("PORT", "8080"),
		IsProd:         isProduction(os.Getenv("APP_ENV")),
		DBDriver:       strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBUser:         os.Getenv("DB_USER"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBName:         getEnv("DB_NAME", "employees"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPass:      os.Getenv("REDIS_PASS"),
		RedisDB:        redisDB,
		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", "local")),
		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		S3Bucket:       os.Getenv("S3_BUCKET"),
		S3Region:       getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:     os.Getenv("S3_ENDPOINT"),
		S3AccessKey:    os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:    os.Getenv("S3_SECRET_KEY"),
		ClientBuildDir: getEnv("CLIENT_BUILD_DIR", "./client/build"),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LoginRateLimit: loginRateLimit,
		TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "127.0.0.1,::1")),
	}
	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	return cfg, nil
}

// MySQLDSN builds the MySQL DSN from the DB_* parts
func (c *Config) MySQLDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// DSN returns DATABASE_URL when set, otherwise the MySQL DSN
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.MySQLDSN()
}

func isProduction(env string) bool {
	env = strings.ToLower(strings.TrimSpace(env))
	return env == "production" || env == "prod"
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
