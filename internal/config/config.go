package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Cache    CacheConfig
	Storage  StorageConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
}

// IsProduction reports whether the server runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DatabaseConfig holds Postgres connection configuration
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectTimeout  time.Duration
	MigrationsPath  string
	RunMigrations   bool
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret    string
	TokenExpiry  time.Duration
	CookieName   string
	CookieSecure bool
	BCryptCost   int
	UserCacheTTL time.Duration
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	Provider   string // "memory" or "redis"
	RedisURL   string
	DefaultTTL time.Duration
}

// StorageConfig holds file upload configuration
type StorageConfig struct {
	Provider    string // "local" or "cloudinary"
	UploadDir   string
	MaxFileSize int64

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "console"
}

// Load reads configuration from the environment, loading a .env file first
// outside of production.
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		} else {
			_ = godotenv.Load()
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3002"),
			Environment:     env,
			ReadTimeout:     getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			GracefulTimeout: getDuration("SERVER_GRACEFUL_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnectTimeout:  getDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
			MigrationsPath:  getEnv("DB_MIGRATIONS_PATH", "migrations"),
			RunMigrations:   getBool("DB_RUN_MIGRATIONS", true),
		},
		Auth: AuthConfig{
			JWTSecret:    os.Getenv("JWT_SECRET"),
			TokenExpiry:  getDuration("JWT_EXPIRE", 7*24*time.Hour),
			CookieName:   getEnv("AUTH_COOKIE_NAME", "token"),
			CookieSecure: env == "production",
			BCryptCost:   getInt("BCRYPT_COST", 10),
			UserCacheTTL: getDuration("USER_CACHE_TTL", 15*time.Minute),
		},
		Cache: CacheConfig{
			Provider:   getEnv("CACHE_PROVIDER", "memory"),
			RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379/0"),
			DefaultTTL: getDuration("CACHE_DEFAULT_TTL", 5*time.Minute),
		},
		Storage: StorageConfig{
			Provider:            getEnv("STORAGE_PROVIDER", "local"),
			UploadDir:           getEnv("UPLOAD_DIR", "uploads"),
			MaxFileSize:         getInt64("UPLOAD_MAX_FILE_SIZE", 5*1024*1024),
			CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", defaultLogLevel(env)),
			Format: getEnv("LOG_FORMAT", defaultLogFormat(env)),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("config: DATABASE_URL is required")
	}
	if c.Auth.JWTSecret == "" {
		if c.Server.IsProduction() {
			return fmt.Errorf("config: JWT_SECRET is required in production")
		}
		c.Auth.JWTSecret = "dev-only-insecure-secret"
	}
	if c.Storage.Provider == "cloudinary" && c.Storage.CloudinaryCloudName == "" {
		return fmt.Errorf("config: CLOUDINARY_CLOUD_NAME is required when STORAGE_PROVIDER=cloudinary")
	}
	return nil
}

func defaultLogLevel(env string) string {
	if env == "production" {
		return "info"
	}
	return "debug"
}

func defaultLogFormat(env string) string {
	if env == "production" {
		return "json"
	}
	return "console"
}

// ===============================
// ENV HELPERS
// ===============================

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
