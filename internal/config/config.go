package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName    string
	AppEnv     string
	Port       string
	CORSOrigin string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Security
	SessionSecret string
	SessionExpiry time.Duration
	SecureCookies bool

	// Storage (local disk or S3-compatible: MinIO, AWS S3, R2, etc.)
	StorageDriver   string
	UploadPath      string
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string // Optional: for S3-compatible services
	S3PresignExpiry time.Duration

	// Observability (optional)
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:    envString("APP_NAME", "Rings"),
		AppEnv:     envRequired("APP_ENV"), // Required: 'development' or 'production'
		Port:       envString("PORT", "3001"),
		CORSOrigin: envString("CORS_ORIGIN", "http://localhost:5173"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/rings.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Security
		SessionSecret: envRequired("SESSION_SECRET"),
		SessionExpiry: envDuration("SESSION_EXPIRY", 168*time.Hour), // 7 days

		// Storage
		StorageDriver:   envString("STORAGE_DRIVER", "local"),
		UploadPath:      envString("UPLOAD_PATH", "./uploads"),
		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""), // Optional: for non-AWS providers
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 168*time.Hour),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),
	}

	cfg.SecureCookies = envBool("SECURE_COOKIES", cfg.IsProduction())

	// Production: validate required services
	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures all required services are configured for
// production deployments. Development allows fallbacks for local testing.
func validateProduction(cfg *Config) {
	if cfg.StorageDriver == "s3" && (cfg.S3Region == "" || cfg.S3Bucket == "") {
		slog.Error("production S3 storage requires S3_REGION and S3_BUCKET",
			"hint", "set STORAGE_DRIVER=local to store uploads on disk")
		os.Exit(1)
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
