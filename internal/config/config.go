// Package config handles application configuration and environment loading.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mmynk/myfishingdiary/internal/auth"
	"github.com/mmynk/myfishingdiary/internal/mail"
)

// Storage drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

const devJWTSecret = "dev-secret-change-in-production"

// Config holds the configuration of the API server.
type Config struct {
	Env         string // environment: "development" (default) or "production"
	ListenAddr  string // HTTP listen address (default ":3000")
	TLSCertFile string // TLS certificate file path (optional)
	TLSKeyFile  string // TLS private key file path (optional)
	LogLevel    string // log level: debug, info, warn, error (default "info")

	DBDriver           string // "mongo" (default when MONGODB_URI is set) or "sqlite"
	MongoURI           string
	MongoDatabase      string // default "myfishingdiary"
	SQLitePath         string // default "data/myfishingdiary.db"
	SeedEndpoints      bool   // expose POST/DELETE /api/db (default: on outside production)
	StaticPath         string // directory of the SPA build; empty disables static hosting
	GoogleAPIKey       string
	GeocoderRPS        float64 // outgoing geocoding requests per second (default 10)
	JWTSecret          string
	JWTTTL             time.Duration // default 7 days
	Mail               mail.Config
	RateLimitRPS       float64  // sustained requests per second per client (default 20)
	RateLimitBurst     int      // burst capacity (default 40)
	CORSAllowedOrigins []string // default ["*"]

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadDotEnv loads variables from a .env file without overriding ones already
// set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Env:           os.Getenv("ENV"),
		ListenAddr:    os.Getenv("LISTEN_ADDR"),
		TLSCertFile:   os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:    os.Getenv("TLS_KEY_FILE"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		DBDriver:      strings.ToLower(os.Getenv("DB_DRIVER")),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: os.Getenv("MONGODB_DATABASE"),
		SQLitePath:    os.Getenv("SQLITE_PATH"),
		StaticPath:    os.Getenv("STATIC_PATH"),
		GoogleAPIKey:  os.Getenv("GOOGLE_API_KEY"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		Mail: mail.Config{
			Host:     os.Getenv("SMTP_HOST"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
		},
	}
	cfg.SeedEndpoints = parseBoolEnvDefault("SEED_ENDPOINTS", !cfg.IsProduction())

	var err error
	if cfg.GeocoderRPS, err = parseFloatEnv("GEOCODER_RPS", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = parseFloatEnv("RATE_LIMIT_RPS", 20); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = parseIntEnv("RATE_LIMIT_BURST", 40); err != nil {
		return nil, err
	}
	if cfg.Mail.Port, err = parseIntEnv("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if v := os.Getenv("JWT_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid JWT_TTL %q", v)
		}
		cfg.JWTTTL = d
	}

	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = compactNonEmpty(origins)
	}

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":3000"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.DBDriver == "" {
		if cfg.MongoURI != "" {
			cfg.DBDriver = DriverMongo
		} else {
			cfg.DBDriver = DriverSQLite
		}
	}
	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = "myfishingdiary"
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = "data/myfishingdiary.db"
	}
	if cfg.JWTTTL == 0 {
		cfg.JWTTTL = auth.DefaultTokenDuration
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	switch cfg.DBDriver {
	case DriverMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGODB_URI is required when DB_DRIVER=mongo")
		}
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q (want %q or %q)", cfg.DBDriver, DriverMongo, DriverSQLite)
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return nil, fmt.Errorf("both TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if cfg.GoogleAPIKey == "" {
		cfg.Warnings = append(cfg.Warnings, "GOOGLE_API_KEY not set, address lookups are disabled")
	}

	if cfg.JWTSecret == "" {
		if cfg.IsProduction() {
			return nil, fmt.Errorf("JWT_SECRET must be set in production (ENV=production)")
		}
		cfg.JWTSecret = devJWTSecret
		cfg.Warnings = append(cfg.Warnings, "JWT_SECRET not set, using insecure default. Set JWT_SECRET in production!")
	}

	return cfg, nil
}

func parseBoolEnvDefault(key string, defaultVal bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch v {
	case "0", "false", "no", "off":
		return false
	case "1", "true", "yes", "on":
		return true
	}
	return defaultVal
}

func parseFloatEnv(key string, defaultVal float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return f, nil
}

func parseIntEnv(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}

func compactNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
