package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable LoadFromEnv reads.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LISTEN_ADDR", "TLS_CERT_FILE", "TLS_KEY_FILE", "LOG_LEVEL",
		"DB_DRIVER", "MONGODB_URI", "MONGODB_DATABASE", "SQLITE_PATH",
		"SEED_ENDPOINTS", "STATIC_PATH", "GOOGLE_API_KEY", "GEOCODER_RPS",
		"JWT_SECRET", "JWT_TTL", "SMTP_HOST", "SMTP_PORT", "SMTP_USERNAME",
		"SMTP_PASSWORD", "SMTP_FROM", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
		"CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, "data/myfishingdiary.db", cfg.SQLitePath)
	assert.Equal(t, "myfishingdiary", cfg.MongoDatabase)
	assert.Equal(t, devJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.False(t, cfg.Mail.Enabled())
	assert.True(t, cfg.SeedEndpoints)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 20.0, cfg.RateLimitRPS)
	assert.Equal(t, 40, cfg.RateLimitBurst)
	assert.Len(t, cfg.Warnings, 2)
}

func TestLoadFromEnv_AllVarsSet(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "diary")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "24h")
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SEED_ENDPOINTS", "false")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("SMTP_USERNAME", "u")
	t.Setenv("SMTP_PASSWORD", "p")
	t.Setenv("SMTP_FROM", "diary@example.com")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.DBDriver)
	assert.Equal(t, "diary", cfg.MongoDatabase)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.SeedEndpoints)
	assert.Equal(t, 2525, cfg.Mail.Port)
	assert.True(t, cfg.Mail.Enabled())
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"mongo without uri", map[string]string{"DB_DRIVER": "mongo"}},
		{"unknown driver", map[string]string{"DB_DRIVER": "postgres"}},
		{"tls half configured", map[string]string{"TLS_CERT_FILE": "cert.pem"}},
		{"production without secret", map[string]string{"ENV": "production"}},
		{"bad ttl", map[string]string{"JWT_TTL": "soon"}},
		{"bad rate", map[string]string{"RATE_LIMIT_RPS": "fast"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadFromEnv_ProductionDisablesSeeding(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.SeedEndpoints)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "MFD_DOTENV_ADDR=:4000\n# comment\nMFD_DOTENV_LEVEL=\"debug\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("MFD_DOTENV_LEVEL", "warn")
	t.Cleanup(func() { os.Unsetenv("MFD_DOTENV_ADDR") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, ":4000", os.Getenv("MFD_DOTENV_ADDR"))
	assert.Equal(t, "warn", os.Getenv("MFD_DOTENV_LEVEL"), "existing variables win")

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
