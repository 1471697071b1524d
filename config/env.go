package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Settings holds everything read from the environment at startup.
type Settings struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBTimezone string

	TokenSymmetricKey string
	RedisAddress      string
	BleveIndexPath    string

	BaseURL         string
	BaseFrontendURL string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	AdminEmail    string
	AdminPassword string

	// AllowEditAfterDecision lets administrators edit cards that were already approved or rejected.
	AllowEditAfterDecision bool
	ExportDir              string
	ExportTTL              time.Duration
	LoginRatePerMinute     int
}

// LoadEnvFile reads .env when present. Container deployments pass real env vars instead.
func LoadEnvFile(path string) {
	if err := godotenv.Load(path); err != nil {
		Logger.Warn("No .env file loaded, relying on process environment", zap.String("path", path), zap.Error(err))
	}
}

func GetEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetEnvOrDefault(key, fallback string) string {
	if v := GetEnv(key); v != "" {
		return v
	}
	return fallback
}

func GetEnvBool(key string, fallback bool) bool {
	v := GetEnv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		Logger.Warn("Invalid boolean environment value, using default",
			zap.String("key", key),
			zap.String("value", v),
			zap.Bool("default", fallback),
		)
		return fallback
	}
	return b
}

func GetEnvInt(key string, fallback int) int {
	v := GetEnv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		Logger.Warn("Invalid integer environment value, using default",
			zap.String("key", key),
			zap.String("value", v),
			zap.Int("default", fallback),
		)
		return fallback
	}
	return n
}

// LoadSettings reads the process environment. Database connection values and the
// token key are mandatory; the service cannot start without them.
func LoadSettings() (*Settings, error) {
	s := &Settings{
		Port:       GetEnvOrDefault("PORT", "8080"),
		DBHost:     GetEnv("DB_HOST"),
		DBPort:     GetEnvOrDefault("DB_PORT", "5432"),
		DBUser:     GetEnv("POSTGRES_USER"),
		DBPassword: GetEnv("POSTGRES_PASSWORD"),
		DBName:     GetEnv("POSTGRES_DB"),
		DBTimezone: GetEnvOrDefault("DB_TIMEZONE", "Asia/Seoul"),

		TokenSymmetricKey: GetEnv("TOKEN_SYMMETRIC_KEY"),
		RedisAddress:      GetEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
		BleveIndexPath:    GetEnvOrDefault("BLEVE_INDEX_PATH", "./bleve_data"),

		BaseURL:         GetEnvOrDefault("BASE_URL", "http://localhost:8080"),
		BaseFrontendURL: GetEnvOrDefault("BASE_FRONTEND_URL", "http://localhost:5173"),

		SMTPHost:     GetEnv("SMTP_HOST"),
		SMTPPort:     GetEnvInt("SMTP_PORT", 25),
		SMTPUser:     GetEnv("SMTP_USER"),
		SMTPPassword: GetEnv("SMTP_PASSWORD"),
		SMTPFrom:     GetEnvOrDefault("SMTP_FROM", "no-reply@26center.local"),

		AdminEmail:    GetEnv("ADMIN_EMAIL"),
		AdminPassword: GetEnv("ADMIN_PASSWORD"),

		AllowEditAfterDecision: GetEnvBool("ALLOW_EDIT_AFTER_DECISION", true),
		ExportDir:              GetEnvOrDefault("EXPORT_DIR", "./public/files"),
		ExportTTL:              time.Duration(GetEnvInt("EXPORT_TTL_HOURS", 24)) * time.Hour,
		LoginRatePerMinute:     GetEnvInt("LOGIN_RATE_PER_MINUTE", 10),
	}

	var missing []string
	required := map[string]string{
		"DB_HOST":             s.DBHost,
		"POSTGRES_USER":       s.DBUser,
		"POSTGRES_DB":         s.DBName,
		"TOKEN_SYMMETRIC_KEY": s.TokenSymmetricKey,
	}
	for _, key := range []string{"DB_HOST", "POSTGRES_USER", "POSTGRES_DB", "TOKEN_SYMMETRIC_KEY"} {
		if required[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return s, nil
}

// SecureCookies reports whether session cookies should carry the Secure flag.
func (s *Settings) SecureCookies() bool {
	return strings.HasPrefix(s.BaseURL, "https://")
}
