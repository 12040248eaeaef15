// Package config provides application configuration management.
// It loads configuration from environment variables with sensible defaults.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Budget   BudgetConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Email    EmailConfig
	Renewer  RenewerConfig
	Sheets   SheetsConfig
	Gemini   GeminiConfig
	Root     RootUserConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Environment  string

	// SecureCookies adds Secure and Max-Age attributes to the auth cookie;
	// enable when serving over HTTPS.
	SecureCookies bool
}

// BudgetConfig points at the budget configuration file the ledger loads.
type BudgetConfig struct {
	ConfigPath string
}

// DatabaseConfig holds user-store configuration. An empty URL selects an
// embedded SQLite file instead of PostgreSQL.
type DatabaseConfig struct {
	URL             string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds session-store configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds auth token configuration.
type JWTConfig struct {
	Secret      string
	TokenExpiry time.Duration
}

// EmailConfig holds notification email configuration.
type EmailConfig struct {
	ResendAPIKey string
	FromName     string
	FromEmail    string
}

// RenewerConfig holds the background cycle-renewer configuration.
type RenewerConfig struct {
	Enabled         bool
	TickInterval    time.Duration
	NotifyThreshold time.Duration
}

// SheetsConfig holds spreadsheet export configuration.
type SheetsConfig struct {
	SpreadsheetID string
	SheetName     string
}

// GeminiConfig holds AI class-suggestion configuration.
type GeminiConfig struct {
	APIKey string
}

// RootUserConfig holds the root user seeded at startup.
type RootUserConfig struct {
	Username string
	Email    string
	Password string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:          getEnv("SERVER_HOST", "0.0.0.0"),
			Port:          getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:   getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:  getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			Environment:   getEnv("ENV", "development"),
			SecureCookies: getEnvAsBool("SECURE_COOKIES", false),
		},
		Budget: BudgetConfig{
			ConfigPath: getEnv("BUDGET_CONFIG_PATH", "budget.json"),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			SQLitePath:      getEnv("SQLITE_PATH", "snowbudget.db"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "change-me-in-production"),
			TokenExpiry: getEnvAsDuration("JWT_EXPIRY", 30*24*time.Hour),
		},
		Email: EmailConfig{
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
			FromName:     getEnv("RESEND_FROM_NAME", "snowbudget"),
			FromEmail:    getEnv("RESEND_FROM_EMAIL", "onboarding@resend.dev"),
		},
		Renewer: RenewerConfig{
			Enabled:         getEnvAsBool("RENEWER_ENABLED", true),
			TickInterval:    getEnvAsDuration("RENEWER_TICK_INTERVAL", 1*time.Hour),
			NotifyThreshold: getEnvAsDuration("RENEWER_NOTIFY_THRESHOLD", 24*time.Hour),
		},
		Sheets: SheetsConfig{
			SpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
			SheetName:     getEnv("GOOGLE_SHEET_NAME", "Budget"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Root: RootUserConfig{
			Username: getEnv("ROOT_USERNAME", "root"),
			Email:    getEnv("ROOT_EMAIL", ""),
			Password: getEnv("ROOT_PASSWORD", ""),
		},
	}
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
