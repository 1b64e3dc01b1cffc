package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 3000)

	DatabaseFile string // Path to SQLite database file (default: ./contas.db)
	FrontendDir  string // Optional: static frontend directory served at /

	CodeTTL       time.Duration // Verification code lifetime (default: 15m)
	LedgerBackend string        // Pending ledger backend (memory, redis) (default: memory)
	RedisAddr     string        // Redis address, required for the redis ledger backend

	SMTPHost      string        // SMTP relay host; empty logs codes instead of mailing them
	SMTPPort      int           // SMTP relay port (default: 587)
	SMTPUsername  string        // Optional SMTP auth user
	SMTPPassword  string        // Optional SMTP auth password
	SMTPFrom      string        // Sender address for verification mails
	NotifyTimeout time.Duration // Per-delivery timeout (default: 10s)

	AuthMode     string        // Identity mode (payload, token) (default: payload)
	TokenSecret  string        // HS256 secret, required for token mode
	TokenTTL     time.Duration // Token lifetime in token mode (default: 24h)
	PasswordMode string        // Credential scheme (plain, argon2) (default: plain)

	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Ledger sweep interval (default: 5m)
}

func LoadConfig() Config {
	// A missing .env file is fine, the environment may be set directly.
	_ = godotenv.Load()

	return Config{
		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("PORT", 3000),

		DatabaseFile: getEnvOrDefault("CONTAS_DATABASE_FILE", "contas.db"),
		FrontendDir:  os.Getenv("CONTAS_FRONTEND_DIR"),

		CodeTTL:       getEnvDurationOrDefault("CONTAS_CODE_TTL", 15*time.Minute),
		LedgerBackend: getEnvOrDefault("CONTAS_LEDGER_BACKEND", "memory"),
		RedisAddr:     os.Getenv("CONTAS_REDIS_ADDR"),

		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername:  os.Getenv("SMTP_USERNAME"),
		SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:      getEnvOrDefault("SMTP_FROM", "noreply@controlefin.local"),
		NotifyTimeout: getEnvDurationOrDefault("SMTP_TIMEOUT", 10*time.Second),

		AuthMode:     getEnvOrDefault("CONTAS_AUTH_MODE", "payload"),
		TokenSecret:  os.Getenv("CONTAS_TOKEN_SECRET"),
		TokenTTL:     getEnvDurationOrDefault("CONTAS_TOKEN_TTL", 24*time.Hour),
		PasswordMode: getEnvOrDefault("CONTAS_PASSWORD_MODE", "plain"),

		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 5*time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
