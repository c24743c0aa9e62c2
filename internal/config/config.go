package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file named by FACTURADOR_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("FACTURADOR_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine; the process env may carry everything.
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	if SessionSecret() == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// SessionSecret is the HMAC key session tokens are signed with.
func SessionSecret() string {
	return os.Getenv("SESSION_SECRET")
}

// SessionTTL returns how long an issued session stays valid.
// Defaults to 24h if not set or unparsable.
func SessionTTL() time.Duration {
	return durationOr("SESSION_TTL", 24*time.Hour)
}

// SessionCookieSecure controls the Secure flag on the session cookie.
// Defaults to true; only an explicit false disables it.
func SessionCookieSecure() bool {
	v, err := strconv.ParseBool(os.Getenv("SESSION_COOKIE_SECURE"))
	if err != nil {
		return true
	}
	return v
}

// BcryptCost defaults to 12.
func BcryptCost() int {
	cost, err := strconv.Atoi(os.Getenv("BCRYPT_COST"))
	if err != nil || cost <= 0 {
		return 12
	}
	return cost
}

// NATSURL is empty when view invalidation stays in-process.
func NATSURL() string {
	return strings.TrimSpace(os.Getenv("NATS_URL"))
}

func OverdueInterval() time.Duration {
	return durationOr("OVERDUE_INTERVAL", time.Hour)
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	return floatOr("RATE_LIMIT_RPS", 100)
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	return intOr("RATE_LIMIT_BURST", 20)
}

// AuthRateLimitRPS is the per-IP limit on /auth endpoints.
func AuthRateLimitRPS() float64 {
	return floatOr("AUTH_RATE_LIMIT_RPS", 1)
}

func AuthRateLimitBurst() int {
	return intOr("AUTH_RATE_LIMIT_BURST", 5)
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// MigrateOnStart defaults to true.
func MigrateOnStart() bool {
	v, err := strconv.ParseBool(os.Getenv("MIGRATE_ON_START"))
	if err != nil {
		return true
	}
	return v
}

func durationOr(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func floatOr(key string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}

func intOr(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
