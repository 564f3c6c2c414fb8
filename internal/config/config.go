package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by REASON_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("REASON_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Missing files are fine; the environment may already be set.
	_ = godotenv.Load(envFile)
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil || port <= 0 {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// DatabaseURL is empty when sessions should live in memory only.
func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// APIKey is the static bearer token for /v1 routes. Empty disables auth.
func APIKey() string {
	return os.Getenv("API_KEY")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
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

// DefaultCreativityChance is used by sessions created without one.
func DefaultCreativityChance() float64 {
	p, err := strconv.ParseFloat(os.Getenv("DEFAULT_CREATIVITY_CHANCE"), 64)
	if err != nil || p < 0 || p > 1 {
		return 0.25
	}
	return p
}

func MaxThinkCycles() int {
	n, err := strconv.Atoi(os.Getenv("MAX_THINK_CYCLES"))
	if err != nil || n <= 0 {
		return 1000
	}
	return n
}

func ShutdownTimeout() time.Duration {
	return duration("SHUTDOWN_TIMEOUT", 10*time.Second)
}

// SessionIdleTTL is how long a persisted session may stay unused in
// memory before it is evicted.
func SessionIdleTTL() time.Duration {
	return duration("SESSION_IDLE_TTL", 30*time.Minute)
}

func duration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
