package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	DatabaseURL     string
	DBMaxConns      int
	DBConnTimeout   time.Duration
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RedisTLS        bool

	CORSAllowedOrigins []string

	// Scheduling defaults applied when a tenant has no stored policy.
	DefaultSlotMinutes      int
	DefaultBufferMinutes    int
	DefaultMinAdvanceHours  int
	DefaultMaxAdvanceDays   int
	DefaultTimezone         string
	MaxDateRangeDays        int

	// Per-tenant throttle on the API; zero disables it.
	BookingRatePerSec float64
	BookingRateBurst  int

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		Env:       getEnv("ENV", "development"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		DBMaxConns:    getEnvAsInt("DB_MAX_CONNS", 10),
		DBConnTimeout: getEnvAsDuration("DB_CONN_TIMEOUT", 10*time.Second),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),

		DefaultSlotMinutes:     getEnvAsInt("DEFAULT_SLOT_MINUTES", 30),
		DefaultBufferMinutes:   getEnvAsInt("DEFAULT_BUFFER_MINUTES", 0),
		DefaultMinAdvanceHours: getEnvAsInt("DEFAULT_MIN_ADVANCE_HOURS", 1),
		DefaultMaxAdvanceDays:  getEnvAsInt("DEFAULT_MAX_ADVANCE_DAYS", 60),
		DefaultTimezone:        getEnv("DEFAULT_TIMEZONE", "America/Sao_Paulo"),
		MaxDateRangeDays:       getEnvAsInt("MAX_DATE_RANGE_DAYS", 31),

		BookingRatePerSec: getEnvAsFloat("BOOKING_RATE_PER_SEC", 0),
		BookingRateBurst:  getEnvAsInt("BOOKING_RATE_BURST", 10),

		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat retrieves an environment variable as a float or returns a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsSlice splits a comma-separated environment variable into trimmed values.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
