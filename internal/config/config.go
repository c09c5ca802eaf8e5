package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Env  string
	Port string

	// Database
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	MigrationsPath string

	// Auth
	JWTSecret        string
	JWTExpirationDur time.Duration
	PipelineAPIKey   string

	// Recurring generation
	DefaultCurrency    string
	GenerationSchedule string
	GenerationTimezone *time.Location
	GenerationWorkers  int
	IncludeOverdue     bool
	ClaimTTL           time.Duration

	// Holidays
	HolidayProviderURL string
	HolidayCountry     string
	HolidayCacheTTL    time.Duration
	HolidayDates       []string
	HolidayWeekends    bool
	RequestTimeout     time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "ledgerd"),
		DBPassword:     getEnv("DB_PASSWORD", "ledgerd"),
		DBName:         getEnv("DB_NAME", "ledgerd"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "file://migrations"),

		JWTSecret:      getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		PipelineAPIKey: getEnv("PIPELINE_API_KEY", ""),

		DefaultCurrency:    strings.ToUpper(getEnv("DEFAULT_CURRENCY", "USD")),
		GenerationSchedule: getEnv("GENERATION_SCHEDULE", "5 0 * * *"),

		HolidayProviderURL: strings.TrimRight(getEnv("HOLIDAY_PROVIDER_URL", "https://date.nager.at"), "/"),
		HolidayCountry:     strings.ToUpper(getEnv("HOLIDAY_COUNTRY", "US")),
		HolidayDates:       splitList(getEnv("HOLIDAY_DATES", "")),
	}

	config.JWTExpirationDur = getDuration("JWT_EXPIRES_IN", 24*time.Hour)
	config.ClaimTTL = getDuration("CLAIM_TTL", 15*time.Minute)
	config.HolidayCacheTTL = getDuration("HOLIDAY_CACHE_TTL", 24*time.Hour)
	config.RequestTimeout = getDuration("REQUEST_TIMEOUT", 10*time.Second)
	config.GenerationWorkers = getInt("GENERATION_WORKERS", 4)
	config.IncludeOverdue = getBool("GENERATION_INCLUDE_OVERDUE", false)
	config.HolidayWeekends = getBool("HOLIDAY_WEEKENDS", false)

	tzName := getEnv("GENERATION_TIMEZONE", "UTC")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Printf("Warning: invalid GENERATION_TIMEZONE value '%s', falling back to UTC\n", tzName)
		loc = time.UTC
	}
	config.GenerationTimezone = loc

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// Today returns the current civil date in the generation timezone.
func (c *Config) Today(now time.Time) time.Time {
	loc := c.GenerationTimezone
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return n
}

func getBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %t\n", key, raw, defaultValue)
		return defaultValue
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
