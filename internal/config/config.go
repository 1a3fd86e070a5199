package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort      int
	DatabasePath    string
	JWTSecret       string
	AdminEmail      string // bootstrap administrator pair, verified locally
	AdminPassword   string
	ClassifierURL   string // base URL of the remote classification service
	RecentCachePath string
	StatsCron       string // schedule for pushing dashboard snapshots
	AllowedOrigins  []string
}

// Load loads configuration from environment variables (and a .env file when
// present) or sets defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, err
	}

	return &Config{
		ServerPort:      port,
		DatabasePath:    getEnv("DATABASE_PATH", "./classify.db"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret"),
		AdminEmail:      getEnv("ADMIN_EMAIL", "admin@gmail.com"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin"),
		ClassifierURL:   getEnv("CLASSIFIER_URL", "http://localhost:5000"),
		RecentCachePath: getEnv("RECENT_CACHE_PATH", "./recent-results.json"),
		StatsCron:       getEnv("STATS_CRON", "*/5 * * * *"),
		AllowedOrigins:  strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ","),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
