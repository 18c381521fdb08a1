package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Firebase FirebaseConfig
	Redis    RedisConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type FirebaseConfig struct {
	CredentialsPath string
	StorageBucket   string
	ProjectID       string
	// AdminEmail is the only account allowed to call write endpoints.
	AdminEmail string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AppConfig struct {
	Environment string
	Version     string
	// Sequences is the set of consumer apps each project carries a display
	// rank for. Adding an app here adds a rank sequence, no code changes.
	Sequences []string
	// IntegrityCron is the cron spec for the rank density audit.
	IntegrityCron string
	// WriteRPS limits admin write endpoints per client.
	WriteRPS   float64
	WriteBurst int
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		},
		Firebase: FirebaseConfig{
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			StorageBucket:   getEnv("FIREBASE_STORAGE_BUCKET", ""),
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			AdminEmail:      getEnv("ADMIN_EMAIL", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		App: AppConfig{
			Environment:   getEnv("APP_ENV", "development"),
			Version:       getEnv("APP_VERSION", "1.0.0"),
			Sequences:     getEnvAsSlice("APP_SEQUENCES", []string{"pedl", "cofcof"}),
			IntegrityCron: getEnv("INTEGRITY_CRON", "0 0 3 * * *"),
			WriteRPS:      getEnvAsFloat("WRITE_RPS", 5),
			WriteBurst:    getEnvAsInt("WRITE_BURST", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if len(c.App.Sequences) == 0 {
		return fmt.Errorf("APP_SEQUENCES must name at least one app")
	}

	seen := make(map[string]bool, len(c.App.Sequences))
	for _, app := range c.App.Sequences {
		if app == "" {
			return fmt.Errorf("APP_SEQUENCES contains an empty app name")
		}
		if seen[app] {
			return fmt.Errorf("APP_SEQUENCES contains %q twice", app)
		}
		seen[app] = true
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
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
