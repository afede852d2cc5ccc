package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	OpenAI    OpenAIConfig
	RateLimit RateLimitConfig
	Database  DatabaseConfig
	Prompts   PromptsConfig
	Admin     AdminConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type OpenAIConfig struct {
	APIKey string
	Model  string
}

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type PromptsConfig struct {
	Dir string
}

type AdminConfig struct {
	Key string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		OpenAI: OpenAIConfig{
			APIKey: getEnv("OPENAI_API_KEY", ""),
			Model:  getEnv("OPENAI_MODEL", "gpt-5-mini"),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: getEnvAsInt("RATE_LIMIT_MAX_REQUESTS", 5),
			// One quota window per calendar week.
			Window: getEnvAsDuration("RATE_LIMIT_WINDOW", "168h"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "cv_analyzer"),
		},
		Prompts: PromptsConfig{
			Dir: getEnv("PROMPTS_DIR", "./prompts"),
		},
		Admin: AdminConfig{
			Key: getEnv("ADMIN_KEY", ""),
		},
	}
}

// SharedStoreEnabled reports whether a Postgres-backed rate-limit store is
// configured; without DB_HOST the in-memory store is used.
func (c *Config) SharedStoreEnabled() bool {
	return c.Database.Host != ""
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
