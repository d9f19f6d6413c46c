package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the research backend.
type Config struct {
	Server ServerConfig
	Gemini GeminiConfig
	Search SearchConfig
	App    AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type SearchConfig struct {
	CourtListenerBaseURL string
	CourtListenerToken   string
	ProviderTimeout      time.Duration
	MaxResearchDepth     int
}

type AppConfig struct {
	Environment string
}

// Load reads configuration from the environment, with a .env file as an
// optional local override.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: splitAndTrim(getEnv("ALLOWED_ORIGINS", "*")),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		},
		Search: SearchConfig{
			CourtListenerBaseURL: getEnv("COURTLISTENER_BASE_URL", "https://www.courtlistener.com"),
			CourtListenerToken:   getEnv("COURTLISTENER_TOKEN", ""),
			ProviderTimeout:      time.Duration(getEnvAsInt("PROVIDER_TIMEOUT_SECONDS", 10)) * time.Second,
			MaxResearchDepth:     getEnvAsInt("MAX_RESEARCH_DEPTH", 2),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded configuration for values the server cannot
// start with.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}
	if c.Search.ProviderTimeout <= 0 {
		return fmt.Errorf("provider timeout must be positive")
	}
	if c.Search.MaxResearchDepth < 1 {
		return fmt.Errorf("max research depth must be at least 1")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer for %s: %q, using default %d", key, value, fallback)
		return fallback
	}
	return parsed
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
