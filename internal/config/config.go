package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/nareswara/svara/domain/entities"
)

// Environment variable names shared by the binaries.
const (
	EnvHost         = "SVARA_HOST"
	EnvAuthURL      = "SVARA_AUTH_URL"
	EnvTokenFile    = "SVARA_TOKEN_FILE"
	EnvClientID     = "SVARA_CLIENT_ID"
	EnvClientSecret = "SVARA_CLIENT_SECRET"
	EnvLanguage     = "SVARA_LANGUAGE"
	EnvLogLevel     = "SVARA_LOG_LEVEL"
	EnvSecure       = "SVARA_SECURE"
)

// Config carries the environment-provided settings. Command line flags take
// precedence over these values.
type Config struct {
	Host         string
	AuthURL      string
	TokenFile    string
	ClientID     string
	ClientSecret string
	Language     entities.Language
	LogLevel     string
	Secure       bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	// Missing .env is fine, the environment may be set directly.
	_ = godotenv.Load()

	config := &Config{
		Host:         getEnv(EnvHost, "localhost:50051"),
		AuthURL:      os.Getenv(EnvAuthURL),
		TokenFile:    getEnv(EnvTokenFile, "token.jwt"),
		ClientID:     os.Getenv(EnvClientID),
		ClientSecret: os.Getenv(EnvClientSecret),
		Language:     entities.DefaultLanguage,
		LogLevel:     getEnv(EnvLogLevel, "ERROR"),
	}

	if raw := os.Getenv(EnvLanguage); raw != "" {
		language, err := entities.ParseLanguage(raw)
		if err != nil {
			return nil, err
		}
		config.Language = language
	}

	if raw := os.Getenv(EnvSecure); raw != "" {
		secure, err := strconv.ParseBool(raw)
		if err == nil {
			config.Secure = secure
		}
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
